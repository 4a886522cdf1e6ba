package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultLocateTimeout bounds a single position request.
const DefaultLocateTimeout = 15 * time.Second

// Geolocation failure reasons. Locator implementations should wrap one of
// these so Locate can pick the right message.
var (
	ErrUnsupported         = errors.New("geolocation not supported")
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
)

// Locator is the device geolocation capability.
type Locator interface {
	Locate(ctx context.Context) (Point, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Point, error)

func (f LocatorFunc) Locate(ctx context.Context) (Point, error) { return f(ctx) }

// StaticLocator always answers with the same point or error.
type StaticLocator struct {
	Point Point
	Err   error
}

func (s StaticLocator) Locate(context.Context) (Point, error) {
	if s.Err != nil {
		return Point{}, s.Err
	}
	return s.Point, nil
}

// Resolution is the outcome of a location request. It always carries a
// usable Point; Fallback is set when that point is FallbackLocation.
type Resolution struct {
	Point    Point  `json:"point"`
	Fallback bool   `json:"fallback"`
	Label    string `json:"label"`
	Message  string `json:"message"`
	Err      error  `json:"-"`
}

// Message maps a geolocation error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return "Location obtained"
	case errors.Is(err, ErrPermissionDenied):
		return "Location access denied"
	case errors.Is(err, ErrPositionUnavailable):
		return "Location unavailable"
	case errors.Is(err, ErrTimeout):
		return "Location request timed out"
	case errors.Is(err, ErrUnsupported):
		return "Geolocation is not supported"
	default:
		return "Unknown location error"
	}
}

// Fallback builds the resolution used when no position is available.
func Fallback(err error) Resolution {
	return Resolution{
		Point:    FallbackLocation,
		Fallback: true,
		Label:    FallbackLabel + " (default location)",
		Message:  Message(err) + " - using default location",
		Err:      err,
	}
}

type located struct {
	p   Point
	err error
}

// Locate asks l for the user's position and waits at most timeout. Every
// failure degrades to the fallback location; Locate never returns an error.
// A locator that ignores ctx is abandoned once the wait expires.
func Locate(ctx context.Context, l Locator, timeout time.Duration) Resolution {
	if l == nil {
		return Fallback(ErrUnsupported)
	}
	if timeout <= 0 {
		timeout = DefaultLocateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan located, 1)
	go func() {
		p, err := l.Locate(ctx)
		done <- located{p: p, err: err}
	}()

	var res located
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	err := res.err
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if err == nil && !Valid(res.p) {
		err = fmt.Errorf("%w: invalid coordinates %v,%v", ErrPositionUnavailable, res.p.Lat, res.p.Lng)
	}
	if err != nil {
		zap.S().Warnf("geolocation failed, using fallback location: %v", err)
		return Fallback(err)
	}
	return Resolution{Point: res.p, Label: "Your current location", Message: Message(nil)}
}
