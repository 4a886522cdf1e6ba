// Package weather reports current conditions at the user's location.
package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"neogaming/internal/geo"
	"neogaming/internal/upstream"
)

const (
	DefaultAPIURL     = "https://api.openweathermap.org/data/2.5"
	DefaultGeocodeURL = "https://nominatim.openstreetmap.org"
)

var (
	ErrMissingAPIKey   = errors.New("weather API key is not configured")
	ErrInvalidResponse = errors.New("invalid response from weather API")
)

var icons = map[string]string{
	"clear":        "☀️",
	"clouds":       "☁️",
	"rain":         "🌧️",
	"drizzle":      "🌦️",
	"thunderstorm": "⛈️",
	"snow":         "❄️",
	"mist":         "🌫️",
	"fog":          "🌫️",
	"haze":         "🌫️",
	"dust":         "🌪️",
	"sand":         "🌪️",
	"ash":          "🌋",
	"squall":       "💨",
	"tornado":      "🌪️",
}

// Icon returns the icon for an OpenWeatherMap "main" condition.
func Icon(condition string) string {
	if icon, ok := icons[strings.ToLower(condition)]; ok {
		return icon
	}
	return "🌤️"
}

// Report is the current weather plus a human name for the location.
type Report struct {
	Location    geo.Point `json:"location"`
	Temperature int       `json:"temperature_c"`
	FeelsLike   int       `json:"feels_like_c"`
	Humidity    int       `json:"humidity"`
	WindKmh     int       `json:"wind_kmh"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Place       string    `json:"place,omitempty"` // from reverse geocoding
}

// Config configures a Client.
type Config struct {
	APIURL            string
	APIKey            string
	GeocodeURL        string
	Lang              string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	// Limiter is shared by the weather and geocoding requests, and usually
	// with the places client. When nil one is built from RequestsPerSecond.
	Limiter *rate.Limiter
}

// Client talks to OpenWeatherMap and Nominatim reverse geocoding.
type Client struct {
	cfg     Config
	weather *upstream.Fetcher
	geocode *upstream.Fetcher
}

// NewClient creates a new weather Client.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.GeocodeURL == "" {
		cfg.GeocodeURL = DefaultGeocodeURL
	}
	if cfg.Lang == "" {
		cfg.Lang = "es"
	}
	if cfg.Limiter == nil {
		cfg.Limiter = upstream.NewLimiter(cfg.RequestsPerSecond, 1)
	}
	return &Client{
		cfg: cfg,
		weather: upstream.New(upstream.Config{
			Service:   "openweathermap",
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			Limiter:   cfg.Limiter,
		}),
		geocode: upstream.New(upstream.Config{
			Service:   "nominatim-reverse",
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			Limiter:   cfg.Limiter,
		}),
	}
}

func coord(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// Current fetches the weather and the reverse-geocoded place name for p in
// parallel. A failed reverse lookup only leaves Place empty.
func (c *Client) Current(ctx context.Context, p geo.Point) (*Report, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var (
		report *Report
		place  string
	)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		body, err := c.weather.Get(ctx, strings.TrimRight(c.cfg.APIURL, "/")+"/weather", url.Values{
			"lat":   {coord(p.Lat)},
			"lon":   {coord(p.Lng)},
			"appid": {c.cfg.APIKey},
			"units": {"metric"},
			"lang":  {c.cfg.Lang},
		})
		if err != nil {
			return fmt.Errorf("failed to fetch weather: %w", err)
		}
		report, err = parseWeather(body)
		return err
	})

	g.Go(func() error {
		body, err := c.geocode.Get(ctx, strings.TrimRight(c.cfg.GeocodeURL, "/")+"/reverse", url.Values{
			"format": {"json"},
			"lat":    {coord(p.Lat)},
			"lon":    {coord(p.Lng)},
			"zoom":   {"10"},
		})
		if err != nil {
			zap.S().Warnf("reverse geocoding failed: %v", err)
			return nil
		}
		place = placeName(body)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Location = p
	report.Place = place
	return report, nil
}

func round(v float64) int { return int(math.Round(v)) }

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func parseWeather(body []byte) (*Report, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidResponse
	}
	doc := gjson.ParseBytes(body)
	if !doc.Get("main.temp").Exists() {
		return nil, fmt.Errorf("%w: missing main.temp", ErrInvalidResponse)
	}
	description := capitalize(doc.Get("weather.0.description").String())
	return &Report{
		Temperature: round(doc.Get("main.temp").Float()),
		FeelsLike:   round(doc.Get("main.feels_like").Float()),
		Humidity:    int(doc.Get("main.humidity").Int()),
		WindKmh:     round(doc.Get("wind.speed").Float() * 3.6),
		Description: description,
		Icon:        Icon(doc.Get("weather.0.main").String()),
		City:        doc.Get("name").String(),
		Country:     doc.Get("sys.country").String(),
	}, nil
}

func placeName(body []byte) string {
	doc := gjson.ParseBytes(body)
	for _, key := range []string{"address.city", "address.town", "address.village"} {
		if name := doc.Get(key).String(); name != "" {
			if state := doc.Get("address.state").String(); state != "" {
				return name + ", " + state
			}
			return name
		}
	}
	return doc.Get("display_name").String()
}
