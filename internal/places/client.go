// Package places searches points of interest near the user through
// OpenStreetMap services (Overpass for known categories, Nominatim for
// free text) and ranks them by distance.
package places

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"neogaming/internal/geo"
	"neogaming/internal/models"
	"neogaming/internal/upstream"
)

// Defaults for Config.
const (
	DefaultNominatimURL  = "https://nominatim.openstreetmap.org"
	DefaultOverpassURL   = "https://overpass-api.de/api/interpreter"
	DefaultMaxDistanceKm = 50.0
	DefaultRadiusDeg     = 0.1
	DefaultRadiusMeters  = 10000
)

var (
	ErrEmptyQuery      = errors.New("search query is empty")
	ErrInvalidResponse = errors.New("invalid response from places API")
)

// Config configures a Client. Zero values take the package defaults.
type Config struct {
	NominatimURL      string
	OverpassURL       string
	UserAgent         string
	RadiusDeg         float64 // half side of the Nominatim viewbox
	RadiusMeters      int     // Overpass "around" radius
	MaxDistanceKm     float64 // results farther than this are dropped
	Limit             int     // ranked results kept
	RequestsPerSecond float64
	// Limiter is shared by every request of the client. When nil one is
	// built from RequestsPerSecond.
	Limiter *rate.Limiter
	Timeout time.Duration
}

// Client runs place searches.
type Client struct {
	cfg       Config
	nominatim *upstream.Fetcher
	overpass  *upstream.Fetcher
}

// NewClient creates a new places Client.
func NewClient(cfg Config) *Client {
	if cfg.NominatimURL == "" {
		cfg.NominatimURL = DefaultNominatimURL
	}
	if cfg.OverpassURL == "" {
		cfg.OverpassURL = DefaultOverpassURL
	}
	if cfg.RadiusDeg <= 0 {
		cfg.RadiusDeg = DefaultRadiusDeg
	}
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = DefaultRadiusMeters
	}
	if cfg.MaxDistanceKm <= 0 {
		cfg.MaxDistanceKm = DefaultMaxDistanceKm
	}
	if cfg.Limit <= 0 {
		cfg.Limit = geo.SearchLimit
	}
	if cfg.Limiter == nil {
		cfg.Limiter = upstream.NewLimiter(cfg.RequestsPerSecond, 1)
	}
	return &Client{
		cfg: cfg,
		nominatim: upstream.New(upstream.Config{
			Service:   "nominatim",
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			Limiter:   cfg.Limiter,
		}),
		overpass: upstream.New(upstream.Config{
			Service:   "overpass",
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			Limiter:   cfg.Limiter,
		}),
	}
}

// Search finds places matching query around user. A query containing a
// known keyword is run as an Overpass tag search; anything else becomes a
// Nominatim text search bounded to a box around the user. Results beyond
// MaxDistanceKm are discarded and the rest are ranked by distance.
func (c *Client) Search(ctx context.Context, query string, user geo.Point) ([]models.RankedPlace, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	var (
		found []models.Place
		err   error
	)
	if tag, ok := MatchTag(query); ok {
		zap.S().Debugf("place search %q mapped to tag %s", query, tag)
		found, err = c.searchTag(ctx, tag, user)
	} else {
		found, err = c.searchText(ctx, query, user)
	}
	if err != nil {
		return nil, err
	}

	found = geo.WithinKm(user, found, c.cfg.MaxDistanceKm)
	return geo.Rank(user, found, c.cfg.Limit), nil
}

func overpassQuery(tag Tag, user geo.Point, radius int) string {
	filter := fmt.Sprintf(`[%q=%q](around:%d,%s,%s)`, tag.Key, tag.Value, radius,
		strconv.FormatFloat(user.Lat, 'f', 6, 64), strconv.FormatFloat(user.Lng, 'f', 6, 64))
	return "[out:json][timeout:25];(node" + filter + ";way" + filter + ";);out center 50;"
}

func (c *Client) searchTag(ctx context.Context, tag Tag, user geo.Point) ([]models.Place, error) {
	body, err := c.overpass.Get(ctx, c.cfg.OverpassURL, url.Values{
		"data": {overpassQuery(tag, user, c.cfg.RadiusMeters)},
	})
	if err != nil {
		return nil, fmt.Errorf("overpass search for %s: %w", tag, err)
	}
	return parseOverpass(body, tag)
}

func (c *Client) searchText(ctx context.Context, query string, user geo.Point) ([]models.Place, error) {
	r := c.cfg.RadiusDeg
	viewbox := strings.Join([]string{
		strconv.FormatFloat(user.Lng-r, 'f', 6, 64),
		strconv.FormatFloat(user.Lat-r, 'f', 6, 64),
		strconv.FormatFloat(user.Lng+r, 'f', 6, 64),
		strconv.FormatFloat(user.Lat+r, 'f', 6, 64),
	}, ",")
	body, err := c.nominatim.Get(ctx, strings.TrimRight(c.cfg.NominatimURL, "/")+"/search", url.Values{
		"format":         {"json"},
		"q":              {query},
		"viewbox":        {viewbox},
		"bounded":        {"1"},
		"limit":          {"25"},
		"addressdetails": {"1"},
		"extratags":      {"1"},
	})
	if err != nil {
		return nil, fmt.Errorf("nominatim search for %q: %w", query, err)
	}
	return parseNominatim(body, query)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func parseNominatim(body []byte, query string) ([]models.Place, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidResponse
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected an array", ErrInvalidResponse)
	}

	var found []models.Place
	doc.ForEach(func(_, el gjson.Result) bool {
		lat, errLat := strconv.ParseFloat(el.Get("lat").String(), 64)
		lng, errLng := strconv.ParseFloat(el.Get("lon").String(), 64)
		if errLat != nil || errLng != nil || lat == 0 || lng == 0 {
			return true
		}
		display := el.Get("display_name").String()
		name := strings.TrimSpace(strings.SplitN(display, ",", 2)[0])
		if name == "" {
			name = fmt.Sprintf("Result for %q", query)
		}
		found = append(found, models.Place{
			ID:          el.Get("place_id").String(),
			Coordinates: models.Coordinates{Lat: lat, Lng: lng},
			Name:        name,
			Address:     display,
			Phone:       orDefault(el.Get("extratags.phone").String(), "Not available"),
			Hours:       orDefault(el.Get("extratags.opening_hours").String(), "Check opening hours"),
			Website:     el.Get("extratags.website").String(),
			Kind:        KindIcon(el.Get("class").String(), el.Get("type").String()),
		})
		return true
	})
	return found, nil
}

func overpassAddress(tags gjson.Result) string {
	var parts []string
	street := strings.TrimSpace(tags.Get(`addr\:street`).String() + " " + tags.Get(`addr\:housenumber`).String())
	if street != "" {
		parts = append(parts, street)
	}
	if city := tags.Get(`addr\:city`).String(); city != "" {
		parts = append(parts, city)
	}
	return orDefault(strings.Join(parts, ", "), "Address not available")
}

func parseOverpass(body []byte, tag Tag) ([]models.Place, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidResponse
	}
	elements := gjson.GetBytes(body, "elements")
	if !elements.IsArray() {
		return nil, fmt.Errorf("%w: missing elements", ErrInvalidResponse)
	}

	var found []models.Place
	elements.ForEach(func(_, el gjson.Result) bool {
		lat, lng := el.Get("lat"), el.Get("lon")
		if !lat.Exists() {
			lat, lng = el.Get("center.lat"), el.Get("center.lon")
		}
		if !lat.Exists() || !lng.Exists() {
			return true
		}
		tags := el.Get("tags")
		found = append(found, models.Place{
			ID:          el.Get("type").String() + "/" + el.Get("id").String(),
			Coordinates: models.Coordinates{Lat: lat.Float(), Lng: lng.Float()},
			Name:        orDefault(tags.Get("name").String(), strings.ReplaceAll(tag.Value, "_", " ")),
			Address:     overpassAddress(tags),
			Phone:       orDefault(tags.Get("phone").String(), "Not available"),
			Hours:       orDefault(tags.Get("opening_hours").String(), "Check opening hours"),
			Website:     tags.Get("website").String(),
			Kind:        KindIcon(tag.Key, tag.Value),
		})
		return true
	})
	return found, nil
}
