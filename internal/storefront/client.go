// Package storefront is the shopper-facing client: it loads the catalog from
// the REST API, renders category pages, ranks nearby stores and drives the
// simulated checkout.
package storefront

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"neogaming/internal/checkout"
	"neogaming/internal/geo"
	"neogaming/internal/models"
	"neogaming/internal/upstream"
	"neogaming/internal/weather"
)

// FallbackPolicy decides what happens when the catalog cannot be fetched.
type FallbackPolicy int

const (
	// FallbackError surfaces the error; the UI offers a retry.
	FallbackError FallbackPolicy = iota
	// FallbackExamples shows the built-in example catalog instead.
	FallbackExamples
)

const (
	DefaultBaseURL             = "http://localhost:3000/api"
	DefaultDisplayLimit        = 12
	DefaultProductFetchTimeout = 10 * time.Second
)

// PlaceSearcher finds places around a point.
type PlaceSearcher interface {
	Search(ctx context.Context, query string, user geo.Point) ([]models.RankedPlace, error)
}

// WeatherReporter reports the current weather at a point.
type WeatherReporter interface {
	Current(ctx context.Context, p geo.Point) (*weather.Report, error)
}

// Config configures a Client. Zero values pick the defaults.
type Config struct {
	BaseURL   string
	Transport http.RoundTripper

	Storage Storage
	Locator geo.Locator
	// Gateway defaults to a SimulatedGateway waiting PaymentDelay and
	// signing receipts with ReceiptSecret when it is set.
	Gateway       checkout.Gateway
	PaymentDelay  time.Duration
	ReceiptSecret string
	Places  PlaceSearcher   // optional
	Weather WeatherReporter // optional

	Fallback            FallbackPolicy
	DisplayLimit        int
	ProductFetchTimeout time.Duration
	LocateTimeout       time.Duration
	Now                 func() time.Time
}

// Client holds one shopper's session. It is safe for concurrent use.
type Client struct {
	cfg      Config
	api      *upstream.Fetcher
	storage  Storage
	registry *Registry
	session  *checkout.Session

	mu    sync.Mutex
	state AppState
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Storage == nil {
		cfg.Storage = NewMemoryStorage()
	}
	if cfg.Locator == nil {
		cfg.Locator = geo.StaticLocator{Err: geo.ErrUnsupported}
	}
	if cfg.Gateway == nil {
		var signer *checkout.ReceiptSigner
		if cfg.ReceiptSecret != "" {
			signer = checkout.NewReceiptSigner(cfg.ReceiptSecret)
		}
		gw := checkout.NewSimulatedGateway(signer)
		if cfg.PaymentDelay > 0 {
			gw.Delay = cfg.PaymentDelay
		}
		cfg.Gateway = gw
	}
	if cfg.DisplayLimit <= 0 {
		cfg.DisplayLimit = DefaultDisplayLimit
	}
	if cfg.ProductFetchTimeout <= 0 {
		cfg.ProductFetchTimeout = DefaultProductFetchTimeout
	}
	if cfg.LocateTimeout <= 0 {
		cfg.LocateTimeout = geo.DefaultLocateTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	registry := NewRegistry()
	c := &Client{
		cfg: cfg,
		api: upstream.New(upstream.Config{
			Service:   "storefront-api",
			Timeout:   cfg.ProductFetchTimeout,
			Transport: cfg.Transport,
		}),
		storage:  cfg.Storage,
		registry: registry,
		session:  checkout.NewSession(cfg.Gateway, registry),
	}
	c.session.OnComplete(c.recordPurchase)
	return c
}

// State returns a snapshot of the application state.
func (c *Client) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Products = append([]models.Product(nil), c.state.Products...)
	return s
}

// Registry exposes the product registry backing display and checkout.
func (c *Client) Registry() *Registry {
	return c.registry
}

// LoadHome loads the catalog, the user's location and the weather. Only a
// catalog failure under FallbackError is returned; location and weather
// problems are reflected in the state.
func (c *Client) LoadHome(ctx context.Context) error {
	c.Locate(ctx)
	if c.cfg.Weather != nil {
		// Failure is recorded in AppState.WeatherErr.
		_, _ = c.RefreshWeather(ctx)
	}
	_, err := c.LoadProducts(ctx)
	return err
}
