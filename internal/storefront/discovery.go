package storefront

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"neogaming/internal/geo"
	"neogaming/internal/models"
	"neogaming/internal/places"
	"neogaming/internal/weather"
)

var (
	ErrPlacesUnavailable  = errors.New("place search is not configured")
	ErrWeatherUnavailable = errors.New("weather is not configured")
)

// Locate asks the Locator for the user's position. It never fails: on any
// error the fallback location is used and the reason is kept for display.
func (c *Client) Locate(ctx context.Context) geo.Resolution {
	res := geo.Locate(ctx, c.cfg.Locator, c.cfg.LocateTimeout)
	c.mu.Lock()
	c.state.Location = &res
	c.mu.Unlock()
	return res
}

// location returns the last resolved position, locating first if needed.
func (c *Client) location(ctx context.Context) geo.Point {
	c.mu.Lock()
	loc := c.state.Location
	c.mu.Unlock()
	if loc != nil {
		return loc.Point
	}
	return c.Locate(ctx).Point
}

// NearbyStores ranks the game stores from the user's position, top three.
func (c *Client) NearbyStores(ctx context.Context) []models.RankedPlace {
	return places.NearbyStores(c.location(ctx), geo.CategoryLimit)
}

// SearchPlaces runs a free-text place search around the user.
func (c *Client) SearchPlaces(ctx context.Context, query string) ([]models.RankedPlace, error) {
	if c.cfg.Places == nil {
		return nil, ErrPlacesUnavailable
	}
	results, err := c.cfg.Places.Search(ctx, query, c.location(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to search places: %w", err)
	}
	return results, nil
}

// RefreshWeather loads the weather for the user's position. A failure
// leaves the weather panel in its unavailable state.
func (c *Client) RefreshWeather(ctx context.Context) (*weather.Report, error) {
	if c.cfg.Weather == nil {
		return nil, ErrWeatherUnavailable
	}
	report, err := c.cfg.Weather.Current(ctx, c.location(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		zap.S().Warnf("weather unavailable: %v", err)
		c.state.Weather, c.state.WeatherErr = nil, err
		return nil, err
	}
	c.state.Weather, c.state.WeatherErr = report, nil
	return report, nil
}
