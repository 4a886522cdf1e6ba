package services

import (
	"context"
	"errors"

	"neogaming/internal/geo"
	"neogaming/internal/models"
	"neogaming/internal/places"
	"neogaming/internal/weather"
)

// ErrWeatherUnavailable is returned when no weather client is configured.
var ErrWeatherUnavailable = errors.New("weather service unavailable")

// PlaceSearcher finds places around a point.
type PlaceSearcher interface {
	Search(ctx context.Context, query string, user geo.Point) ([]models.RankedPlace, error)
}

// WeatherReporter reports the current weather at a point.
type WeatherReporter interface {
	Current(ctx context.Context, p geo.Point) (*weather.Report, error)
}

// DiscoveryService answers location-based questions: nearby game stores,
// free-text place search and the local weather.
type DiscoveryService struct {
	places  PlaceSearcher
	weather WeatherReporter
}

// NewDiscoveryService creates a new DiscoveryService. Either dependency may be nil.
func NewDiscoveryService(places PlaceSearcher, weather WeatherReporter) *DiscoveryService {
	return &DiscoveryService{places: places, weather: weather}
}

// NearbyStores ranks the fixed store list from user.
func (s *DiscoveryService) NearbyStores(user geo.Point, limit int) []models.RankedPlace {
	return places.NearbyStores(user, limit)
}

// SearchPlaces runs a free-text place search around user.
func (s *DiscoveryService) SearchPlaces(ctx context.Context, query string, user geo.Point) ([]models.RankedPlace, error) {
	if s.places == nil {
		return nil, errors.New("place search is not configured")
	}
	return s.places.Search(ctx, query, user)
}

// Weather returns the current weather at p.
func (s *DiscoveryService) Weather(ctx context.Context, p geo.Point) (*weather.Report, error) {
	if s.weather == nil {
		return nil, ErrWeatherUnavailable
	}
	return s.weather.Current(ctx, p)
}
