package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"neogaming/internal/geo"
	"neogaming/internal/places"
	"neogaming/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DiscoveryHandler serves store, place and weather lookups around a point.
type DiscoveryHandler struct {
	discovery *services.DiscoveryService
}

// NewDiscoveryHandler creates a new DiscoveryHandler.
func NewDiscoveryHandler(discovery *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery}
}

// RegisterRoutes registers the discovery routes with the Fiber app.
func (h *DiscoveryHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stores/nearby", h.HandleNearbyStores)
	router.Get("/places/search", h.HandleSearchPlaces)
	router.Get("/weather", h.HandleWeather)
}

// parsePoint reads lat/lng from the query string. With neither present the
// fallback location is used.
func parsePoint(c *fiber.Ctx) (geo.Point, bool, error) {
	rawLat, rawLng := c.Query("lat"), c.Query("lng")
	if rawLat == "" && rawLng == "" {
		return geo.FallbackLocation, true, nil
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("invalid lat %q", rawLat)
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("invalid lng %q", rawLng)
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if !geo.Valid(p) {
		return geo.Point{}, false, fmt.Errorf("coordinates out of range: %v,%v", lat, lng)
	}
	return p, false, nil
}

// HandleNearbyStores ranks the game stores by distance.
func (h *DiscoveryHandler) HandleNearbyStores(c *fiber.Ctx) error {
	point, fallback, err := parsePoint(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	limit := c.QueryInt("limit", geo.CategoryLimit)

	return c.JSON(fiber.Map{
		"location": point,
		"fallback": fallback,
		"results":  h.discovery.NearbyStores(point, limit),
	})
}

// HandleSearchPlaces runs a free-text place search.
func (h *DiscoveryHandler) HandleSearchPlaces(c *fiber.Ctx) error {
	point, fallback, err := parsePoint(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	results, err := h.discovery.SearchPlaces(c.UserContext(), c.Query("q"), point)
	if err != nil {
		if errors.Is(err, places.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Search query is required"})
		}
		zap.S().Warnf("place search failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Place search is unavailable"})
	}

	return c.JSON(fiber.Map{
		"location": point,
		"fallback": fallback,
		"results":  results,
	})
}

// HandleWeather returns the current weather at the given point.
func (h *DiscoveryHandler) HandleWeather(c *fiber.Ctx) error {
	point, _, err := parsePoint(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.discovery.Weather(c.UserContext(), point)
	if err != nil {
		if errors.Is(err, services.ErrWeatherUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Weather is not configured"})
		}
		zap.S().Warnf("weather lookup failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Weather is unavailable"})
	}
	return c.JSON(report)
}
