// Package middleware holds Fiber middleware shared by all routes.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"neogaming/internal/metrics"
)

// Metrics records the count and latency of every request. Requests are
// labelled with the matched route pattern, not the raw path.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := "unmatched"
		if route := c.Route(); route != nil && route.Path != "/" {
			path = route.Path
		}
		metrics.ObserveHTTPRequest(c.Method(), path, status, time.Since(start))
		return err
	}
}
