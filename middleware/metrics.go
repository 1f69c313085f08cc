package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"deadstock/metrics"
)

// RequestMetrics records the latency of every request by its route pattern.
func RequestMetrics(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	metrics.ObserveHTTP(c.Method(), c.Route().Path, status, started)
	return err
}
