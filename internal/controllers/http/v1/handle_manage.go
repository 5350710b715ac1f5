package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse reports per-dependency readiness.
type ReadyResponse struct {
	Status    string          `json:"status" example:"ready"`
	Checks    map[string]bool `json:"checks"`
	Timestamp string          `json:"timestamp"`
}

// MetricsResponse is a minimal operational snapshot.
type MetricsResponse struct {
	CacheType       string  `json:"cache_type" example:"memory"`
	RedisConfigured bool    `json:"redis_configured"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// Health godoc
// @Summary Liveness check
// @Tags Manage
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (r *routes) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Ready godoc
// @Summary Readiness check
// @Description Verifies that the weather provider list, the image provider credential and the cache are usable.
// @Tags Manage
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /ready [get]
func (r *routes) handleReady(c *fiber.Ctx) error {
	checks := map[string]bool{
		"weather_api": len(r.cfg.GetWeatherAPIs()) > 0,
		"image_api":   r.cfg.Image.APIKey != "",
		"cache":       r.cacheReady(),
	}

	allReady := true
	for _, ok := range checks {
		if !ok {
			allReady = false
			break
		}
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allReady {
		status = "not_ready"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(ReadyResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// cacheReady probes the shared middleware storage. The in-memory default
// (nil storage) is always ready.
func (r *routes) cacheReady() bool {
	if r.storage == nil {
		return true
	}
	_, err := r.storage.Get("readiness-probe")
	return err == nil
}

// Metrics godoc
// @Summary Basic metrics
// @Tags Manage
// @Produce json
// @Success 200 {object} MetricsResponse
// @Router /metrics [get]
func (r *routes) handleMetrics(c *fiber.Ctx) error {
	cacheType := "memory"
	if r.cfg.Cache.RedisURL != "" {
		cacheType = "redis"
	}

	return c.JSON(MetricsResponse{
		CacheType:       cacheType,
		RedisConfigured: r.cfg.Cache.RedisURL != "",
		UptimeSeconds:   time.Since(r.started).Seconds(),
		Timestamp:       time.Now().Format(time.RFC3339),
	})
}
