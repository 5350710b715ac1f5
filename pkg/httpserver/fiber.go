package httpserver

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/redis/v3"

	"github.com/Erik0810/DioramaCast/config"
)

func InitFiberServer(cfg *config.Config) *fiber.App {
	s := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	})

	s.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	s.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000,
		// CSP allows the inline scripts and CDN assets the front-end needs
		ContentSecurityPolicy: "default-src 'self' https:; " +
			"script-src 'self' 'unsafe-inline' https://unpkg.com https://cdn.jsdelivr.net; " +
			"style-src 'self' 'unsafe-inline' https://unpkg.com https://cdn.jsdelivr.net; " +
			"img-src 'self' data: https: blob:; " +
			"connect-src 'self' https:;",
	}))
	s.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
		MaxAge:       3600,
	}))

	return s
}

// NewStorage returns the storage shared by the cache and limiter middlewares:
// Redis when configured, otherwise nil so the middlewares fall back to their
// in-memory default.
func NewStorage(cfg *config.Config) fiber.Storage {
	if cfg.Cache.RedisURL == "" {
		return nil
	}

	return redis.New(redis.Config{
		URL: cfg.Cache.RedisURL,
	})
}
