package http

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/swagger"

	"github.com/Erik0810/DioramaCast/config"
	"github.com/Erik0810/DioramaCast/internal/services/diorama"
	"github.com/Erik0810/DioramaCast/internal/services/weather"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

type routes struct {
	weather *weather.WeatherService
	diorama *diorama.DioramaService
	cfg     *config.Config
	storage fiber.Storage
	l       *observe.Logger
	started time.Time
}

func NewRouter(
	app *fiber.App,
	weatherService *weather.WeatherService,
	dioramaService *diorama.DioramaService,
	cfg *config.Config,
	storage fiber.Storage,
	l *observe.Logger,
) {
	r := &routes{
		weather: weatherService,
		diorama: dioramaService,
		cfg:     cfg,
		storage: storage,
		l:       l,
		started: time.Now(),
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		// Read the generated swagger.json file
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(fiber.Map{"error": "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// Manage endpoints stay outside the rate-limited group
	app.Get("/health", r.handleHealth)
	app.Get("/ready", r.handleReady)
	app.Get("/metrics", r.handleMetrics)

	api := app.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(r.newLimiter(cfg.RateLimit.APIPerMinute))
	}

	// Weather responses are cached on the full query string; the image
	// endpoint gets the strictest limit since generation is expensive.
	weatherChain := []fiber.Handler{}
	if cfg.RateLimit.Enabled {
		weatherChain = append(weatherChain, r.newLimiter(cfg.RateLimit.WeatherPerMinute))
	}
	weatherChain = append(weatherChain, cache.New(cache.Config{
		Expiration: time.Duration(cfg.Cache.TTL) * time.Second,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return utils.CopyString(c.OriginalURL())
		},
	}), r.handleWeatherCall)
	api.Get("/weather", weatherChain...)

	imageChain := []fiber.Handler{}
	if cfg.RateLimit.Enabled {
		imageChain = append(imageChain, r.newLimiter(cfg.RateLimit.ImagePerMinute))
	}
	imageChain = append(imageChain, r.handleGenerateImage)
	api.Post("/generate-image", imageChain...)
}

func (r *routes) newLimiter(maxPerMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        maxPerMinute,
		Expiration: time.Minute,
		Storage:    r.storage,
		LimitReached: func(c *fiber.Ctx) error {
			r.l.Warning("rate limit exceeded", map[string]any{"ip": c.IP(), "path": c.Path()})
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
			})
		},
	})
}
