package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Erik0810/DioramaCast/config"
	v1 "github.com/Erik0810/DioramaCast/internal/controllers/http/v1"
	"github.com/Erik0810/DioramaCast/internal/repositories"
	"github.com/Erik0810/DioramaCast/internal/services/diorama"
	"github.com/Erik0810/DioramaCast/internal/services/weather"
	"github.com/Erik0810/DioramaCast/pkg/httpserver"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

// @title DioramaCast API
// @version 1.0.0
// @description Weather-driven diorama generation service. Looks up current weather for a coordinate pair, builds an isometric-diorama prompt from it and proxies the prompt to an image-generation provider.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Weather
// @tag.description Current weather lookup
// @tag.name Diorama
// @tag.description Diorama image generation
// @tag.name Manage
// @tag.description Liveness, readiness and metrics
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// Optional .env for local development
	_ = godotenv.Load()

	cnf, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	hook := observe.NewSentryHook(cnf.App.Env, cnf.App.Name, cnf.Sentry.DSN, cnf.IsDevelopment())
	l := observe.NewZapLogger(cnf.App.Name, cnf.App.Env, cnf.Log.Level, cnf.Log.Format, os.Stdout, hook)

	app := httpserver.InitFiberServer(cnf)
	storage := httpserver.NewStorage(cnf)

	weatherRepos := repositories.InitWeatherRepositories(cnf, l)

	imageRepo, err := repositories.InitImageRepository(ctx, cnf, l)
	if err != nil {
		l.Fatal("cannot initialize image provider", map[string]any{"err": err.Error()})
	}

	weatherService := weather.NewWeatherService(weatherRepos, l)
	dioramaService := diorama.NewDioramaService(imageRepo, time.Duration(cnf.Image.Timeout)*time.Second, l)

	v1.NewRouter(
		app,
		weatherService,
		dioramaService,
		cnf,
		storage,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{"port": cnf.Server.Port})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		hook.Flush()
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
