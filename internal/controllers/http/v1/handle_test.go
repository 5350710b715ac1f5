package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erik0810/DioramaCast/config"
	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/internal/repositories"
	"github.com/Erik0810/DioramaCast/internal/services/diorama"
	"github.com/Erik0810/DioramaCast/internal/services/weather"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

type mockWeatherRepo struct {
	snapshot  models.WeatherSnapshot
	err       error
	callCount int
}

func (m *mockWeatherRepo) Name() string {
	return "mock-weather"
}

func (m *mockWeatherRepo) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	m.callCount++
	if m.err != nil {
		return models.WeatherSnapshot{}, m.err
	}
	return m.snapshot, nil
}

type mockImageRepo struct {
	image     models.GeneratedImage
	err       error
	callCount int
}

func (m *mockImageRepo) Name() string {
	return "mock-image"
}

func (m *mockImageRepo) GenerateImage(ctx context.Context, prompt string) (models.GeneratedImage, error) {
	m.callCount++
	if m.err != nil {
		return models.GeneratedImage{}, m.err
	}
	return m.image, nil
}

func testLogger() *observe.Logger {
	return observe.NewZapLogger("test-app", "test", "debug", "json")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test-app", Env: "test"},
		Weather: config.WeatherConfig{
			APIs: []config.WeatherAPIConfig{
				{Name: "open-meteo", BaseURL: "https://api.open-meteo.com/v1/forecast", Timeout: 10},
			},
		},
		Cache:     config.CacheConfig{TTL: 300},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
}

// newTestApp wires a Fiber app with mocked providers behind the real services.
func newTestApp(cfg *config.Config, weatherRepo *mockWeatherRepo, imageRepo repositories.ImageRepository) *fiber.App {
	app := fiber.New()
	l := testLogger()

	var weatherRepos []repositories.WeatherRepository
	if weatherRepo != nil {
		weatherRepos = append(weatherRepos, weatherRepo)
	}

	weatherService := weather.NewWeatherService(weatherRepos, l)
	dioramaService := diorama.NewDioramaService(imageRepo, time.Second, l)

	NewRouter(app, weatherService, dioramaService, cfg, nil, l)
	return app
}

func decodeJSON(t *testing.T, resp *nethttp.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestHandleWeatherCall_MissingLat(t *testing.T) {
	repo := &mockWeatherRepo{}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lon=2.35", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Missing required parameter: lat", body.Error)
	assert.Equal(t, 0, repo.callCount)
}

func TestHandleWeatherCall_MissingLon(t *testing.T) {
	repo := &mockWeatherRepo{}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lat=48.85", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Missing required parameter: lon", body.Error)
}

func TestHandleWeatherCall_InvalidLatFormat(t *testing.T) {
	repo := &mockWeatherRepo{}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lat=abc&lon=2.35", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Invalid latitude format", body.Error)
	assert.Equal(t, 0, repo.callCount)
}

func TestHandleWeatherCall_LatOutOfRange(t *testing.T) {
	repo := &mockWeatherRepo{}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lat=91&lon=2.35", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Latitude must be between -90 and 90", body.Error)
}

func TestHandleWeatherCall_LonOutOfRange(t *testing.T) {
	repo := &mockWeatherRepo{}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lat=48.85&lon=-181", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Longitude must be between -180 and 180", body.Error)
}

func TestHandleWeatherCall_Success(t *testing.T) {
	repo := &mockWeatherRepo{
		snapshot: models.WeatherSnapshot{
			Location:    "Paris",
			Country:     "FR",
			Temperature: 18,
			FeelsLike:   17,
			Humidity:    62,
			Description: "Clear sky",
			Icon:        "01d",
			WindSpeed:   4,
			Pressure:    1015,
		},
	}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lat=48.8566&lon=2.3522", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.WeatherSnapshot
	decodeJSON(t, resp, &body)
	assert.Equal(t, repo.snapshot, body)
	assert.Equal(t, 1, repo.callCount)
}

func TestHandleWeatherCall_UpstreamError(t *testing.T) {
	repo := &mockWeatherRepo{
		err: &repositories.UpstreamError{Provider: "openweathermap", StatusCode: 401},
	}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lat=48.85&lon=2.35", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Weather service error: 401", body.Error)
}

func TestHandleWeatherCall_Timeout(t *testing.T) {
	repo := &mockWeatherRepo{err: context.DeadlineExceeded}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lat=48.85&lon=2.35", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusGatewayTimeout, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Weather service timeout, please try again", body.Error)
}

func TestHandleWeatherCall_GenericFailure(t *testing.T) {
	repo := &mockWeatherRepo{err: errors.New("boom")}
	app := newTestApp(testConfig(), repo, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/weather?lat=48.85&lon=2.35", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Failed to fetch weather data, please try again", body.Error)
}

func postJSON(app *fiber.App, path, payload string) (*nethttp.Response, error) {
	req, _ := nethttp.NewRequest(nethttp.MethodPost, path, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	return app.Test(req)
}

func TestHandleGenerateImage_Placeholder(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	resp, err := postJSON(app, "/api/generate-image",
		`{"location": "Test City", "weather": "sunny", "temperature": 25}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.GenerationResult
	decodeJSON(t, resp, &body)
	assert.Equal(t, diorama.PlaceholderImageURL, body.ImageURL)
	assert.NotEmpty(t, body.Message)
	assert.Contains(t, body.Prompt, "Test City")
	assert.Contains(t, body.Prompt, "sunny")
	assert.Contains(t, body.Prompt, "25°C")
}

func TestHandleGenerateImage_Defaults(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	resp, err := postJSON(app, "/api/generate-image", `{}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.GenerationResult
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.Prompt, "unknown location")
	assert.Contains(t, body.Prompt, "clear sky")
	assert.Contains(t, body.Prompt, "20°C")
}

func TestHandleGenerateImage_Success(t *testing.T) {
	imageRepo := &mockImageRepo{
		image: models.GeneratedImage{Data: []byte{0x89, 0x50}, MimeType: "image/png"},
	}
	app := newTestApp(testConfig(), nil, imageRepo)

	resp, err := postJSON(app, "/api/generate-image",
		`{"location": "Paris", "weather": "clear sky", "temperature": 18}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.GenerationResult
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.ImageURL, "data:image/png;base64,")
	assert.Equal(t, 1, imageRepo.callCount)
}

func TestHandleGenerateImage_MalformedJSON(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	resp, err := postJSON(app, "/api/generate-image", `{"location": `)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Invalid JSON data", body.Error)
}

func TestHandleGenerateImage_LocationTooLong(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	long := make([]byte, maxTextParamLength+1)
	for i := range long {
		long[i] = 'a'
	}

	resp, err := postJSON(app, "/api/generate-image",
		`{"location": "`+string(long)+`"}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Invalid location parameter", body.Error)
}

func TestHandleGenerateImage_MultibyteLocationWithinLimit(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	// 60 characters but 180 bytes; the limit counts characters
	location := strings.Repeat("京", 60)

	resp, err := postJSON(app, "/api/generate-image",
		`{"location": "`+location+`"}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.GenerationResult
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.Prompt, location)
}

func TestHandleGenerateImage_MultibyteLocationTooLong(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	resp, err := postJSON(app, "/api/generate-image",
		`{"location": "`+strings.Repeat("京", maxTextParamLength+1)+`"}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Invalid location parameter", body.Error)
}

func TestHandleGenerateImage_TemperatureOutOfRange(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	resp, err := postJSON(app, "/api/generate-image", `{"temperature": 101}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Invalid temperature parameter", body.Error)
}

func TestHandleGenerateImage_InvalidSettings(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	resp, err := postJSON(app, "/api/generate-image",
		`{"settings": {"style": "impressionist"}}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGenerateImage_InvalidCoordinates(t *testing.T) {
	imageRepo := &mockImageRepo{}
	app := newTestApp(testConfig(), nil, imageRepo)

	resp, err := postJSON(app, "/api/generate-image",
		`{"location": "Paris", "coordinates": {"lat": 91, "lon": 2.35}}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Invalid coordinates parameter", body.Error)
	assert.Equal(t, 0, imageRepo.callCount)
}

func TestHandleGenerateImage_ProviderFailure(t *testing.T) {
	imageRepo := &mockImageRepo{err: errors.New("quota exceeded")}
	app := newTestApp(testConfig(), nil, imageRepo)

	resp, err := postJSON(app, "/api/generate-image", `{"location": "Paris"}`)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Failed to generate image", body.Error)
}

func TestHandleHealth(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/health", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body HealthResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.NotEmpty(t, body.Timestamp)
}

func TestHandleReady_NotReadyWithoutImageKey(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/ready", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body ReadyResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "not_ready", body.Status)
	assert.True(t, body.Checks["weather_api"])
	assert.False(t, body.Checks["image_api"])
	assert.True(t, body.Checks["cache"])
}

func TestHandleReady_Ready(t *testing.T) {
	cfg := testConfig()
	cfg.Image.APIKey = "test-key"
	app := newTestApp(cfg, nil, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/ready", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ReadyResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "ready", body.Status)
}

func TestHandleMetrics(t *testing.T) {
	app := newTestApp(testConfig(), nil, nil)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/metrics", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body MetricsResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "memory", body.CacheType)
	assert.False(t, body.RedisConfigured)
	assert.GreaterOrEqual(t, body.UptimeSeconds, 0.0)
}
