package weather_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/internal/repositories"
	"github.com/Erik0810/DioramaCast/internal/services/weather"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

// MockRepository implements WeatherRepository for testing
type MockRepository struct {
	name       string
	shouldFail bool
	snapshot   models.WeatherSnapshot
	callCount  int
}

func (m *MockRepository) Name() string {
	return m.name
}

func (m *MockRepository) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	m.callCount++

	if err := ctx.Err(); err != nil {
		return models.WeatherSnapshot{}, err
	}

	if m.shouldFail {
		return models.WeatherSnapshot{}, errors.New("mock repository error")
	}

	return m.snapshot, nil
}

func testLogger() *observe.Logger {
	return observe.NewZapLogger("test-app", "test", "debug", "json")
}

func TestNewWeatherService(t *testing.T) {
	repos := []repositories.WeatherRepository{
		&MockRepository{name: "test-repo-1"},
		&MockRepository{name: "test-repo-2"},
	}

	service := weather.NewWeatherService(repos, testLogger())

	assert.NotNil(t, service)
}

func TestWeatherService_FetchCurrent_Success(t *testing.T) {
	snapshot := models.WeatherSnapshot{
		Location:    "Paris",
		Country:     "FR",
		Temperature: 18,
		Description: "Clear sky",
		Icon:        "01d",
	}

	repos := []repositories.WeatherRepository{
		&MockRepository{name: "repo-1", snapshot: snapshot},
	}

	service := weather.NewWeatherService(repos, testLogger())

	result, err := service.FetchCurrent(context.Background(), 48.8566, 2.3522)

	require.NoError(t, err)
	assert.Equal(t, snapshot, result)
}

func TestWeatherService_FetchCurrent_Failover(t *testing.T) {
	snapshot := models.WeatherSnapshot{
		Location:    "Berlin",
		Temperature: 21,
	}

	failing := &MockRepository{name: "failure-repo", shouldFail: true}
	working := &MockRepository{name: "success-repo", snapshot: snapshot}

	service := weather.NewWeatherService(
		[]repositories.WeatherRepository{failing, working},
		testLogger(),
	)

	result, err := service.FetchCurrent(context.Background(), 52.52, 13.41)

	require.NoError(t, err)
	assert.Equal(t, snapshot, result)
	assert.Equal(t, 1, failing.callCount)
	assert.Equal(t, 1, working.callCount)
}

func TestWeatherService_FetchCurrent_FirstSuccessWins(t *testing.T) {
	first := &MockRepository{name: "first", snapshot: models.WeatherSnapshot{Location: "Rome"}}
	second := &MockRepository{name: "second", snapshot: models.WeatherSnapshot{Location: "Milan"}}

	service := weather.NewWeatherService(
		[]repositories.WeatherRepository{first, second},
		testLogger(),
	)

	result, err := service.FetchCurrent(context.Background(), 41.9, 12.5)

	require.NoError(t, err)
	assert.Equal(t, "Rome", result.Location)
	assert.Equal(t, 1, first.callCount)
	assert.Equal(t, 0, second.callCount)
}

func TestWeatherService_FetchCurrent_AllFailures(t *testing.T) {
	repos := []repositories.WeatherRepository{
		&MockRepository{name: "failure-repo-1", shouldFail: true},
		&MockRepository{name: "failure-repo-2", shouldFail: true},
	}

	service := weather.NewWeatherService(repos, testLogger())

	_, err := service.FetchCurrent(context.Background(), 40.7128, -74.0060)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all weather providers failed")
}

func TestWeatherService_FetchCurrent_NoRepositories(t *testing.T) {
	service := weather.NewWeatherService(nil, testLogger())

	_, err := service.FetchCurrent(context.Background(), 40.7128, -74.0060)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no weather providers configured")
}

func TestWeatherService_FetchCurrent_EmptyLocationNormalized(t *testing.T) {
	repos := []repositories.WeatherRepository{
		&MockRepository{name: "keyless-repo", snapshot: models.WeatherSnapshot{Temperature: 12}},
	}

	service := weather.NewWeatherService(repos, testLogger())

	result, err := service.FetchCurrent(context.Background(), 52.52, 13.41)

	require.NoError(t, err)
	assert.Equal(t, "Unknown", result.Location)
}

func TestWeatherService_FetchCurrent_ContextCancellation(t *testing.T) {
	first := &MockRepository{name: "first", shouldFail: true}
	second := &MockRepository{name: "second", snapshot: models.WeatherSnapshot{Location: "Oslo"}}

	service := weather.NewWeatherService(
		[]repositories.WeatherRepository{first, second},
		testLogger(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.FetchCurrent(ctx, 59.91, 10.75)

	require.Error(t, err)
	// Cancellation stops the failover chain
	assert.Equal(t, 0, second.callCount)
}
