package repositories

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Erik0810/DioramaCast/config"
	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

// HTTPClient is the subset of *http.Client the repositories use. Tests
// substitute it to stub provider responses.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewPooledHTTPClient returns a client sized for concurrent upstream calls.
// Retries stay at the connection level; failed requests surface to the caller.
func NewPooledHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// UpstreamError marks a non-200 answer from a provider so handlers can map it
// to 502 instead of a generic 500.
type UpstreamError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: HTTP error (status %d)", e.Provider, e.StatusCode)
}

type WeatherRepository interface {
	Name() string
	FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
}

func InitWeatherRepositories(cfg *config.Config, l *observe.Logger) []WeatherRepository {
	var repos []WeatherRepository
	for _, api := range cfg.GetWeatherAPIs() {
		timeout := time.Duration(api.Timeout) * time.Second
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient := NewPooledHTTPClient(timeout)

		switch api.Name {
		case "openweathermap":
			repo, err := NewOpenWeatherMapRepository(api.BaseURL, api.APIKey, l, httpClient)
			if err != nil {
				l.Warning("skipping openweathermap provider", map[string]any{"err": err.Error()})
				continue
			}
			repos = append(repos, repo)
		case "open-meteo":
			repos = append(repos, NewOpenMeteoRepository(api.BaseURL, l, httpClient))
			// Add more cases for new providers to extend the app
		}
	}

	return repos
}
