package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"unicode"

	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

const (
	OpenWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5/weather"
)

type OpenWeatherMapRepository struct {
	BaseURL    string
	APIKey     string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewOpenWeatherMapRepository(baseURL, apiKey string, l *observe.Logger, httpClient HTTPClient) (*OpenWeatherMapRepository, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = OpenWeatherMapBaseURL
	}

	return &OpenWeatherMapRepository{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		httpClient: httpClient,
		l:          l,
	}, nil
}

func (w *OpenWeatherMapRepository) Name() string {
	return "openweathermap"
}

type OpenWeatherMapResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

func (w *OpenWeatherMapRepository) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	var snapshot models.WeatherSnapshot

	url := fmt.Sprintf("%s?lat=%f&lon=%f&units=metric&appid=%s", w.BaseURL, lat, lon, w.APIKey)

	w.l.Info("making openweathermap API request", map[string]any{
		"lat": lat,
		"lon": lon,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return snapshot, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return snapshot, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	w.l.Info("received openweathermap API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return snapshot, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return snapshot, &UpstreamError{Provider: w.Name(), StatusCode: resp.StatusCode}
	}

	var response OpenWeatherMapResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return snapshot, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	snapshot = models.WeatherSnapshot{
		Location:    response.Name,
		Country:     response.Sys.Country,
		Temperature: math.Round(response.Main.Temp),
		FeelsLike:   math.Round(response.Main.FeelsLike),
		Humidity:    response.Main.Humidity,
		WindSpeed:   math.Round(response.Wind.Speed),
		Pressure:    response.Main.Pressure,
		Icon:        "01d",
	}

	if len(response.Weather) > 0 {
		snapshot.Description = capitalize(response.Weather[0].Description)
		snapshot.Icon = response.Weather[0].Icon
	}

	return snapshot, nil
}

// capitalize upper-cases the first rune only; provider descriptions arrive
// all lower-case ("clear sky").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
