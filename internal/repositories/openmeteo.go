package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

const (
	OpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"
)

// OpenMeteoRepository is the keyless fallback provider. It cannot resolve a
// place name, so Location is left empty and normalized by the service.
type OpenMeteoRepository struct {
	BaseURL    string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewOpenMeteoRepository(baseURL string, l *observe.Logger, httpClient HTTPClient) *OpenMeteoRepository {
	if baseURL == "" {
		baseURL = OpenMeteoBaseURL
	}

	return &OpenMeteoRepository{
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (o *OpenMeteoRepository) Name() string {
	return "open-meteo"
}

type OpenMeteoCurrent struct {
	Temperature2m       float64 `json:"temperature_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	RelativeHumidity2m  int     `json:"relative_humidity_2m"`
	SurfacePressure     float64 `json:"surface_pressure"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
	WeatherCode         int     `json:"weather_code"`
}

func (o *OpenMeteoRepository) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	var snapshot models.WeatherSnapshot

	url := fmt.Sprintf("%s?latitude=%f&longitude=%f&current=temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,wind_speed_10m,weather_code&timezone=auto", o.BaseURL, lat, lon)

	o.l.Info("making open-meteo API request", map[string]any{
		"lat": lat,
		"lon": lon,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return snapshot, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return snapshot, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	o.l.Info("received open-meteo API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return snapshot, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return snapshot, &UpstreamError{Provider: o.Name(), StatusCode: resp.StatusCode}
	}

	var response struct {
		Current OpenMeteoCurrent `json:"current"`
	}

	if err = json.Unmarshal(body, &response); err != nil {
		return snapshot, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	description, icon := WMOCondition(response.Current.WeatherCode)

	snapshot = models.WeatherSnapshot{
		Temperature: math.Round(response.Current.Temperature2m),
		FeelsLike:   math.Round(response.Current.ApparentTemperature),
		Humidity:    response.Current.RelativeHumidity2m,
		Description: description,
		Icon:        icon,
		// Open-Meteo reports km/h, the rest of the app uses m/s.
		WindSpeed: math.Round(response.Current.WindSpeed10m / 3.6),
		Pressure:  int(math.Round(response.Current.SurfacePressure)),
	}

	return snapshot, nil
}

// WMOCondition maps a WMO weather interpretation code onto a textual
// description and an OpenWeatherMap-style icon code, so both providers
// produce the same snapshot shape.
func WMOCondition(code int) (description, icon string) {
	switch code {
	case 0:
		return "Clear sky", "01d"
	case 1:
		return "Mainly clear", "02d"
	case 2:
		return "Partly cloudy", "03d"
	case 3:
		return "Overcast", "04d"
	case 45, 48:
		return "Fog", "50d"
	case 51, 53, 55:
		return "Drizzle", "09d"
	case 56, 57:
		return "Freezing drizzle", "09d"
	case 61:
		return "Slight rain", "10d"
	case 63:
		return "Moderate rain", "10d"
	case 65:
		return "Heavy rain", "10d"
	case 66, 67:
		return "Freezing rain", "13d"
	case 71:
		return "Slight snow fall", "13d"
	case 73:
		return "Moderate snow fall", "13d"
	case 75:
		return "Heavy snow fall", "13d"
	case 77:
		return "Snow grains", "13d"
	case 80, 81, 82:
		return "Rain showers", "09d"
	case 85, 86:
		return "Snow showers", "13d"
	case 95:
		return "Thunderstorm", "11d"
	case 96, 99:
		return "Thunderstorm with hail", "11d"
	}
	return "Unknown conditions", "01d"
}
