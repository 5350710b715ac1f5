package models

// WeatherSnapshot is the normalized current-weather payload returned to the
// client. A snapshot is immutable; a new fetch replaces it entirely.
type WeatherSnapshot struct {
	Location    string  `json:"location" example:"Paris"`
	Country     string  `json:"country" example:"FR"`
	Temperature float64 `json:"temperature" example:"18"`
	FeelsLike   float64 `json:"feels_like" example:"17"`
	Humidity    int     `json:"humidity" example:"62"`
	Description string  `json:"description" example:"Clear sky"`
	Icon        string  `json:"icon" example:"01d"`
	WindSpeed   float64 `json:"wind_speed" example:"4"`
	Pressure    int     `json:"pressure" example:"1015"`
}
