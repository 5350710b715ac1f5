package models

import "fmt"

// Coordinates is a geographic point selected by the user.
type Coordinates struct {
	Lat float64 `json:"lat" example:"48.8566"`
	Lon float64 `json:"lon" example:"2.3522"`
}

// Validate checks that the point lies on the globe.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %.4f", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %.4f", c.Lon)
	}
	return nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f", c.Lat, c.Lon)
}
