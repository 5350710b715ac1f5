package http

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Erik0810/DioramaCast/internal/repositories"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
}

// GetCurrentWeather godoc
// @Summary Get current weather
// @Description Retrieves normalized current weather for a coordinate pair
// @Tags Weather
// @Accept json
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(48.8566)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(2.3522)
// @Success 200 {object} models.WeatherSnapshot "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "Upstream provider failure"
// @Failure 504 {object} ErrorResponse "Upstream provider timeout"
// @Router /api/weather [get]
func (r *routes) handleWeatherCall(c *fiber.Ctx) error {
	lat := c.Query("lat")
	lon := c.Query("lon")

	// Check for required parameters
	if lat == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: lat",
		})
	}

	if lon == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: lon",
		})
	}

	latFloat, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid latitude format",
		})
	}

	if latFloat < -90 || latFloat > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Latitude must be between -90 and 90",
		})
	}

	lonFloat, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid longitude format",
		})
	}

	if lonFloat < -180 || lonFloat > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Longitude must be between -180 and 180",
		})
	}

	snapshot, err := r.weather.FetchCurrent(c.Context(), latFloat, lonFloat)
	if err != nil {
		r.l.Error(err, map[string]any{
			"lat": latFloat,
			"lon": lonFloat,
		})

		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse{
				Error: "Weather service timeout, please try again",
			})
		}

		var upstream *repositories.UpstreamError
		if errors.As(err, &upstream) {
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Error: "Weather service error: " + strconv.Itoa(upstream.StatusCode),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to fetch weather data, please try again",
		})
	}

	return c.JSON(snapshot)
}
