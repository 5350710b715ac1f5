package http

import (
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/internal/services/diorama"
)

const maxTextParamLength = 100

// GenerateImageRequest is the body of the image-generation call.
type GenerateImageRequest struct {
	Location    string                    `json:"location" example:"Paris"`
	Weather     string                    `json:"weather" example:"clear sky"`
	Temperature *float64                  `json:"temperature" example:"18"`
	Settings    models.GenerationSettings `json:"settings"`
	Coordinates *models.Coordinates       `json:"coordinates,omitempty"`
}

// GenerateImage godoc
// @Summary Generate a diorama image
// @Description Builds an isometric-diorama prompt from location, weather and settings, forwards it to the image provider and returns the image as a data URL. Without a configured provider credential a placeholder URL and explanatory message are returned.
// @Tags Diorama
// @Accept json
// @Produce json
// @Param request body GenerateImageRequest true "Generation request"
// @Success 200 {object} models.GenerationResult "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - malformed JSON or invalid parameters"
// @Failure 500 {object} ErrorResponse "Image provider failure"
// @Router /api/generate-image [post]
func (r *routes) handleGenerateImage(c *fiber.Ctx) error {
	var req GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		r.l.Warning("invalid JSON in image generation request", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid JSON data",
		})
	}

	if req.Location == "" {
		req.Location = "unknown location"
	}
	if req.Weather == "" {
		req.Weather = "clear sky"
	}
	temperature := 20.0
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	// Length limits count characters, not bytes; multibyte place names must
	// not be penalized.
	if utf8.RuneCountInString(req.Location) > maxTextParamLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid location parameter",
		})
	}
	if utf8.RuneCountInString(req.Weather) > maxTextParamLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid weather parameter",
		})
	}
	if temperature < -100 || temperature > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid temperature parameter",
		})
	}
	if err := req.Settings.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}
	// Coordinates are informational but must still be plausible; invalid
	// values are rejected before anything reaches the provider.
	if req.Coordinates != nil {
		if err := req.Coordinates.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "Invalid coordinates parameter",
			})
		}
	}

	result, err := r.diorama.Generate(c.Context(), diorama.GenerationRequest{
		Location:    req.Location,
		Weather:     req.Weather,
		Temperature: temperature,
		Settings:    req.Settings,
	})
	if err != nil {
		r.l.Error(err, map[string]any{"location": req.Location})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to generate image",
		})
	}

	return c.JSON(result)
}
