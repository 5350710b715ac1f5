package diorama

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/internal/repositories"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

const defaultGenerationTimeout = 60 * time.Second

// DioramaService builds prompts and proxies them to the image provider.
type DioramaService struct {
	// images is nil when no provider credential is configured; the service
	// then answers with a placeholder instead of an error.
	images  repositories.ImageRepository
	timeout time.Duration
	l       *observe.Logger
	now     func() time.Time
}

func NewDioramaService(images repositories.ImageRepository, timeout time.Duration, l *observe.Logger) *DioramaService {
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}

	return &DioramaService{
		images:  images,
		timeout: timeout,
		l:       l,
		now:     time.Now,
	}
}

// GenerationRequest carries the validated inputs of one generation call.
type GenerationRequest struct {
	Location    string
	Weather     string
	Temperature float64
	Settings    models.GenerationSettings
}

func (s *DioramaService) Generate(ctx context.Context, req GenerationRequest) (models.GenerationResult, error) {
	prompt := BuildPrompt(req.Location, req.Weather, req.Temperature, req.Settings, s.now())

	if s.images == nil {
		s.l.Warning("image generation attempted without API key", map[string]any{
			"location": req.Location,
		})

		return models.GenerationResult{
			ImageURL: PlaceholderImageURL,
			Prompt:   prompt,
			Message:  "Image provider API key not configured. This is a placeholder.",
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.l.Info("starting image generation", map[string]any{
		"location": req.Location,
		"provider": s.images.Name(),
	})

	image, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		s.l.Error(err, map[string]any{
			"location": req.Location,
			"provider": s.images.Name(),
		})
		return models.GenerationResult{}, errors.Wrap(err, "image generation failed")
	}

	imageURL := fmt.Sprintf("data:%s;base64,%s", image.MimeType, base64.StdEncoding.EncodeToString(image.Data))

	return models.GenerationResult{
		ImageURL: imageURL,
		Prompt:   prompt,
		Message:  "Image generation successful",
	}, nil
}
