package repositories

import (
	"context"
	"fmt"

	"github.com/Erik0810/DioramaCast/config"
	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

type ImageRepository interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string) (models.GeneratedImage, error)
}

// InitImageRepository returns nil (and no error) when no credential is
// configured: a nil repository switches the diorama service to placeholder
// responses rather than failing requests.
func InitImageRepository(ctx context.Context, cfg *config.Config, l *observe.Logger) (ImageRepository, error) {
	if cfg.Image.APIKey == "" {
		l.Warning("no image provider credential configured, serving placeholder responses")
		return nil, nil
	}

	switch cfg.Image.Provider {
	case "gemini":
		return NewGeminiImageRepository(ctx, cfg.Image.APIKey, cfg.Image.Model, l)
	default:
		return nil, fmt.Errorf("unknown image provider: %s", cfg.Image.Provider)
	}
}
