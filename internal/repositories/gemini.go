package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

type GeminiImageRepository struct {
	model  string
	client *genai.Client
	l      *observe.Logger
}

func NewGeminiImageRepository(ctx context.Context, apiKey, model string, l *observe.Logger) (*GeminiImageRepository, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiImageRepository{
		model:  model,
		client: client,
		l:      l,
	}, nil
}

func (g *GeminiImageRepository) Name() string {
	return "gemini"
}

func (g *GeminiImageRepository) GenerateImage(ctx context.Context, prompt string) (models.GeneratedImage, error) {
	var image models.GeneratedImage

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		CandidateCount:     1,
		ImageConfig: &genai.ImageConfig{
			AspectRatio: "1:1",
		},
	}

	g.l.Info("making gemini generation request", map[string]any{"model": g.model})

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return image, fmt.Errorf("gemini request failed: %w", err)
	}

	g.l.Info("gemini generation completed", map[string]any{
		"model":   g.model,
		"elapsed": time.Since(start).String(),
	})

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return models.GeneratedImage{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// No inline data usually means the prompt was safety-blocked.
	return image, errors.New("no image data in gemini response")
}
