// Package media serves per-attraction imagery and enrichment. Both degrade
// gracefully: they decorate the itinerary view and must never take it down.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voyago/voyago/internal/app/observability/metrics"
)

// ImageGenerator is the slice of the genai SDK used for image synthesis.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// GenAIImageClient adapts *genai.Client to ImageGenerator.
type GenAIImageClient struct {
	Client *genai.Client
}

func (g *GenAIImageClient) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	return g.Client.Models.GenerateImages(ctx, model, prompt, config)
}

// ImageResult is a success-or-fallback value, not an error: the fallback is
// the expected outcome when synthesis fails.
type ImageResult struct {
	Source   string `json:"source"`
	Fallback bool   `json:"fallback"`
}

// PlaceholderURL is the deterministic fallback image for an attraction.
// Seeding by attraction name makes repeated failures for the same attraction
// yield the same image.
func PlaceholderURL(attractionName string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/1280/720", url.QueryEscape(attractionName))
}

func (s *ServiceImpl) AttractionImage(ctx context.Context, attractionName, destination string) ImageResult {
	key := "img|" + attractionName + "|" + destination
	if cached, found := s.cache.Get(key); found {
		return cached.(ImageResult)
	}

	// Collapse concurrent requests for the same attraction into one call.
	result, _, _ := s.group.Do(key, func() (interface{}, error) {
		return s.generateImage(ctx, attractionName, destination, key), nil
	})
	return result.(ImageResult)
}

func (s *ServiceImpl) generateImage(ctx context.Context, attractionName, destination, key string) ImageResult {
	prompt := fmt.Sprintf(
		"Vibrant, photorealistic travel photograph of %s, %s. Show the landmark clearly in a beautiful, scenic context. No people in the foreground.",
		attractionName, destination)

	response, err := s.images.GenerateImages(ctx, s.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "16:9",
	})
	if err != nil || response == nil || len(response.GeneratedImages) == 0 ||
		response.GeneratedImages[0].Image == nil || len(response.GeneratedImages[0].Image.ImageBytes) == 0 {
		s.logger.Warn("Image generation failed, serving placeholder",
			zap.String("attraction", attractionName), zap.Error(err))
		if m := metrics.Get(); m != nil {
			m.ImageFallbacksTotal.Add(ctx, 1)
		}
		// Fallbacks are not cached so a later retry can still succeed.
		return ImageResult{Source: PlaceholderURL(attractionName), Fallback: true}
	}

	encoded := base64.StdEncoding.EncodeToString(response.GeneratedImages[0].Image.ImageBytes)
	result := ImageResult{Source: "data:image/jpeg;base64," + encoded}
	s.cache.Set(key, result, cache.DefaultExpiration)
	return result
}

const imageCacheTTL = 24 * time.Hour
