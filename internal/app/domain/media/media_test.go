package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voyago/voyago/internal/app/models"
)

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, prompt, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	args := m.Called(ctx, model, prompt, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateImagesResponse), args.Error(1)
}

func newTestService(t *testing.T) (*ServiceImpl, *MockAIClient, *MockImageGenerator) {
	t.Helper()
	aiClient := new(MockAIClient)
	images := new(MockImageGenerator)
	return NewService(aiClient, images, "imagen-test", zap.NewNop()), aiClient, images
}

func TestPlaceholderURLIsDeterministic(t *testing.T) {
	first := PlaceholderURL("Colosseum")
	assert.Equal(t, "https://picsum.photos/seed/Colosseum/1280/720", first)
	// Reproducible on retry.
	assert.Equal(t, first, PlaceholderURL("Colosseum"))

	assert.Equal(t, "https://picsum.photos/seed/Trevi+Fountain/1280/720", PlaceholderURL("Trevi Fountain"))
}

func TestAttractionImageFallsBackToPlaceholder(t *testing.T) {
	service, _, images := newTestService(t)
	images.On("GenerateImages", mock.Anything, "imagen-test", mock.Anything, mock.Anything).
		Return(nil, errors.New("model overloaded"))

	result := service.AttractionImage(context.Background(), "Colosseum", "Rome")
	assert.True(t, result.Fallback)
	assert.Equal(t, PlaceholderURL("Colosseum"), result.Source)

	// Fallbacks are not cached, so the next request tries again.
	service.AttractionImage(context.Background(), "Colosseum", "Rome")
	images.AssertNumberOfCalls(t, "GenerateImages", 2)
}

func TestAttractionImageCachesGeneratedResult(t *testing.T) {
	service, _, images := newTestService(t)
	imageBytes := []byte("jpeg-bytes")
	images.On("GenerateImages", mock.Anything, "imagen-test", mock.Anything, mock.Anything).
		Return(&genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{
				{Image: &genai.Image{ImageBytes: imageBytes}},
			},
		}, nil).Once()

	result := service.AttractionImage(context.Background(), "Colosseum", "Rome")
	require.False(t, result.Fallback)
	assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(imageBytes), result.Source)

	cached := service.AttractionImage(context.Background(), "Colosseum", "Rome")
	assert.Equal(t, result, cached)
	images.AssertNumberOfCalls(t, "GenerateImages", 1)
}

func groundedResponse(text string, uris ...string) *genai.GenerateContentResponse {
	chunks := make([]*genai.GroundingChunk, 0, len(uris))
	for _, uri := range uris {
		chunks = append(chunks, &genai.GroundingChunk{
			Web: &genai.GroundingChunkWeb{URI: uri, Title: "Source for " + uri},
		})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content:           &genai.Content{Parts: []*genai.Part{{Text: text}}},
				GroundingMetadata: &genai.GroundingMetadata{GroundingChunks: chunks},
			},
		},
	}
}

func TestAttractionDetailsDedupesSources(t *testing.T) {
	service, aiClient, _ := newTestService(t)
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(groundedResponse("An ancient amphitheatre.",
			"https://example.com/colosseum",
			"https://example.com/colosseum",
			"https://example.com/rome"), nil).Once()

	details, err := service.AttractionDetails(context.Background(), "Colosseum", "Rome")
	require.NoError(t, err)
	assert.Equal(t, "An ancient amphitheatre.", details.Description)
	require.Len(t, details.Sources, 2)
	assert.Equal(t, "https://example.com/colosseum", details.Sources[0].URI)
	assert.Equal(t, "https://example.com/rome", details.Sources[1].URI)
}

func TestAttractionDetailsEnrichmentError(t *testing.T) {
	service, aiClient, _ := newTestService(t)
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded")).Once()

	_, err := service.AttractionDetails(context.Background(), "Colosseum", "Rome")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CategoryEnrichment, appErr.Category)
	assert.True(t, strings.Contains(appErr.Message, "Colosseum"))
}

func TestAttractionDetailsAreCached(t *testing.T) {
	service, aiClient, _ := newTestService(t)
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(groundedResponse("An ancient amphitheatre.", "https://example.com/colosseum"), nil).Once()

	_, err := service.AttractionDetails(context.Background(), "Colosseum", "Rome")
	require.NoError(t, err)
	_, err = service.AttractionDetails(context.Background(), "Colosseum", "Rome")
	require.NoError(t, err)
	aiClient.AssertNumberOfCalls(t, "GenerateResponse", 1)
}

func TestRequestedImageConfig(t *testing.T) {
	service, _, images := newTestService(t)
	images.On("GenerateImages", mock.Anything, "imagen-test", mock.Anything,
		mock.MatchedBy(func(config *genai.GenerateImagesConfig) bool {
			return config.NumberOfImages == 1 && config.OutputMIMEType == "image/jpeg"
		})).
		Return(nil, errors.New("unused")).Once()

	service.AttractionImage(context.Background(), "Colosseum", "Rome")
	images.AssertExpectations(t)
}
