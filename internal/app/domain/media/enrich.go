package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"

	"github.com/voyago/voyago/internal/app/models"
)

// AIClient is the slice of the generative AI SDK used for text enrichment.
type AIClient interface {
	GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// SourceRef points at a page that grounded the enrichment answer.
type SourceRef struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type AttractionDetails struct {
	Description string      `json:"description"`
	Sources     []SourceRef `json:"sources"`
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	AttractionImage(ctx context.Context, attractionName, destination string) ImageResult
	AttractionDetails(ctx context.Context, attractionName, destination string) (*AttractionDetails, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	aiClient   AIClient
	images     ImageGenerator
	imageModel string
	httpClient *http.Client
	cache      *cache.Cache
	group      singleflight.Group
}

func NewService(aiClient AIClient, images ImageGenerator, imageModel string, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		aiClient:   aiClient,
		images:     images,
		imageModel: imageModel,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      cache.New(imageCacheTTL, 2*imageCacheTTL),
	}
}

// AttractionDetails fetches a short grounded description plus deduplicated
// sources. Errors here are inline-only: the caller renders a local error and
// the rest of the page is unaffected.
func (s *ServiceImpl) AttractionDetails(ctx context.Context, attractionName, destination string) (*AttractionDetails, error) {
	key := "details|" + attractionName + "|" + destination
	if cached, found := s.cache.Get(key); found {
		return cached.(*AttractionDetails), nil
	}

	prompt := fmt.Sprintf(
		"Give a concise, engaging two-to-three sentence description of %s in %s for a traveler: what it is, why it is worth visiting, and one practical tip.",
		attractionName, destination)

	response, err := s.aiClient.GenerateResponse(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil || response == nil {
		return nil, models.NewAppError(models.CategoryEnrichment,
			fmt.Sprintf("Details for %s are unavailable right now.", attractionName), err)
	}

	description := strings.TrimSpace(response.Text())
	if description == "" {
		return nil, models.NewAppError(models.CategoryEnrichment,
			fmt.Sprintf("Details for %s are unavailable right now.", attractionName), nil)
	}

	details := &AttractionDetails{
		Description: description,
		Sources:     s.collectSources(ctx, response),
	}
	s.cache.Set(key, details, cache.DefaultExpiration)
	return details, nil
}

// collectSources extracts grounding references, deduplicated by URI, and
// backfills missing titles best-effort from the page itself.
func (s *ServiceImpl) collectSources(ctx context.Context, response *genai.GenerateContentResponse) []SourceRef {
	if len(response.Candidates) == 0 || response.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	seen := make(map[string]bool)
	var sources []SourceRef
	for _, chunk := range response.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true

		title := chunk.Web.Title
		if title == "" {
			title = s.fetchPageTitle(ctx, chunk.Web.URI)
		}
		if title == "" {
			title = chunk.Web.URI
		}
		sources = append(sources, SourceRef{URI: chunk.Web.URI, Title: title})
	}
	return sources
}

func (s *ServiceImpl) fetchPageTitle(ctx context.Context, uri string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return ""
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
