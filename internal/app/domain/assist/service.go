// Package assist provides the debounced destination suggestion and
// validation calls. Everything here is advisory: a failure must never block
// or fail the main submit path.
package assist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voyago/voyago/internal/app/models"
	"github.com/voyago/voyago/internal/app/observability/metrics"
	"github.com/voyago/voyago/internal/pkg/config"
)

// AIClient is the slice of the generative AI SDK the assist calls need.
type AIClient interface {
	GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Suggestion is the latest applied country suggestion for a session's
// destination input.
type Suggestion struct {
	Query   string `json:"query"`
	Country string `json:"country"`
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// SuggestCountry debounces per session: after the quiet period, at most
	// one outstanding request runs, and only the latest input's response is
	// ever applied.
	SuggestCountry(sessionID, destination string)
	LatestSuggestion(sessionID string) (Suggestion, bool)
	// ValidateDestination fails open (or closed) per configured policy.
	ValidateDestination(ctx context.Context, destination string) bool
}

const remoteTimeout = 10 * time.Second

type ServiceImpl struct {
	logger   *zap.Logger
	aiClient AIClient
	policies config.Policies
	delay    time.Duration

	mu          sync.Mutex
	debouncers  map[string]*Debouncer
	suggestions map[string]Suggestion
}

func NewService(aiClient AIClient, policies config.Policies, delay time.Duration, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		aiClient:    aiClient,
		policies:    policies,
		delay:       delay,
		debouncers:  make(map[string]*Debouncer),
		suggestions: make(map[string]Suggestion),
	}
}

func (s *ServiceImpl) debouncer(sessionID string) *Debouncer {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debouncers[sessionID]
	if !ok {
		d = NewDebouncer(s.delay)
		s.debouncers[sessionID] = d
	}
	return d
}

func (s *ServiceImpl) SuggestCountry(sessionID, destination string) {
	// Every new keystroke supersedes the pending request, whatever the new
	// input looks like, so a response for abandoned input can never land.
	d := s.debouncer(sessionID)
	d.Cancel()

	// New input also invalidates whatever suggestion was showing.
	s.mu.Lock()
	delete(s.suggestions, sessionID)
	s.mu.Unlock()

	// Single-word inputs are too ambiguous to be worth a remote call.
	if len(strings.Fields(strings.TrimSpace(destination))) < 2 {
		return
	}

	d.Trigger(func(token uint64) {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		country, err := s.suggestCountry(ctx, destination)
		if err != nil {
			// Fail open and silent; log only.
			s.logger.Warn("Country suggestion failed",
				zap.String("session", sessionID), zap.Error(err))
			return
		}

		if country == "" || strings.Contains(strings.ToLower(destination), strings.ToLower(country)) {
			return
		}

		// Latest is re-checked under the same lock as the write so a
		// superseding input cannot slip in between.
		s.mu.Lock()
		defer s.mu.Unlock()
		if !d.Latest(token) {
			if m := metrics.Get(); m != nil {
				m.AssistDiscardedTotal.Add(ctx, 1)
			}
			s.logger.Debug("Discarding stale country suggestion",
				zap.String("session", sessionID), zap.String("input", destination))
			return
		}
		s.suggestions[sessionID] = Suggestion{Query: destination, Country: country}
	})
}

func (s *ServiceImpl) LatestSuggestion(sessionID string) (Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestion, ok := s.suggestions[sessionID]
	return suggestion, ok
}

// ValidateDestination asks the model whether the input looks like a real
// destination. Per policy, a remote failure means "valid" (fail open) so the
// submit path is never blocked by the assistant being down.
func (s *ServiceImpl) ValidateDestination(ctx context.Context, destination string) bool {
	prompt := fmt.Sprintf(
		"Is %q a real travel destination a person could visit? Answer with exactly one word: yes or no.",
		destination)

	response, err := s.aiClient.GenerateResponse(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.0),
	})
	if err != nil || response == nil {
		appErr := models.NewAppError(models.CategoryAssist, "destination validation unavailable", err)
		s.logger.Warn("Destination validation failed", zap.Error(appErr))
		return s.policies.AssistFailOpen
	}

	answer := strings.ToLower(strings.TrimSpace(response.Text()))
	return !strings.HasPrefix(answer, "no")
}

func (s *ServiceImpl) suggestCountry(ctx context.Context, destination string) (string, error) {
	prompt := fmt.Sprintf(
		"The user typed the travel destination %q. If it names a recognizable city or landmark, reply with only the name of its country. If the input already mentions the country, or you are not confident, reply with an empty message.",
		destination)

	response, err := s.aiClient.GenerateResponse(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
	})
	if err != nil {
		return "", err
	}
	if response == nil {
		return "", nil
	}
	return strings.TrimSpace(response.Text()), nil
}
