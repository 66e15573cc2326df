package planner

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voyago/voyago/internal/app/domain/trips"
	"github.com/voyago/voyago/internal/app/models"
	"github.com/voyago/voyago/internal/app/observability/metrics"
)

// AIClient is the slice of the generative AI SDK the planner needs.
type AIClient interface {
	GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service orchestrates itinerary generation: one call in flight per session,
// fail-closed, latest-token-wins.
type Service interface {
	Generate(ctx context.Context, sessionID string, prefs models.TravelPreferences) (*models.Itinerary, error)
}

type ServiceImpl struct {
	logger   *zap.Logger
	aiClient AIClient
	store    trips.Store
}

func NewService(aiClient AIClient, store trips.Store, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
		store:    store,
	}
}

// Generate validates the preferences, runs the remote generation call, and
// applies the result through the store. On any failure the previous
// itinerary is cleared and a single categorized error is returned; there is
// no automatic retry.
func (s *ServiceImpl) Generate(ctx context.Context, sessionID string, prefs models.TravelPreferences) (*models.Itinerary, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("destination", prefs.Destination),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Generate"), zap.String("session", sessionID))

	// Invalid preferences never reach the remote call.
	if err := prefs.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid preferences")
		return nil, err
	}

	token, err := s.store.BeginGeneration(sessionID)
	if err != nil {
		return nil, err
	}

	days := prefs.Days()
	span.SetAttributes(attribute.Int("trip.days", days))

	if m := metrics.Get(); m != nil {
		m.GenerationRequestsTotal.Add(ctx, 1)
	}

	start := time.Now()
	itinerary, genErr := s.generate(ctx, prefs, days)
	if m := metrics.Get(); m != nil {
		m.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}

	if genErr != nil {
		s.store.FailGeneration(sessionID, token)
		span.RecordError(genErr)
		span.SetStatus(codes.Error, "generation failed")
		if m := metrics.Get(); m != nil {
			m.GenerationFailuresTotal.Add(ctx, 1)
		}
		l.Error("Itinerary generation failed", zap.Error(genErr))
		return nil, models.NewAppError(models.CategoryGeneration,
			"Failed to generate itinerary. The AI may be experiencing high demand. Please try again later.", genErr)
	}

	if !s.store.CompleteGeneration(sessionID, token, itinerary) {
		if m := metrics.Get(); m != nil {
			m.SupersededResultsTotal.Add(ctx, 1)
		}
		l.Warn("Generation result superseded, discarding")
		return nil, models.ErrSuperseded
	}

	span.SetStatus(codes.Ok, "itinerary generated")
	l.Info("Itinerary generated",
		zap.String("destination", itinerary.Destination),
		zap.Int("days", len(itinerary.DailyPlans)))
	return itinerary, nil
}

func (s *ServiceImpl) generate(ctx context.Context, prefs models.TravelPreferences, days int) (*models.Itinerary, error) {
	prompt := buildItineraryPrompt(prefs, days)

	response, err := s.aiClient.GenerateResponse(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
		ResponseSchema:   itineraryResponseSchema(),
	})
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, errors.New("generation returned no response")
	}

	return parseItineraryResponse(response.Text(), prefs, days)
}
