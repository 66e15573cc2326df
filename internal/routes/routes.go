package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	generativeAI "github.com/FACorreiaa/go-genai-sdk/lib"
	"google.golang.org/genai"

	"github.com/voyago/voyago/internal/app/domain/assist"
	"github.com/voyago/voyago/internal/app/domain/export"
	"github.com/voyago/voyago/internal/app/domain/media"
	"github.com/voyago/voyago/internal/app/domain/planner"
	"github.com/voyago/voyago/internal/app/domain/selection"
	"github.com/voyago/voyago/internal/app/domain/trips"
	"github.com/voyago/voyago/internal/pkg/config"
)

type AppHandlers struct {
	Planner   *planner.Handlers
	Trips     *trips.Handlers
	Selection *selection.Handlers
	Assist    *assist.Handlers
	Media     *media.Handlers
	Export    *export.Handlers
}

func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) {
	handlers, err := setupDependencies(dbPool, cfg, log)
	if err != nil {
		log.Fatal("Failed to setup dependencies", zap.Error(err))
	}
	setupRouter(r, handlers)
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) (*AppHandlers, error) {
	ctx := context.Background()

	aiClient, err := generativeAI.NewLLMChatClient(ctx, cfg.GenAI.APIKey)
	if err != nil {
		return nil, err
	}
	imageClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GenAI.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	coordinator := selection.NewCoordinator(log)
	coordinator.Register(selection.NewLoggingObserver(log))

	tripsRepo := trips.NewRepository(dbPool, log)
	tripsStore := trips.NewStore(tripsRepo, coordinator, log)

	plannerService := planner.NewService(aiClient, tripsStore, log)
	assistService := assist.NewService(aiClient, cfg.Policies, cfg.AssistDelay, log)
	mediaService := media.NewService(aiClient, &media.GenAIImageClient{Client: imageClient}, cfg.GenAI.ImageModel, log)
	exportService := export.NewService(mediaService, cfg.BaseURL, log)

	return &AppHandlers{
		Planner:   planner.NewHandlers(plannerService, log),
		Trips:     trips.NewHandlers(tripsStore, log),
		Selection: selection.NewHandlers(coordinator, log),
		Assist:    assist.NewHandlers(assistService, log),
		Media:     media.NewHandlers(mediaService, log),
		Export:    export.NewHandlers(exportService, tripsStore, log),
	}, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/itinerary/generate", h.Planner.Generate)
	r.GET("/itinerary", h.Trips.Current)
	r.POST("/itinerary/save", h.Trips.Save)
	r.GET("/itinerary/export.pdf", h.Export.PDF)

	r.GET("/itineraries", h.Trips.List)
	r.POST("/itineraries/:id/load", h.Trips.Load)
	r.DELETE("/itineraries/:id", h.Trips.Delete)
	r.GET("/itineraries/:id/share.png", h.Export.ShareQR)

	r.POST("/selection", h.Selection.Select)
	r.DELETE("/selection", h.Selection.Clear)
	r.GET("/selection", h.Selection.Current)

	r.POST("/assist/destination", h.Assist.Suggest)
	r.GET("/assist/destination", h.Assist.Latest)
	r.GET("/assist/validate", h.Assist.Validate)

	r.GET("/attractions/image", h.Media.AttractionImage)
	r.GET("/attractions/details", h.Media.AttractionDetails)
}
