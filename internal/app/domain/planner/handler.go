package planner

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/middleware"
	"github.com/voyago/voyago/internal/app/models"
)

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// Generate kicks off a full itinerary generation for the session. The form
// disables resubmission while loading; the service enforces it regardless.
func (h *Handlers) Generate(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	var prefs models.TravelPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	itinerary, err := h.service.Generate(c.Request.Context(), sessionID, prefs)
	if err != nil {
		var validationErr *models.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"fields": validationErr.Fields})
		case errors.Is(err, models.ErrGenerationInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "an itinerary is already being generated"})
		case errors.Is(err, models.ErrSuperseded):
			c.JSON(http.StatusConflict, gin.H{"error": "this request was superseded by a newer one"})
		default:
			h.logger.Error("Generation failed",
				zap.String("session", sessionID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{
				"notification": models.NotificationFor(err),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"itinerary": itinerary})
}
