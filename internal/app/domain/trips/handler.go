package trips

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/middleware"
	"github.com/voyago/voyago/internal/app/models"
)

type Handlers struct {
	store  Store
	logger *zap.Logger
}

func NewHandlers(store Store, logger *zap.Logger) *Handlers {
	return &Handlers{store: store, logger: logger}
}

// Current returns the session's current itinerary together with the loading
// flag, so the view can render the spinner or the plan.
func (h *Handlers) Current(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	itinerary, ok := h.store.Current(sessionID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"itinerary": nil,
			"loading":   h.store.Loading(sessionID),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"itinerary": itinerary,
		"loading":   false,
	})
}

// Save persists the current itinerary. Saving twice is idempotent.
func (h *Handlers) Save(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	saved, err := h.store.Save(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNoItinerary) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "there is no itinerary to save"})
			return
		}
		// Persistence failures warn, the in-memory save stands
		c.JSON(http.StatusOK, gin.H{
			"saved":        saved,
			"notification": models.NotificationFor(err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// List returns the saved itineraries, most recent first.
func (h *Handlers) List(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"itineraries": h.store.Saved(c.Request.Context(), sessionID),
	})
}

// Load replaces the current itinerary with a saved one.
func (h *Handlers) Load(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	itinerary, err := h.store.Load(c.Request.Context(), sessionID, id)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "saved itinerary not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load the itinerary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"itinerary": itinerary})
}

// Delete removes a saved itinerary.
func (h *Handlers) Delete(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), sessionID, id); err != nil {
		h.logger.Warn("Delete completed with persistence warning",
			zap.String("session", sessionID), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"deleted":      id,
			"notification": models.NotificationFor(err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
