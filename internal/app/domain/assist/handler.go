package assist

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/middleware"
)

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

type suggestRequest struct {
	Destination string `json:"destination" binding:"required"`
}

// Suggest registers destination input for the debounced country suggestion.
// It returns immediately; the client polls Latest for the applied result.
func (h *Handlers) Suggest(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
		return
	}

	h.service.SuggestCountry(sessionID, req.Destination)
	c.JSON(http.StatusAccepted, gin.H{"pending": true})
}

// Latest returns the most recent applied suggestion, if any.
func (h *Handlers) Latest(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)
	if suggestion, ok := h.service.LatestSuggestion(sessionID); ok {
		c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": nil})
}

// Validate checks a destination string. A remote failure follows the
// configured fail-open policy, so this never blocks submission.
func (h *Handlers) Validate(c *gin.Context) {
	destination := c.Query("q")
	if destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	valid := h.service.ValidateDestination(c.Request.Context(), destination)
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}
