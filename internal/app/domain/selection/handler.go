package selection

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/middleware"
)

type Handlers struct {
	coordinator *Coordinator
	logger      *zap.Logger
}

func NewHandlers(coordinator *Coordinator, logger *zap.Logger) *Handlers {
	return &Handlers{coordinator: coordinator, logger: logger}
}

type selectRequest struct {
	Day            int    `json:"day" binding:"required"`
	AttractionName string `json:"attractionName" binding:"required"`
}

// Select handles a click on an activity in either the list or the map view.
func (h *Handlers) Select(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day and attractionName are required"})
		return
	}

	sel := h.coordinator.Select(sessionID, req.Day, req.AttractionName)
	if sel == nil {
		c.JSON(http.StatusOK, gin.H{"selection": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": sel})
}

func (h *Handlers) Clear(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)
	h.coordinator.Clear(sessionID)
	c.JSON(http.StatusOK, gin.H{"selection": nil})
}

func (h *Handlers) Current(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)
	if sel, ok := h.coordinator.Current(sessionID); ok {
		c.JSON(http.StatusOK, gin.H{"selection": sel})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": nil})
}
