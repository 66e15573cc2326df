package media

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/models"
)

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// AttractionImage returns an image source for an attraction. The source is
// either a generated data URL or a deterministic placeholder, never an error.
func (h *Handlers) AttractionImage(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	destination := c.Query("destination")

	result := h.service.AttractionImage(c.Request.Context(), name, destination)
	c.JSON(http.StatusOK, gin.H{
		"source":   result.Source,
		"fallback": result.Fallback,
	})
}

// AttractionDetails returns the grounded description and sources for an
// attraction.
func (h *Handlers) AttractionDetails(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	destination := c.Query("destination")

	details, err := h.service.AttractionDetails(c.Request.Context(), name, destination)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":        appErr.Message,
				"notification": models.NotificationFor(appErr),
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "attraction details unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"details": details})
}
