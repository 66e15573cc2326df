package export

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/domain/trips"
	"github.com/voyago/voyago/internal/app/middleware"
	"github.com/voyago/voyago/internal/app/models"
)

type Handlers struct {
	service Service
	store   trips.Store
	logger  *zap.Logger
}

func NewHandlers(service Service, store trips.Store, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, store: store, logger: logger}
}

// PDF exports the current itinerary. An export either succeeds completely
// or fails with a notification; partial documents are never served.
func (h *Handlers) PDF(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	itinerary, ok := h.store.Current(sessionID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no itinerary to export"})
		return
	}

	pdfBytes, err := h.service.PDF(c.Request.Context(), itinerary)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":        appErr.Message,
				"notification": models.NotificationFor(appErr),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=itinerary.pdf")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ShareQR serves a QR code PNG linking to a saved itinerary.
func (h *Handlers) ShareQR(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	found := false
	for _, entry := range h.store.Saved(c.Request.Context(), sessionID) {
		if entry.ID == id {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
		return
	}

	png, err := h.service.ShareQR(id)
	if err != nil {
		h.logger.Error("Share QR generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build share code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
