package selection

import (
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/models"
)

var _ Observer = (*LoggingObserver)(nil)

// LoggingObserver mirrors every selection change into the structured log, so
// the shared state can be followed across the list and map views without
// attaching a debugger.
type LoggingObserver struct {
	logger *zap.Logger
}

func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) SelectionChanged(sessionID string, sel *models.Selection) {
	if sel == nil {
		o.logger.Debug("Selection cleared", zap.String("session", sessionID))
		return
	}
	o.logger.Debug("Selection changed",
		zap.String("session", sessionID),
		zap.Int("day", sel.Day),
		zap.String("attraction", sel.AttractionName))
}
