// Package selection owns the single "selected activity" shared between the
// itinerary list view and the map view.
package selection

import (
	"sync"

	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/models"
)

// Observer is notified whenever a session's selection changes. sel is nil
// when the selection was cleared.
type Observer interface {
	SelectionChanged(sessionID string, sel *models.Selection)
}

// Coordinator tracks at most one selected activity per session. It never
// touches itinerary data; callers must Clear whenever the itinerary the
// selection points into is replaced.
type Coordinator struct {
	logger    *zap.Logger
	mu        sync.Mutex
	current   map[string]*models.Selection
	observers []Observer
}

func NewCoordinator(logger *zap.Logger) *Coordinator {
	return &Coordinator{
		logger:  logger,
		current: make(map[string]*models.Selection),
	}
}

// Register adds an observer. Registration is expected at wiring time, before
// requests flow.
func (c *Coordinator) Register(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Select sets the selection, or clears it when the same (day, attraction)
// pair is already selected (toggle semantics). Returns the new selection,
// nil when toggled off.
func (c *Coordinator) Select(sessionID string, day int, attractionName string) *models.Selection {
	c.mu.Lock()
	if cur, ok := c.current[sessionID]; ok && cur.Same(day, attractionName) {
		delete(c.current, sessionID)
		observers := c.observers
		c.mu.Unlock()

		c.logger.Debug("Selection toggled off",
			zap.String("session", sessionID),
			zap.Int("day", day),
			zap.String("attraction", attractionName))
		notify(observers, sessionID, nil)
		return nil
	}

	sel := &models.Selection{Day: day, AttractionName: attractionName}
	c.current[sessionID] = sel
	observers := c.observers
	c.mu.Unlock()

	notify(observers, sessionID, sel)
	return sel
}

// Clear unconditionally empties the selection. Safe to call when nothing is
// selected.
func (c *Coordinator) Clear(sessionID string) {
	c.mu.Lock()
	_, had := c.current[sessionID]
	delete(c.current, sessionID)
	observers := c.observers
	c.mu.Unlock()

	if had {
		notify(observers, sessionID, nil)
	}
}

// Current returns the selection for the session, if any.
func (c *Coordinator) Current(sessionID string) (models.Selection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sel, ok := c.current[sessionID]; ok {
		return *sel, true
	}
	return models.Selection{}, false
}

func notify(observers []Observer, sessionID string, sel *models.Selection) {
	for _, o := range observers {
		o.SelectionChanged(sessionID, sel)
	}
}
