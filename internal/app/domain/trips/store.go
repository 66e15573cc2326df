// Package trips owns the current itinerary and the durably saved list for
// each session.
package trips

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/models"
)

// SelectionClearer clears the cross-view selection. Any event that replaces
// the itinerary the selection points into must go through it.
type SelectionClearer interface {
	Clear(sessionID string)
}

var _ Store = (*StoreImpl)(nil)

// Store is the single owner of itinerary state. The in-memory list is the
// system of record for the session; the repository is kept in sync on every
// mutation, and a persistence failure never corrupts in-memory state.
type Store interface {
	Current(sessionID string) (*models.Itinerary, bool)
	Loading(sessionID string) bool
	SetCurrent(sessionID string, itinerary *models.Itinerary)

	BeginGeneration(sessionID string) (uint64, error)
	CompleteGeneration(sessionID string, token uint64, itinerary *models.Itinerary) bool
	FailGeneration(sessionID string, token uint64) bool

	Save(ctx context.Context, sessionID string) (models.SavedItinerary, error)
	Saved(ctx context.Context, sessionID string) []models.SavedItinerary
	Load(ctx context.Context, sessionID string, id uuid.UUID) (*models.Itinerary, error)
	Delete(ctx context.Context, sessionID string, id uuid.UUID) error
}

type sessionState struct {
	current     *models.Itinerary
	savedID     *uuid.UUID // set when current came from / went into the saved list
	saved       []models.SavedItinerary
	savedLoaded bool
	loading     bool
	genToken    uint64
}

type StoreImpl struct {
	logger    *zap.Logger
	repo      Repository
	selection SelectionClearer

	mu       sync.Mutex
	sessions map[string]*sessionState
}

func NewStore(repo Repository, selection SelectionClearer, logger *zap.Logger) *StoreImpl {
	return &StoreImpl{
		logger:    logger,
		repo:      repo,
		selection: selection,
		sessions:  make(map[string]*sessionState),
	}
}

func (s *StoreImpl) state(sessionID string) *sessionState {
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		s.sessions[sessionID] = st
	}
	return st
}

// ensureSavedLoaded reads the saved list from the repository once per
// session. A read failure degrades to an empty list, never a fatal error.
func (s *StoreImpl) ensureSavedLoaded(ctx context.Context, st *sessionState, sessionID string) {
	if st.savedLoaded {
		return
	}
	saved, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Warn("Failed to read saved itineraries, starting empty",
			zap.String("session", sessionID), zap.Error(err))
		saved = nil
	}
	st.saved = saved
	st.savedLoaded = true
}

func (s *StoreImpl) Current(sessionID string) (*models.Itinerary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sessionID)
	if st.current == nil {
		return nil, false
	}
	return st.current, true
}

func (s *StoreImpl) Loading(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(sessionID).loading
}

// SetCurrent replaces the current itinerary atomically, whole-value, never
// field by field. The selection cannot survive the swap.
func (s *StoreImpl) SetCurrent(sessionID string, itinerary *models.Itinerary) {
	s.mu.Lock()
	st := s.state(sessionID)
	st.current = itinerary
	st.savedID = nil
	s.mu.Unlock()

	s.selection.Clear(sessionID)
}

// BeginGeneration marks the session as loading and hands back a token that
// the eventual completion must present. At most one generation is in flight
// per session.
func (s *StoreImpl) BeginGeneration(sessionID string) (uint64, error) {
	s.mu.Lock()
	st := s.state(sessionID)
	if st.loading {
		s.mu.Unlock()
		return 0, models.ErrGenerationInFlight
	}
	st.loading = true
	st.current = nil
	st.savedID = nil
	st.genToken++
	token := st.genToken
	s.mu.Unlock()

	s.selection.Clear(sessionID)
	return token, nil
}

// CompleteGeneration applies a successful result, unless a newer generation
// has been started since: stale results are discarded on arrival.
func (s *StoreImpl) CompleteGeneration(sessionID string, token uint64, itinerary *models.Itinerary) bool {
	s.mu.Lock()
	st := s.state(sessionID)
	if token != st.genToken {
		s.mu.Unlock()
		s.logger.Warn("Discarding superseded generation result",
			zap.String("session", sessionID), zap.Uint64("token", token))
		return false
	}
	st.loading = false
	st.current = itinerary
	st.savedID = nil
	s.mu.Unlock()

	s.selection.Clear(sessionID)
	return true
}

// FailGeneration clears the loading flag and any previous itinerary: a
// failed generation never surfaces a partial or stale plan.
func (s *StoreImpl) FailGeneration(sessionID string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sessionID)
	if token != st.genToken {
		return false
	}
	st.loading = false
	st.current = nil
	st.savedID = nil
	return true
}

// Save persists the current itinerary. Saving an already-saved itinerary is
// a no-op that returns the existing entry. When persistence fails the
// in-memory commit stands and the returned error carries a persistence
// warning for the user.
func (s *StoreImpl) Save(ctx context.Context, sessionID string) (models.SavedItinerary, error) {
	ctx, span := otel.Tracer("TripsStore").Start(ctx, "Save", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	s.mu.Lock()
	st := s.state(sessionID)
	if st.current == nil {
		s.mu.Unlock()
		return models.SavedItinerary{}, models.ErrNoItinerary
	}
	s.ensureSavedLoaded(ctx, st, sessionID)

	if st.savedID != nil {
		for _, entry := range st.saved {
			if entry.ID == *st.savedID {
				s.mu.Unlock()
				return entry, nil
			}
		}
	}

	entry := models.SavedItinerary{
		ID:        uuid.New(),
		SavedAt:   time.Now().UTC(),
		Itinerary: *st.current,
	}
	st.saved = append([]models.SavedItinerary{entry}, st.saved...)
	id := entry.ID
	st.savedID = &id
	s.mu.Unlock()

	if err := s.repo.Insert(ctx, sessionID, entry); err != nil {
		s.logger.Error("Failed to persist saved itinerary, keeping it in memory",
			zap.String("session", sessionID),
			zap.String("itinerary", entry.ID.String()),
			zap.Error(err))
		return entry, models.NewAppError(models.CategoryPersistence,
			"Your trip is saved for this session, but could not be stored durably.", err)
	}
	return entry, nil
}

// Saved returns the saved list, most recent first.
func (s *StoreImpl) Saved(ctx context.Context, sessionID string) []models.SavedItinerary {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sessionID)
	s.ensureSavedLoaded(ctx, st, sessionID)

	out := make([]models.SavedItinerary, len(st.saved))
	copy(out, st.saved)
	return out
}

// Load replaces the current itinerary with the matching saved entry. An
// unknown id leaves the current itinerary untouched and returns
// models.ErrNotFound.
func (s *StoreImpl) Load(ctx context.Context, sessionID string, id uuid.UUID) (*models.Itinerary, error) {
	s.mu.Lock()
	st := s.state(sessionID)
	s.ensureSavedLoaded(ctx, st, sessionID)

	var found *models.SavedItinerary
	for i := range st.saved {
		if st.saved[i].ID == id {
			found = &st.saved[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return nil, models.ErrNotFound
	}

	itinerary := found.Itinerary
	st.current = &itinerary
	savedID := found.ID
	st.savedID = &savedID
	st.loading = false
	s.mu.Unlock()

	s.selection.Clear(sessionID)
	return &itinerary, nil
}

// Delete removes exactly the matching entry. Removing an unknown id is a
// no-op.
func (s *StoreImpl) Delete(ctx context.Context, sessionID string, id uuid.UUID) error {
	ctx, span := otel.Tracer("TripsStore").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("itinerary.id", id.String()),
	))
	defer span.End()

	s.mu.Lock()
	st := s.state(sessionID)
	s.ensureSavedLoaded(ctx, st, sessionID)

	kept := st.saved[:0]
	removed := false
	for _, entry := range st.saved {
		if entry.ID == id {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	st.saved = kept
	if st.savedID != nil && *st.savedID == id {
		// Current stays visible; it just is not a persisted entry anymore.
		st.savedID = nil
	}
	s.mu.Unlock()

	if !removed {
		return nil
	}

	if err := s.repo.Delete(ctx, sessionID, id); err != nil {
		s.logger.Error("Failed to delete saved itinerary from storage",
			zap.String("session", sessionID),
			zap.String("itinerary", id.String()),
			zap.Error(err))
		return models.NewAppError(models.CategoryPersistence,
			"The trip was removed for this session, but durable storage could not be updated.", err)
	}
	return nil
}
