package trips

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, sessionID string, entry models.SavedItinerary) error {
	args := m.Called(ctx, sessionID, entry)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, sessionID string, id uuid.UUID) error {
	args := m.Called(ctx, sessionID, id)
	return args.Error(0)
}

func (m *MockRepository) ListBySession(ctx context.Context, sessionID string) ([]models.SavedItinerary, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedItinerary), args.Error(1)
}

type fakeSelection struct {
	mu     sync.Mutex
	clears int
}

func (f *fakeSelection) Clear(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
}

func (f *fakeSelection) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

func romanHoliday() *models.Itinerary {
	return &models.Itinerary{
		Title:       "Roman Holiday",
		Destination: "Rome",
		Duration:    3,
		DailyPlans: []models.DailyPlan{
			{Day: 1, Activities: []models.Activity{{AttractionName: "Colosseum"}}, FoodToTry: models.FoodRec{DishName: "Carbonara"}},
			{Day: 2, Activities: []models.Activity{{AttractionName: "Pantheon"}}, FoodToTry: models.FoodRec{DishName: "Supplì"}},
			{Day: 3, Activities: []models.Activity{{AttractionName: "Vatican Museums"}}, FoodToTry: models.FoodRec{DishName: "Gelato"}},
		},
	}
}

func newTestStore(t *testing.T) (*StoreImpl, *MockRepository, *fakeSelection) {
	t.Helper()
	repo := new(MockRepository)
	sel := &fakeSelection{}
	return NewStore(repo, sel, zap.NewNop()), repo, sel
}

const session = "session-1"

func TestGenerationLifecycle(t *testing.T) {
	store, _, sel := newTestStore(t)

	token, err := store.BeginGeneration(session)
	require.NoError(t, err)
	assert.True(t, store.Loading(session))
	assert.Equal(t, 1, sel.count(), "starting a generation clears the selection")

	// Only one generation in flight per session.
	_, err = store.BeginGeneration(session)
	assert.ErrorIs(t, err, models.ErrGenerationInFlight)

	ok := store.CompleteGeneration(session, token, romanHoliday())
	assert.True(t, ok)
	assert.False(t, store.Loading(session))

	current, found := store.Current(session)
	require.True(t, found)
	assert.Equal(t, "Roman Holiday", current.Title)
}

func TestFailedGenerationClearsPreviousItinerary(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.SetCurrent(session, romanHoliday())

	token, err := store.BeginGeneration(session)
	require.NoError(t, err)
	assert.True(t, store.FailGeneration(session, token))

	assert.False(t, store.Loading(session))
	_, found := store.Current(session)
	assert.False(t, found, "a failed generation must not surface a stale itinerary")
}

func TestStaleGenerationResultIsDiscarded(t *testing.T) {
	store, _, _ := newTestStore(t)

	staleToken, err := store.BeginGeneration(session)
	require.NoError(t, err)
	require.True(t, store.FailGeneration(session, staleToken))

	freshToken, err := store.BeginGeneration(session)
	require.NoError(t, err)

	assert.False(t, store.CompleteGeneration(session, staleToken, romanHoliday()))
	_, found := store.Current(session)
	assert.False(t, found)

	assert.True(t, store.CompleteGeneration(session, freshToken, romanHoliday()))
}

func TestSaveIsIdempotent(t *testing.T) {
	store, repo, _ := newTestStore(t)
	repo.On("ListBySession", mock.Anything, session).Return([]models.SavedItinerary{}, nil).Once()
	repo.On("Insert", mock.Anything, session, mock.AnythingOfType("models.SavedItinerary")).Return(nil).Once()

	store.SetCurrent(session, romanHoliday())

	before := time.Now().UTC()
	first, err := store.Save(context.Background(), session)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.False(t, first.SavedAt.Before(before))

	// Saving the already-saved itinerary returns the same entry, no new row.
	second, err := store.Save(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.Saved(context.Background(), session), 1)

	repo.AssertExpectations(t)
}

func TestSaveWithoutItinerary(t *testing.T) {
	store, _, _ := newTestStore(t)
	_, err := store.Save(context.Background(), session)
	assert.ErrorIs(t, err, models.ErrNoItinerary)
}

func TestSaveKeepsMemoryWhenPersistenceFails(t *testing.T) {
	store, repo, _ := newTestStore(t)
	repo.On("ListBySession", mock.Anything, session).Return([]models.SavedItinerary{}, nil).Once()
	repo.On("Insert", mock.Anything, session, mock.AnythingOfType("models.SavedItinerary")).
		Return(errors.New("connection refused")).Once()

	store.SetCurrent(session, romanHoliday())

	entry, err := store.Save(context.Background(), session)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CategoryPersistence, appErr.Category)

	// The in-memory commit stands.
	assert.NotEqual(t, uuid.Nil, entry.ID)
	saved := store.Saved(context.Background(), session)
	require.Len(t, saved, 1)
	assert.Equal(t, entry.ID, saved[0].ID)
}

func TestLoadClearsSelectionAndSetsCurrent(t *testing.T) {
	store, repo, sel := newTestStore(t)
	entry := models.SavedItinerary{ID: uuid.New(), SavedAt: time.Now().UTC(), Itinerary: *romanHoliday()}
	repo.On("ListBySession", mock.Anything, session).Return([]models.SavedItinerary{entry}, nil).Once()

	clearsBefore := sel.count()
	loaded, err := store.Load(context.Background(), session, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roman Holiday", loaded.Title)
	assert.Equal(t, clearsBefore+1, sel.count(), "loading a saved itinerary clears the selection")

	current, found := store.Current(session)
	require.True(t, found)
	assert.Equal(t, loaded.Title, current.Title)
}

func TestDeleteThenLoadIsNoOp(t *testing.T) {
	store, repo, _ := newTestStore(t)
	entry := models.SavedItinerary{ID: uuid.New(), SavedAt: time.Now().UTC(), Itinerary: *romanHoliday()}
	other := models.SavedItinerary{ID: uuid.New(), SavedAt: time.Now().UTC(), Itinerary: *romanHoliday()}
	repo.On("ListBySession", mock.Anything, session).Return([]models.SavedItinerary{entry, other}, nil).Once()
	repo.On("Delete", mock.Anything, session, entry.ID).Return(nil).Once()

	store.SetCurrent(session, romanHoliday())
	require.NoError(t, store.Delete(context.Background(), session, entry.ID))

	// Exactly one entry removed.
	saved := store.Saved(context.Background(), session)
	require.Len(t, saved, 1)
	assert.Equal(t, other.ID, saved[0].ID)

	// Loading the deleted id reports not found and leaves current untouched.
	_, err := store.Load(context.Background(), session, entry.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	current, found := store.Current(session)
	require.True(t, found)
	assert.Equal(t, "Roman Holiday", current.Title)

	repo.AssertExpectations(t)
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	store, repo, _ := newTestStore(t)
	repo.On("ListBySession", mock.Anything, session).Return([]models.SavedItinerary{}, nil).Once()

	require.NoError(t, store.Delete(context.Background(), session, uuid.New()))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteWarnsWhenPersistenceFails(t *testing.T) {
	store, repo, _ := newTestStore(t)
	entry := models.SavedItinerary{ID: uuid.New(), SavedAt: time.Now().UTC(), Itinerary: *romanHoliday()}
	repo.On("ListBySession", mock.Anything, session).Return([]models.SavedItinerary{entry}, nil).Once()
	repo.On("Delete", mock.Anything, session, entry.ID).Return(errors.New("timeout")).Once()

	err := store.Delete(context.Background(), session, entry.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CategoryPersistence, appErr.Category)

	// Memory is authoritative: the entry stays gone.
	assert.Empty(t, store.Saved(context.Background(), session))
}

func TestSavedListSurvivesRepositoryReadFailure(t *testing.T) {
	store, repo, _ := newTestStore(t)
	repo.On("ListBySession", mock.Anything, session).Return(nil, errors.New("parse failure")).Once()

	assert.Empty(t, store.Saved(context.Background(), session))
	// The failed read is not retried on every call.
	assert.Empty(t, store.Saved(context.Background(), session))
	repo.AssertNumberOfCalls(t, "ListBySession", 1)
}
