package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/models"
	"github.com/voyago/voyago/internal/app/observability/metrics"
)

func observeQuery(ctx context.Context, start time.Time) {
	if m := metrics.Get(); m != nil {
		m.DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
}

// DB is the slice of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists the saved itinerary list. The store treats it as
// best-effort: failures are reported upward but never block in-memory state.
type Repository interface {
	Insert(ctx context.Context, sessionID string, saved models.SavedItinerary) error
	Delete(ctx context.Context, sessionID string, id uuid.UUID) error
	ListBySession(ctx context.Context, sessionID string) ([]models.SavedItinerary, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool DB
}

func NewRepository(pgpool DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) Insert(ctx context.Context, sessionID string, saved models.SavedItinerary) error {
	payload, err := json.Marshal(saved.Itinerary)
	if err != nil {
		return fmt.Errorf("failed to marshal itinerary payload: %w", err)
	}

	query := `
        INSERT INTO saved_itineraries (id, session_id, title, destination, payload, saved_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	defer observeQuery(ctx, time.Now())
	_, err = r.pgpool.Exec(ctx, query,
		saved.ID, sessionID, saved.Itinerary.Title, saved.Itinerary.Destination, payload, saved.SavedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert saved itinerary", zap.Error(err))
		return fmt.Errorf("failed to insert saved itinerary: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, sessionID string, id uuid.UUID) error {
	query := `DELETE FROM saved_itineraries WHERE id = $1 AND session_id = $2`
	defer observeQuery(ctx, time.Now())
	_, err := r.pgpool.Exec(ctx, query, id, sessionID)
	if err != nil {
		r.logger.Error("Failed to delete saved itinerary", zap.Error(err))
		return fmt.Errorf("failed to delete saved itinerary: %w", err)
	}
	return nil
}

// ListBySession returns the session's saved itineraries, most recent first.
func (r *RepositoryImpl) ListBySession(ctx context.Context, sessionID string) ([]models.SavedItinerary, error) {
	query, args, err := sq.Select("id", "payload", "saved_at").
		From("saved_itineraries").
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("saved_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build saved itineraries query: %w", err)
	}

	defer observeQuery(ctx, time.Now())
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query saved itineraries", zap.Error(err))
		return nil, fmt.Errorf("failed to query saved itineraries: %w", err)
	}
	defer rows.Close()

	var saved []models.SavedItinerary
	for rows.Next() {
		var entry models.SavedItinerary
		var payload []byte
		if err := rows.Scan(&entry.ID, &payload, &entry.SavedAt); err != nil {
			r.logger.Error("Failed to scan saved itinerary row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan saved itinerary row: %w", err)
		}
		if err := json.Unmarshal(payload, &entry.Itinerary); err != nil {
			// One bad row should not wipe out the rest of the list
			r.logger.Warn("Skipping saved itinerary with unreadable payload",
				zap.String("id", entry.ID.String()), zap.Error(err))
			continue
		}
		saved = append(saved, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading saved itineraries: %w", err)
	}
	return saved, nil
}
