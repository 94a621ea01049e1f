package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/mood-service/internal/core/domain"
)

// PgxSessionRepository implements domain.SessionRepository using pgxpool.
type PgxSessionRepository struct {
	db      DB
	timeout time.Duration
}

// NewSessionRepository creates a new PgxSessionRepository.
func NewSessionRepository(db DB, timeout time.Duration) *PgxSessionRepository {
	return &PgxSessionRepository{db: db, timeout: timeout}
}

const sessionColumns = `id, user_id, duration, emotions_detected, start_time, end_time`

func scanSession(row pgx.Row) (*domain.SessionRow, error) {
	var s domain.SessionRow
	err := row.Scan(&s.ID, &s.UserID, &s.Duration, &s.EmotionsDetected, &s.StartTime, &s.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new session for the given user.
func (r *PgxSessionRepository) Create(ctx context.Context, userID int64) (*domain.SessionRow, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO sessions (user_id) VALUES ($1) RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return s, nil
}

// GetByID looks up a session by ID.
// Returns (nil, nil) when the session does not exist.
func (r *PgxSessionRepository) GetByID(ctx context.Context, id int64) (*domain.SessionRow, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(r.db.QueryRow(ctx, query, id))
}

// Update overwrites the counter when given and stamps end_time at most once.
func (r *PgxSessionRepository) Update(ctx context.Context, id, userID int64, upd domain.SessionUpdate) (*domain.SessionRow, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE sessions
		SET emotions_detected = COALESCE($3, emotions_detected),
		    end_time = CASE WHEN $4::boolean THEN COALESCE(end_time, now()) ELSE end_time END
		WHERE id = $1 AND user_id = $2
		RETURNING ` + sessionColumns

	return scanSession(r.db.QueryRow(ctx, query, id, userID, upd.EmotionsDetected, upd.End))
}

// ListByUser returns all sessions of the user, newest start first.
func (r *PgxSessionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SessionRow, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = $1 ORDER BY start_time DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.SessionRow])
}
