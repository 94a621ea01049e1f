package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/mood-service/internal/core/domain"
)

// PgxMoodRecordRepository implements domain.MoodRecordRepository using pgxpool.
type PgxMoodRecordRepository struct {
	db      DB
	timeout time.Duration
}

// NewMoodRecordRepository creates a new PgxMoodRecordRepository.
func NewMoodRecordRepository(db DB, timeout time.Duration) *PgxMoodRecordRepository {
	return &PgxMoodRecordRepository{db: db, timeout: timeout}
}

// Create inserts a mood record and returns its ID.
func (r *PgxMoodRecordRepository) Create(ctx context.Context, userID int64, emotion string, confidence float64) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO mood_records (user_id, emotion, confidence) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, userID, emotion, confidence).Scan(&id); err != nil {
		return 0, mapWriteError(err)
	}
	return id, nil
}

// GetByID returns the record with its owner.
// Returns (nil, nil) when the record does not exist.
func (r *PgxMoodRecordRepository) GetByID(ctx context.Context, id int64) (*domain.MoodRecordRow, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT id, user_id, emotion, confidence, timestamp FROM mood_records WHERE id = $1`

	var row domain.MoodRecordRow
	err := r.db.QueryRow(ctx, query, id).Scan(&row.ID, &row.UserID, &row.Emotion, &row.Confidence, &row.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the newest records first.
func (r *PgxMoodRecordRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.MoodRecordRow, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, user_id, emotion, confidence, timestamp
		FROM mood_records
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.MoodRecordRow])
}

// Delete removes the record when it belongs to userID.
func (r *PgxMoodRecordRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM mood_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AggregateByEmotion counts records and averages confidence per emotion.
func (r *PgxMoodRecordRepository) AggregateByEmotion(ctx context.Context, userID int64) ([]domain.EmotionAggregate, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT emotion, COUNT(*) AS count, AVG(confidence) AS avg_confidence
		FROM mood_records
		WHERE user_id = $1
		GROUP BY emotion
		ORDER BY count DESC, emotion ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.EmotionAggregate])
}
