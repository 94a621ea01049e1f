package domain

import (
	"context"
	"time"
)

// MoodRecordRow represents a single emotion observation as stored.
type MoodRecordRow struct {
	ID         int64
	UserID     int64
	Emotion    string
	Confidence float64
	Timestamp  time.Time
}

// EmotionAggregate is the raw per-emotion aggregate computed by storage.
type EmotionAggregate struct {
	Emotion       string
	Count         int64
	AvgConfidence float64
}

// MoodRecordRepository defines the data-access contract for mood records.
type MoodRecordRepository interface {
	// Create inserts a record for the user and returns the new ID.
	// Returns ErrOwnerMissing when the user does not exist.
	Create(ctx context.Context, userID int64, emotion string, confidence float64) (int64, error)

	// GetByID returns the record regardless of owner.
	// Returns (nil, nil) when the record does not exist.
	GetByID(ctx context.Context, id int64) (*MoodRecordRow, error)

	// ListByUser returns at most limit records, newest first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]MoodRecordRow, error)

	// Delete removes the record if it is owned by userID.
	Delete(ctx context.Context, id, userID int64) (bool, error)

	// AggregateByEmotion groups the user's records by emotion label.
	AggregateByEmotion(ctx context.Context, userID int64) ([]EmotionAggregate, error)
}
