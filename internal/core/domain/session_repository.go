package domain

import (
	"context"
	"time"
)

// SessionRow represents a detection session as stored.
type SessionRow struct {
	ID               int64
	UserID           int64
	Duration         *int64
	EmotionsDetected int
	StartTime        time.Time
	EndTime          *time.Time
}

// SessionUpdate carries the optional changes of a session update.
type SessionUpdate struct {
	// EmotionsDetected overwrites the counter when non-nil.
	EmotionsDetected *int
	// End stamps end_time if it is not set yet.
	End bool
}

// SessionRepository defines the data-access contract for detection sessions.
type SessionRepository interface {
	// Create starts a new session for the user and returns it.
	// Returns ErrOwnerMissing when the user does not exist.
	Create(ctx context.Context, userID int64) (*SessionRow, error)

	// GetByID returns the session regardless of owner.
	// Returns (nil, nil) when the session does not exist.
	GetByID(ctx context.Context, id int64) (*SessionRow, error)

	// Update applies the changes to the session owned by userID and returns
	// the new state. Returns (nil, nil) when no such owned session exists.
	Update(ctx context.Context, id, userID int64, upd SessionUpdate) (*SessionRow, error)

	// ListByUser returns the user's sessions, newest start first.
	ListByUser(ctx context.Context, userID int64) ([]SessionRow, error)
}
