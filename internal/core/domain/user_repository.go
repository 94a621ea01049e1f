package domain

import (
	"context"
	"time"
)

// UserRow represents a user record returned from the database.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// GetByEmail returns the user matching the given email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// GetByID returns the user with the given ID.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int64) (*UserRow, error)

	// ExistsByEmail returns true when a user with the given email already exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new user and returns the generated user ID.
	// Returns ErrDuplicate when the email is already taken.
	Create(ctx context.Context, fullName, email, passwordHash string) (int64, error)

	// UpdateFullName changes the display name. Returns false when the user does not exist.
	UpdateFullName(ctx context.Context, id int64, fullName string) (bool, error)

	// Delete removes the user together with every mood record and session it owns,
	// atomically. Returns false when the user does not exist.
	Delete(ctx context.Context, id int64) (bool, error)
}
