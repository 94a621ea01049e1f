package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/mood-service/internal/core/domain"
)

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	db      DB
	timeout time.Duration
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(db DB, timeout time.Duration) *PgxUserRepository {
	return &PgxUserRepository{db: db, timeout: timeout}
}

const selectUser = `SELECT id, fullname, email, password_hash, created_at FROM users`

func (r *PgxUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.UserRow, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var row domain.UserRow
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&row.ID, &row.FullName, &row.Email, &row.PasswordHash, &row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

// GetByID returns the user with the given ID.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id int64) (*domain.UserRow, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

// ExistsByEmail returns true when a user with the given email already exists.
func (r *PgxUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// Create inserts a new user and returns the generated user ID.
func (r *PgxUserRepository) Create(ctx context.Context, fullName, email, passwordHash string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO users (fullname, email, password_hash) VALUES ($1, $2, $3) RETURNING id`

	var userID int64
	if err := r.db.QueryRow(ctx, query, fullName, email, passwordHash).Scan(&userID); err != nil {
		return 0, mapWriteError(err)
	}

	return userID, nil
}

// UpdateFullName sets fullname for the given user.
func (r *PgxUserRepository) UpdateFullName(ctx context.Context, id int64, fullName string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE users SET fullname = $1 WHERE id = $2`, fullName, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the user's mood records, sessions and the user row in one
// transaction.
func (r *PgxUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM mood_records WHERE user_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete mood records: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete sessions: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
