package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/mood-service/internal/core/domain"
)

var sessionRowColumns = []string{"id", "user_id", "duration", "emotions_detected", "start_time", "end_time"}

func TestSessionRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, time.Second)
	started := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions (user_id) VALUES ($1) RETURNING id, user_id, duration, emotions_detected, start_time, end_time`)).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(sessionRowColumns).
			AddRow(int64(11), int64(3), nil, 0, started, nil))

	row, err := repo.Create(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(11), row.ID)
	assert.Equal(t, started, row.StartTime)
	assert.Nil(t, row.EndTime)
	assert.Nil(t, row.Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Create_UnknownOwner(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WithArgs(int64(99)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "sessions_user_id_fkey"})

	row, err := repo.Create(context.Background(), 99)
	assert.Nil(t, row)
	assert.ErrorIs(t, err, domain.ErrOwnerMissing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	row, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Update_CounterOnly(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, time.Second)
	started := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	count := 4

	mock.ExpectQuery(regexp.QuoteMeta(`SET emotions_detected = COALESCE($3, emotions_detected),`)).
		WithArgs(int64(11), int64(3), &count, false).
		WillReturnRows(pgxmock.NewRows(sessionRowColumns).
			AddRow(int64(11), int64(3), nil, 4, started, nil))

	row, err := repo.Update(context.Background(), 11, 3, domain.SessionUpdate{EmotionsDetected: &count})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 4, row.EmotionsDetected)
	assert.Nil(t, row.EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Update_EndKeepsFirstStamp(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, time.Second)
	started := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ended := started.Add(15 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(`end_time = CASE WHEN $4::boolean THEN COALESCE(end_time, now()) ELSE end_time END`)).
		WithArgs(int64(11), int64(3), (*int)(nil), true).
		WillReturnRows(pgxmock.NewRows(sessionRowColumns).
			AddRow(int64(11), int64(3), nil, 2, started, &ended))

	row, err := repo.Update(context.Background(), 11, 3, domain.SessionUpdate{End: true})
	require.NoError(t, err)
	require.NotNil(t, row)
	require.NotNil(t, row.EndTime)
	assert.Equal(t, ended, *row.EndTime)
	assert.Equal(t, 2, row.EmotionsDetected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Update_NotOwned(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(11), int64(8), (*int)(nil), true).
		WillReturnError(pgx.ErrNoRows)

	row, err := repo.Update(context.Background(), 11, 8, domain.SessionUpdate{End: true})
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, time.Second)
	older := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	duration := int64(300)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions WHERE user_id = $1 ORDER BY start_time DESC, id DESC`)).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(sessionRowColumns).
			AddRow(int64(12), int64(3), nil, 0, newer, nil).
			AddRow(int64(11), int64(3), &duration, 5, older, &newer))

	rows, err := repo.ListByUser(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(12), rows[0].ID)
	assert.Nil(t, rows[0].EndTime)
	assert.Equal(t, int64(11), rows[1].ID)
	require.NotNil(t, rows[1].Duration)
	assert.Equal(t, int64(300), *rows[1].Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByUser_QueryError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, time.Second)
	boom := errors.New("conn reset")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions WHERE user_id = $1`)).
		WithArgs(int64(3)).
		WillReturnError(boom)

	rows, err := repo.ListByUser(context.Background(), 3)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
