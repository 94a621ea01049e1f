package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/mood-service/internal/core/domain"
)

func intPtr(v int) *int { return &v }

func TestSession_CreateUpdateEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signup(t, "Ann", "ann@example.com")

	sess, err := env.sessions.CreateSession(ctx, uid)
	require.NoError(t, err)
	assert.Zero(t, sess.EmotionsDetected)
	assert.Nil(t, sess.EndTime)

	updated, err := env.sessions.UpdateSession(ctx, uid, sess.ID, domain.UpdateSessionRequest{EmotionsDetected: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.EmotionsDetected)
	assert.Nil(t, updated.EndTime)

	// Overwrite, not increment.
	updated, err = env.sessions.UpdateSession(ctx, uid, sess.ID, domain.UpdateSessionRequest{EmotionsDetected: intPtr(2), EndSession: true})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.EmotionsDetected)
	require.NotNil(t, updated.EndTime)
	assert.False(t, updated.EndTime.Before(updated.StartTime))

	again, err := env.sessions.UpdateSession(ctx, uid, sess.ID, domain.UpdateSessionRequest{EndSession: true})
	require.NoError(t, err)
	assert.Equal(t, *updated.EndTime, *again.EndTime, "second end must keep the first stamp")
	assert.Equal(t, 2, again.EmotionsDetected)
}

func TestSession_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.signup(t, "Ann", "ann@example.com")
	bob := env.signup(t, "Bob", "bob@example.com")

	sess, err := env.sessions.CreateSession(ctx, ann)
	require.NoError(t, err)

	_, err = env.sessions.UpdateSession(ctx, bob, sess.ID, domain.UpdateSessionRequest{EndSession: true})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.sessions.UpdateSession(ctx, ann, sess.ID+100, domain.UpdateSessionRequest{EndSession: true})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := env.sessions.ListSessions(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSession_RejectsNegativeCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signup(t, "Ann", "ann@example.com")
	sess, err := env.sessions.CreateSession(ctx, uid)
	require.NoError(t, err)

	_, err = env.sessions.UpdateSession(ctx, uid, sess.ID, domain.UpdateSessionRequest{EmotionsDetected: intPtr(-1)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListSessions_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signup(t, "Ann", "ann@example.com")

	first, err := env.sessions.CreateSession(ctx, uid)
	require.NoError(t, err)
	second, err := env.sessions.CreateSession(ctx, uid)
	require.NoError(t, err)

	list, err := env.sessions.ListSessions(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
