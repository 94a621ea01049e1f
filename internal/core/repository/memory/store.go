// Package memory provides in-process implementations of the domain
// repositories. It backs STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/duynhne/mood-service/internal/core/domain"
)

// Store holds all three relations behind one lock, so cascading deletes are atomic.
type Store struct {
	mu sync.RWMutex

	now func() time.Time

	users    map[int64]domain.UserRow
	moods    map[int64]domain.MoodRecordRow
	sessions map[int64]domain.SessionRow

	nextUserID    int64
	nextMoodID    int64
	nextSessionID int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[int64]domain.UserRow),
		moods:    make(map[int64]domain.MoodRecordRow),
		sessions: make(map[int64]domain.SessionRow),
	}
}

// WithClock replaces the time source used for created/start/end stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// MoodRecords returns the mood record repository view of the store.
func (s *Store) MoodRecords() *MoodRecordRepository { return &MoodRecordRepository{s: s} }

// Sessions returns the session repository view of the store.
func (s *Store) Sessions() *SessionRepository { return &SessionRepository{s: s} }

// UserRepository implements domain.UserRepository.
type UserRepository struct{ s *Store }

// GetByEmail looks up a user by normalized email. Returns (nil, nil) when absent.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.UserRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// GetByID looks up a user by ID. Returns (nil, nil) when absent.
func (r *UserRepository) GetByID(_ context.Context, id int64) (*domain.UserRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// ExistsByEmail reports whether the email is already registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

// Create inserts a user, failing with domain.ErrDuplicate on a taken email.
func (r *UserRepository) Create(_ context.Context, fullName, email, passwordHash string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return 0, domain.ErrDuplicate
		}
	}
	r.s.nextUserID++
	id := r.s.nextUserID
	r.s.users[id] = domain.UserRow{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    r.s.now().UTC(),
	}
	return id, nil
}

// UpdateFullName renames the user. Returns false when the user does not exist.
func (r *UserRepository) UpdateFullName(_ context.Context, id int64, fullName string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	u.FullName = fullName
	r.s.users[id] = u
	return true, nil
}

// Delete removes the user with all owned mood records and sessions.
func (r *UserRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	for mid, m := range r.s.moods {
		if m.UserID == id {
			delete(r.s.moods, mid)
		}
	}
	for sid, sess := range r.s.sessions {
		if sess.UserID == id {
			delete(r.s.sessions, sid)
		}
	}
	delete(r.s.users, id)
	return true, nil
}

// MoodRecordRepository implements domain.MoodRecordRepository.
type MoodRecordRepository struct{ s *Store }

// Create stores a mood record, failing with domain.ErrOwnerMissing for an unknown user.
func (r *MoodRecordRepository) Create(_ context.Context, userID int64, emotion string, confidence float64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return 0, domain.ErrOwnerMissing
	}
	r.s.nextMoodID++
	id := r.s.nextMoodID
	r.s.moods[id] = domain.MoodRecordRow{
		ID:         id,
		UserID:     userID,
		Emotion:    emotion,
		Confidence: confidence,
		Timestamp:  r.s.now().UTC(),
	}
	return id, nil
}

// GetByID looks up a mood record by ID. Returns (nil, nil) when absent.
func (r *MoodRecordRepository) GetByID(_ context.Context, id int64) (*domain.MoodRecordRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.moods[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// ListByUser returns up to limit records of the user, newest first.
func (r *MoodRecordRepository) ListByUser(_ context.Context, userID int64, limit int) ([]domain.MoodRecordRow, error) {
	r.s.mu.RLock()
	out := make([]domain.MoodRecordRow, 0)
	for _, m := range r.s.moods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a record owned by userID. Returns false when nothing matched.
func (r *MoodRecordRepository) Delete(_ context.Context, id, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.moods[id]
	if !ok || m.UserID != userID {
		return false, nil
	}
	delete(r.s.moods, id)
	return true, nil
}

// AggregateByEmotion counts the user's records and averages confidence per emotion.
func (r *MoodRecordRepository) AggregateByEmotion(_ context.Context, userID int64) ([]domain.EmotionAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sums := make(map[string]*domain.EmotionAggregate)
	for _, m := range r.s.moods {
		if m.UserID != userID {
			continue
		}
		agg, ok := sums[m.Emotion]
		if !ok {
			agg = &domain.EmotionAggregate{Emotion: m.Emotion}
			sums[m.Emotion] = agg
		}
		agg.Count++
		// running sum, divided below
		agg.AvgConfidence += m.Confidence
	}

	out := make([]domain.EmotionAggregate, 0, len(sums))
	for _, agg := range sums {
		agg.AvgConfidence /= float64(agg.Count)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out, nil
}

// SessionRepository implements domain.SessionRepository.
type SessionRepository struct{ s *Store }

// Create starts a session for the user, failing with domain.ErrOwnerMissing for an unknown user.
func (r *SessionRepository) Create(_ context.Context, userID int64) (*domain.SessionRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return nil, domain.ErrOwnerMissing
	}
	r.s.nextSessionID++
	row := domain.SessionRow{
		ID:        r.s.nextSessionID,
		UserID:    userID,
		StartTime: r.s.now().UTC(),
	}
	r.s.sessions[row.ID] = row
	return &row, nil
}

// GetByID looks up a session by ID. Returns (nil, nil) when absent.
func (r *SessionRepository) GetByID(_ context.Context, id int64) (*domain.SessionRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

// Update applies upd to a session owned by userID. end_time is stamped at most once.
func (r *SessionRepository) Update(_ context.Context, id, userID int64, upd domain.SessionUpdate) (*domain.SessionRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.sessions[id]
	if !ok || row.UserID != userID {
		return nil, nil
	}
	if upd.EmotionsDetected != nil {
		row.EmotionsDetected = *upd.EmotionsDetected
	}
	if upd.End && row.EndTime == nil {
		end := r.s.now().UTC()
		row.EndTime = &end
	}
	r.s.sessions[id] = row
	return &row, nil
}

// ListByUser returns the user's sessions, newest start first.
func (r *SessionRepository) ListByUser(_ context.Context, userID int64) ([]domain.SessionRow, error) {
	r.s.mu.RLock()
	out := make([]domain.SessionRow, 0)
	for _, row := range r.s.sessions {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
