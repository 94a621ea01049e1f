package domain

import "time"

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public view of an account.
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Profile is returned by GET /users/{id}. It never carries the password hash.
type Profile struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserRequest is the body of PUT /users/{id}.
type UpdateUserRequest struct {
	FullName string `json:"fullname"`
}

// CreateMoodRecordRequest is the body of POST /mood-records.
// Confidence is kept untyped so numeric strings are accepted too.
type CreateMoodRecordRequest struct {
	Emotion    string `json:"emotion"`
	Confidence any    `json:"confidence"`
}

// MoodRecord is the public view of a mood record.
type MoodRecord struct {
	ID         int64     `json:"id"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// UpdateSessionRequest is the body of PUT /sessions/{id}.
type UpdateSessionRequest struct {
	EmotionsDetected *int `json:"emotions_detected"`
	EndSession       bool `json:"end_session"`
}

// Session is the public view of a detection session.
type Session struct {
	ID               int64      `json:"id"`
	Duration         *int64     `json:"duration"`
	EmotionsDetected int        `json:"emotions_detected"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
}

// EmotionStat is one row of GET /stats/emotions.
type EmotionStat struct {
	Emotion       string  `json:"emotion"`
	Count         int64   `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

func (r MoodRecordRow) ToMoodRecord() MoodRecord {
	return MoodRecord{ID: r.ID, Emotion: r.Emotion, Confidence: r.Confidence, Timestamp: r.Timestamp}
}

func (r SessionRow) ToSession() Session {
	return Session{
		ID:               r.ID,
		Duration:         r.Duration,
		EmotionsDetected: r.EmotionsDetected,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
	}
}

func (r UserRow) ToProfile() Profile {
	return Profile{ID: r.ID, FullName: r.FullName, Email: r.Email, CreatedAt: r.CreatedAt}
}
