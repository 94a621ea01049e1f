package domain

import "errors"

// Repository-level errors. The Logic layer translates them into its own taxonomy.
var (
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate key")

	// ErrOwnerMissing indicates the referenced user row does not exist.
	ErrOwnerMissing = errors.New("owner does not exist")
)

// Authorization errors raised by the guard in front of protected routes.
// Both map to 401; the client never learns which one it hit.
var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken indicates a bearer token that failed verification for any reason.
	ErrInvalidToken = errors.New("invalid token")
)

// Token verification causes. They are always returned together with
// ErrInvalidToken; only logs and metrics look at them.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)
