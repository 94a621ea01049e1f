// Package v1 provides account, token, mood record and session business logic
// for API version 1.
//
// Error Handling:
// This package defines sentinel errors for every failure class the HTTP layer
// needs to tell apart. They are wrapped with context using fmt.Errorf("%w")
// and checked with errors.Is.
//
// Example Usage:
//
//	if row == nil {
//	    return nil, fmt.Errorf("get mood record %d: %w", id, ErrNotFound)
//	}
//	if row.UserID != userID {
//	    return nil, fmt.Errorf("get mood record %d: %w", id, ErrForbidden)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrNotFound):
//	    c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
//	case errors.Is(err, logicv1.ErrForbidden):
//	    c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import (
	"errors"
	"fmt"

	"github.com/duynhne/mood-service/internal/core/domain"
)

// Sentinel errors for business operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrValidation indicates missing or malformed input, detected before any storage access.
	// HTTP Status: 400 Bad Request
	ErrValidation = errors.New("validation failed")

	// ErrUserExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// Both cases deliberately share this error.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingToken indicates the request carried no bearer token.
	// Raised by the authorization guard.
	// HTTP Status: 401 Unauthorized
	ErrMissingToken = domain.ErrMissingToken

	// ErrInvalidToken indicates a bearer token that failed verification for any reason.
	// HTTP Status: 401 Unauthorized
	ErrInvalidToken = domain.ErrInvalidToken

	// ErrForbidden indicates the authenticated user does not own the resource.
	// HTTP Status: 403 Forbidden
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist.
	// HTTP Status: 404 Not Found
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates a persistence failure (connection, timeout, query error).
	// It is surfaced immediately and never retried here.
	// HTTP Status: 503 Service Unavailable
	ErrStorage = errors.New("storage unavailable")
)

// Token verification causes. They are always returned together with
// ErrInvalidToken; only logs and metrics should look at them.
var (
	ErrTokenMalformed = domain.ErrTokenMalformed
	ErrTokenSignature = domain.ErrTokenSignature
	ErrTokenExpired   = domain.ErrTokenExpired
)

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func invalidToken(cause, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, cause)
	}
	return fmt.Errorf("%w: %w: %w", ErrInvalidToken, cause, err)
}
