package v1

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// TokenConfig is fixed at startup and never mutated afterwards.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// TokenService issues and verifies HS256-signed bearer tokens. Verification
// is a pure computation over the token and the secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type tokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewTokenService copies the secret so later changes to cfg cannot leak in.
func NewTokenService(cfg TokenConfig) *TokenService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: append([]byte(nil), cfg.Secret...),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs {user_id, email, exp = now + ttl}.
func (t *TokenService) Issue(userID int64, email string) (string, error) {
	now := t.now()
	claims := tokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the user ID carried by a valid token. Every failure wraps
// ErrInvalidToken plus one of ErrTokenMalformed, ErrTokenSignature or
// ErrTokenExpired.
func (t *TokenService) Verify(token string) (int64, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, invalidToken(ErrTokenExpired, nil)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, invalidToken(ErrTokenSignature, nil)
		default:
			return 0, invalidToken(ErrTokenMalformed, err)
		}
	}

	if claims.UserID <= 0 {
		return 0, invalidToken(ErrTokenMalformed, errors.New("missing user_id claim"))
	}
	return claims.UserID, nil
}
