// Package credentials implements password hashing and bearer tokens.
package credentials

import (
	"context"
	"errors"
	"strings"
	"time"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "ordertracker"

// DefaultTokenTTL matches the session length users are used to.
const DefaultTokenTTL = time.Hour

var ErrSecretIsRequired = errors.New("token secret is required")

// Claims is the payload of every token this service signs.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens carrying the caller's id and role.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, now func() time.Time) (*TokenService, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretIsRequired
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: now}, nil
}

func (s *TokenService) Issue(principal identity.Principal) (string, time.Time, error) {
	if err := principal.Validate(); err != nil {
		return "", time.Time{}, err
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)
	claims := Claims{
		Role: principal.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   principal.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errs.NewInternalError("sign token", err)
	}
	return signed, expiresAt, nil
}

// Authenticate verifies token and returns the principal it was issued to.
// Every failure is an UnauthorizedError.
func (s *TokenService) Authenticate(_ context.Context, token string) (identity.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Principal{}, errs.NewUnauthorizedError("missing token")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return identity.Principal{}, errs.NewUnauthorizedError("token expired")
	}
	if err != nil || !parsed.Valid {
		return identity.Principal{}, errs.NewUnauthorizedError("invalid token")
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return identity.Principal{}, errs.NewUnauthorizedError("invalid token subject")
	}
	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return identity.Principal{}, errs.NewUnauthorizedError("invalid token role")
	}
	return identity.Principal{ID: id, Role: role}, nil
}
