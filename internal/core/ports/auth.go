package ports

import (
	"context"
	"time"

	"ordertracker/internal/core/domain/model/identity"
)

// Authenticator resolves a bearer token to the calling principal.
// Invalid or expired tokens fail with errs.UnauthorizedError.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Principal, error)
}

// TokenIssuer mints bearer tokens for authenticated identities.
type TokenIssuer interface {
	Issue(principal identity.Principal) (token string, expiresAt time.Time, err error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns errs.UnauthorizedError when password does not match hash.
	Compare(hash, password string) error
}
