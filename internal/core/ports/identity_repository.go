package ports

import (
	"context"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
)

type IdentityRepository interface {
	// Add persists a new identity. A taken email fails with errs.ConflictError.
	Add(ctx context.Context, aggregate *identity.Identity) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*identity.Identity, error)

	// GetByEmail looks up by normalized email and returns errs.ObjectNotFoundError
	// for an unknown address.
	GetByEmail(ctx context.Context, email string) (*identity.Identity, error)

	// ListByRole returns identities holding role, ordered by name.
	ListByRole(ctx context.Context, role identity.Role) ([]*identity.Identity, error)

	// GetMany resolves a batch of ids. Unknown ids are absent from the result.
	GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*identity.Identity, error)
}
