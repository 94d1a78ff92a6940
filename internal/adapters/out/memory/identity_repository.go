package memory

import (
	"context"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"
)

// IdentityRepository implements ports.IdentityRepository over a Store.
type IdentityRepository struct {
	store  *Store
	writer *UnitOfWork
}

func (r *IdentityRepository) Add(ctx context.Context, aggregate *identity.Identity) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.writer.write(ctx, func(b *batch) { b.identities = append(b.identities, aggregate) })
}

func (r *IdentityRepository) Get(ctx context.Context, id kernel.UUID) (*identity.Identity, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	i, ok := r.store.getIdentity(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("identity", id.String())
	}
	return i, nil
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, errs.NewValueIsRequiredError("email")
	}
	i, ok := r.store.identityByEmail(email)
	if !ok {
		return nil, errs.NewObjectNotFoundError("identity with email", email)
	}
	return i, nil
}

func (r *IdentityRepository) ListByRole(ctx context.Context, role identity.Role) ([]*identity.Identity, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}
	return r.store.identitiesWithRole(role), nil
}

func (r *IdentityRepository) GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*identity.Identity, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	result := make(map[kernel.UUID]*identity.Identity, len(ids))
	for _, id := range ids {
		if i, ok := r.store.getIdentity(id); ok {
			result[id] = i
		}
	}
	return result, nil
}
