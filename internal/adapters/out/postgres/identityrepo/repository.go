package identityrepo

import (
	"context"
	"errors"

	"ordertracker/internal/adapters/out/postgres/pgerr"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var constraints = pgerr.Constraints{
	EmailIndex: func(cause error) error {
		return errs.NewConflictErrorWithCause("email is already registered", cause)
	},
}

// GormIdentityRepository implements ports.IdentityRepository using GORM.
type GormIdentityRepository struct {
	db *gorm.DB
}

func NewGormIdentityRepository(db *gorm.DB) *GormIdentityRepository {
	return &GormIdentityRepository{db: db}
}

func (r *GormIdentityRepository) Add(ctx context.Context, aggregate *identity.Identity) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err, "add identity", constraints)
	}
	return nil
}

func (r *GormIdentityRepository) Get(ctx context.Context, id kernel.UUID) (*identity.Identity, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "identity", id.String(), "id = ?", id.Bytes())
}

func (r *GormIdentityRepository) GetByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, errs.NewValueIsRequiredError("email")
	}
	return r.first(ctx, "identity with email", email, "email = ?", email)
}

func (r *GormIdentityRepository) ListByRole(ctx context.Context, role identity.Role) ([]*identity.Identity, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}

	var dtos []IdentityDTO
	if err := r.db.WithContext(ctx).Where("role = ?", role.String()).Order("name, id").Find(&dtos).Error; err != nil {
		return nil, pgerr.Translate(err, "list identities", nil)
	}

	identities := make([]*identity.Identity, 0, len(dtos))
	for _, dto := range dtos {
		i, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		identities = append(identities, i)
	}
	return identities, nil
}

func (r *GormIdentityRepository) GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*identity.Identity, error) {
	result := make(map[kernel.UUID]*identity.Identity, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []IdentityDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, pgerr.Translate(err, "get identities", nil)
	}
	for _, dto := range dtos {
		i, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result[i.ID()] = i
	}
	return result, nil
}

func (r *GormIdentityRepository) first(ctx context.Context, object string, key any, query string, args ...any) (*identity.Identity, error) {
	var dto IdentityDTO
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(object, key)
		}
		return nil, pgerr.Translate(err, "get identity", nil)
	}
	return toDomain(dto)
}
