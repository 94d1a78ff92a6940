// Package identityrepo maps identities onto the identities table.
package identityrepo

import (
	"time"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

const EmailIndex = "idx_identities_email"

type IdentityDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(320);not null;uniqueIndex:idx_identities_email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (IdentityDTO) TableName() string {
	return "identities"
}

func fromDomain(aggregate *identity.Identity) IdentityDTO {
	return IdentityDTO{
		ID:           aggregate.ID().Bytes(),
		Name:         aggregate.Name(),
		Email:        aggregate.Email(),
		PasswordHash: aggregate.PasswordHash(),
		Role:         aggregate.Role().String(),
		CreatedAt:    aggregate.CreatedAt().UTC(),
	}
}

func toDomain(dto IdentityDTO) (*identity.Identity, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return identity.RestoreIdentity(id, dto.Name, dto.Email, dto.PasswordHash, identity.Role(dto.Role), dto.CreatedAt.UTC())
}
