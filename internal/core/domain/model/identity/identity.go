package identity

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"
)

var ErrIdentityIsNotConstructed = errors.New("Identity must be created via NewIdentity or RestoreIdentity constructor")

// Identity is a registered actor. Email is unique across identities.
type Identity struct {
	id           kernel.UUID
	name         string
	email        string
	passwordHash string
	role         Role
	createdAt    time.Time

	isConstructed bool
}

// NewIdentity registers a new actor. passwordHash must already be hashed.
func NewIdentity(id kernel.UUID, name, email, passwordHash string, role Role, now time.Time) (*Identity, error) {
	i := &Identity{createdAt: now, isConstructed: true}
	if err := errors.Join(
		i.setID(id),
		i.setName(name),
		i.setEmail(email),
		i.setPasswordHash(passwordHash),
		i.setRole(role),
	); err != nil {
		return nil, err
	}
	return i, nil
}

// RestoreIdentity rebuilds a stored identity.
func RestoreIdentity(id kernel.UUID, name, email, passwordHash string, role Role, createdAt time.Time) (*Identity, error) {
	return NewIdentity(id, name, email, passwordHash, role, createdAt)
}

// NormalizeEmail lowercases and trims an address; uniqueness is checked on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (i *Identity) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrIdentityIsNotConstructed
	}
	return nil
}

func (i *Identity) ID() kernel.UUID {
	return i.id
}

func (i *Identity) Name() string {
	return i.name
}

func (i *Identity) Email() string {
	return i.email
}

func (i *Identity) PasswordHash() string {
	return i.passwordHash
}

func (i *Identity) Role() Role {
	return i.role
}

func (i *Identity) CreatedAt() time.Time {
	return i.createdAt
}

// Principal returns the authenticated view of this identity.
func (i *Identity) Principal() Principal {
	return Principal{ID: i.id, Role: i.role}
}

func (i *Identity) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Identity) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

func (i *Identity) setEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not a valid address", email))
	}
	i.email = email
	return nil
}

func (i *Identity) setPasswordHash(hash string) error {
	if hash == "" {
		return errs.NewValueIsRequiredError("password hash")
	}
	i.passwordHash = hash
	return nil
}

func (i *Identity) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	i.role = role
	return nil
}
