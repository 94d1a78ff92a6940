package commands

import (
	"errors"
	"fmt"
	"strings"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/pkg/errs"
	"ordertracker/internal/pkg/guard"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	ErrRegisterIdentityCommandIsNotConstructed = errors.New(
		"RegisterIdentityCommand must be created via NewRegisterIdentityCommand constructor",
	)
)

// RegisterIdentityCommand signs up a buyer or a seller. Admins cannot
// self-register; they are provisioned through NewRegisterAdminCommand.
type RegisterIdentityCommand struct { //nolint:recvcheck //using for validation
	name     string
	email    string
	password string
	role     identity.Role

	guard guard.ConstructorGuard
}

func NewRegisterIdentityCommand(name, email, password string, role identity.Role) (RegisterIdentityCommand, error) {
	if err := role.Validate(); err != nil {
		return RegisterIdentityCommand{}, err
	}
	if role == identity.RoleAdmin {
		return RegisterIdentityCommand{}, errs.NewForbiddenError("anonymous")
	}
	return newRegisterIdentityCommand(name, email, password, role)
}

// NewRegisterAdminCommand is used to provision the administrator at startup.
func NewRegisterAdminCommand(name, email, password string) (RegisterIdentityCommand, error) {
	return newRegisterIdentityCommand(name, email, password, identity.RoleAdmin)
}

func newRegisterIdentityCommand(name, email, password string, role identity.Role) (RegisterIdentityCommand, error) {
	cmd := RegisterIdentityCommand{
		role:  role,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setName(name),
		cmd.setEmail(email),
		cmd.setPassword(password),
	); err != nil {
		return RegisterIdentityCommand{}, err
	}

	return cmd, nil
}

func (c RegisterIdentityCommand) Validate() error {
	return c.guard.Validate(ErrRegisterIdentityCommandIsNotConstructed)
}

func (c RegisterIdentityCommand) Name() string {
	return c.name
}

// Email is already normalized.
func (c RegisterIdentityCommand) Email() string {
	return c.email
}

func (c RegisterIdentityCommand) Password() string {
	return c.password
}

func (c RegisterIdentityCommand) Role() identity.Role {
	return c.role
}

func (c *RegisterIdentityCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *RegisterIdentityCommand) setEmail(email string) error {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	c.email = email
	return nil
}

func (c *RegisterIdentityCommand) setPassword(password string) error {
	if password == "" {
		return errs.NewValueIsRequiredError("password")
	}
	if len(password) > MaxPasswordBytes {
		return errs.NewValueIsInvalidErrorWithCause("password",
			fmt.Errorf("must be at most %d bytes", MaxPasswordBytes))
	}
	c.password = password
	return nil
}
