package commands

import (
	"context"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/ports"

	"go.uber.org/zap"
)

// RegisterIdentityCommandHandler hashes the password and stores the identity.
// A taken email surfaces as the repository's ConflictError.
type RegisterIdentityCommandHandler struct {
	uowFactory IdentityUoWFactory
	hasher     ports.PasswordHasher
	clock      Clock
	logger     *zap.Logger
}

func NewRegisterIdentityCommandHandler(
	uowFactory IdentityUoWFactory,
	hasher ports.PasswordHasher,
	clock Clock,
	logger *zap.Logger,
) RegisterIdentityCommandHandler {
	return RegisterIdentityCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		clock:      clock,
		logger:     logger,
	}
}

func (h *RegisterIdentityCommandHandler) Handle(ctx context.Context, cmd RegisterIdentityCommand) (*identity.Identity, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return nil, err
	}

	i, err := identity.NewIdentity(kernel.NewUUID(), cmd.Name(), cmd.Email(), hash, cmd.Role(), h.clock())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.IdentityRepository().Add(ctx, i); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.Info("identity registered",
		zap.String("identity_id", i.ID().String()),
		zap.Stringer("role", i.Role()),
	)
	return i, nil
}
