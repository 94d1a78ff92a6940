package commands

import (
	"context"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"

	"go.uber.org/zap"
)

// AssociateSellerCommandHandler binds the seller and moves the order to Processing.
// The stage is checked before the seller id, so a premature call reports
// InvalidStateError whatever the payload.
type AssociateSellerCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.OrderNotifier
	clock      Clock
	logger     *zap.Logger
}

func NewAssociateSellerCommandHandler(
	uowFactory UoWFactory,
	notifier ports.OrderNotifier,
	clock Clock,
	logger *zap.Logger,
) AssociateSellerCommandHandler {
	return AssociateSellerCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (h *AssociateSellerCommandHandler) Handle(ctx context.Context, cmd AssociateSellerCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := loadActiveOrder(ctx, uow.OrderRepository(), cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := h.clock()
	if err = o.AssociateSeller(cmd.SellerID(), now); err != nil {
		return nil, err
	}
	if err = requireIdentityWithRole(ctx, uow.IdentityRepository(), cmd.SellerID(), identity.RoleSeller); err != nil {
		return nil, err
	}

	if err = recordAndCommit(ctx, uow, o, audit.SellerAssociated(), cmd.Actor().ID, now, false); err != nil {
		return nil, err
	}

	notifyCommitted(ctx, h.notifier, h.logger, o)
	return o, nil
}
