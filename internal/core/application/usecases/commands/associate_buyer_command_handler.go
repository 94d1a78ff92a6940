package commands

import (
	"context"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"

	"go.uber.org/zap"
)

// AssociateBuyerCommandHandler moves an order from Order Placed to Buyer Associated.
//
// Checks run in this order, and the first failure wins:
//   - order missing or deleted: ObjectNotFoundError
//   - order past Order Placed, or bound to another buyer: InvalidStateError
//   - buyer id unknown or not a buyer: ValueIsInvalidError
//   - buyer has another active order: ConflictError
type AssociateBuyerCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.OrderNotifier
	clock      Clock
	logger     *zap.Logger
}

func NewAssociateBuyerCommandHandler(
	uowFactory UoWFactory,
	notifier ports.OrderNotifier,
	clock Clock,
	logger *zap.Logger,
) AssociateBuyerCommandHandler {
	return AssociateBuyerCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (h *AssociateBuyerCommandHandler) Handle(ctx context.Context, cmd AssociateBuyerCommand) (*order.Order, error) {
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
	if err = o.AssociateBuyer(cmd.BuyerID(), now); err != nil {
		return nil, err
	}
	if err = requireIdentityWithRole(ctx, uow.IdentityRepository(), cmd.BuyerID(), identity.RoleBuyer); err != nil {
		return nil, err
	}
	orderID := o.ID()
	if err = ensureNoOtherActiveOrder(ctx, uow.OrderRepository(), cmd.BuyerID(), &orderID); err != nil {
		return nil, err
	}

	if err = recordAndCommit(ctx, uow, o, audit.BuyerAssociated(), cmd.Actor().ID, now, false); err != nil {
		return nil, err
	}

	notifyCommitted(ctx, h.notifier, h.logger, o)
	return o, nil
}
