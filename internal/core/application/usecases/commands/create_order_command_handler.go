package commands

import (
	"context"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"

	"go.uber.org/zap"
)

// OrderCodeGenerator issues unique human-facing order codes.
type OrderCodeGenerator interface {
	Next() order.Code
}

// CreateOrderCommandHandler places orders at the Order Placed stage.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, codes, notifier, time.Now, logger)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // the buyer already has an active order
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	codes      OrderCodeGenerator
	notifier   ports.OrderNotifier
	clock      Clock
	logger     *zap.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	codes OrderCodeGenerator,
	notifier ports.OrderNotifier,
	clock Clock,
	logger *zap.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		codes:      codes,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

// Handle places the order, records "Order Created" and notifies the buyer and admins.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
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

	if buyerID := cmd.BuyerID(); buyerID != nil {
		if !cmd.Actor().Is(identity.RoleBuyer) {
			if err := requireIdentityWithRole(ctx, uow.IdentityRepository(), *buyerID, identity.RoleBuyer); err != nil {
				return nil, err
			}
		}
		if err := ensureNoOtherActiveOrder(ctx, uow.OrderRepository(), *buyerID, nil); err != nil {
			return nil, err
		}
	}

	now := h.clock()
	o, err := order.NewOrder(kernel.NewUUID(), h.codes.Next(), cmd.Items(), cmd.BuyerID(), now)
	if err != nil {
		return nil, err
	}

	if err = recordAndCommit(ctx, uow, o, audit.OrderCreated(), cmd.Actor().ID, now, true); err != nil {
		return nil, err
	}

	h.logger.Info("order placed",
		zap.String("order_id", o.ID().String()),
		zap.String("code", o.Code().String()),
	)
	notifyCommitted(ctx, h.notifier, h.logger, o)
	return o, nil
}
