package commands

import (
	"context"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/ports"

	"go.uber.org/zap"
)

// SoftDeleteOrderCommandHandler marks an order deleted and records it.
// Deletion is not pushed to subscribers; the notifier is told to retire the
// order so no later snapshot of it is delivered either.
type SoftDeleteOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.OrderNotifier
	clock      Clock
	logger     *zap.Logger
}

func NewSoftDeleteOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.OrderNotifier,
	clock Clock,
	logger *zap.Logger,
) SoftDeleteOrderCommandHandler {
	return SoftDeleteOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (h *SoftDeleteOrderCommandHandler) Handle(ctx context.Context, cmd SoftDeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := loadSellerOrder(ctx, uow.OrderRepository(), cmd.OrderID(), cmd.Actor().ID)
	if err != nil {
		return err
	}

	now := h.clock()
	if err = o.MarkDeleted(now); err != nil {
		return err
	}

	if err = recordAndCommit(ctx, uow, o, audit.OrderDeleted(), cmd.Actor().ID, now, false); err != nil {
		return err
	}

	h.logger.Info("order deleted", zap.String("order_id", o.ID().String()))
	h.notifier.RetireOrder(o.ID())
	return nil
}
