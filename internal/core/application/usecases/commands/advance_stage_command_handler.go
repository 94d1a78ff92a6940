package commands

import (
	"context"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"

	"go.uber.org/zap"
)

// AdvanceStageCommandHandler moves an order one stage forward.
//
// An order handled by another seller is reported as missing. Two concurrent
// advances of the same order cannot both win: the repository update is a
// compare-and-set on the version loaded here, so the loser fails with a
// ConflictError wrapping errs.ErrConcurrentModification.
type AdvanceStageCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.OrderNotifier
	clock      Clock
	logger     *zap.Logger
}

func NewAdvanceStageCommandHandler(
	uowFactory UoWFactory,
	notifier ports.OrderNotifier,
	clock Clock,
	logger *zap.Logger,
) AdvanceStageCommandHandler {
	return AdvanceStageCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (h *AdvanceStageCommandHandler) Handle(ctx context.Context, cmd AdvanceStageCommand) (*order.Order, error) {
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

	o, err := loadSellerOrder(ctx, uow.OrderRepository(), cmd.OrderID(), cmd.Actor().ID)
	if err != nil {
		return nil, err
	}

	now := h.clock()
	next, err := o.AdvanceStage(now)
	if err != nil {
		return nil, err
	}

	if err = recordAndCommit(ctx, uow, o, audit.StageAdvanced(next), cmd.Actor().ID, now, false); err != nil {
		return nil, err
	}

	h.logger.Info("order stage advanced",
		zap.String("order_id", o.ID().String()),
		zap.Stringer("stage", next),
	)
	notifyCommitted(ctx, h.notifier, h.logger, o)
	return o, nil
}

// loadSellerOrder returns the active order only if sellerID is bound to it.
func loadSellerOrder(ctx context.Context, repo ports.OrderRepository, orderID, sellerID kernel.UUID) (*order.Order, error) {
	o, err := loadActiveOrder(ctx, repo, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsHandledBy(sellerID) {
		return nil, errs.NewObjectNotFoundError("order", orderID.String())
	}
	return o, nil
}
