package commands

import (
	"context"
	"errors"
	"time"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"

	"go.uber.org/zap"
)

// loadActiveOrder returns the order unless it is missing or soft-deleted.
func loadActiveOrder(ctx context.Context, repo ports.OrderRepository, id kernel.UUID) (*order.Order, error) {
	o, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.IsDeleted() {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

// requireIdentityWithRole resolves a referenced identity. A missing identity or
// one holding another role is an invalid argument, not a missing resource.
func requireIdentityWithRole(ctx context.Context, repo ports.IdentityRepository, id kernel.UUID, role identity.Role) error {
	i, err := repo.Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewValueIsInvalidErrorWithCause(role.String()+" id", err)
	}
	if err != nil {
		return err
	}
	if i.Role() != role {
		return errs.NewValueIsInvalidErrorWithCause(role.String()+" id",
			errors.New("identity "+id.String()+" is a "+i.Role().String()))
	}
	return nil
}

// ensureNoOtherActiveOrder fails with a ConflictError if buyerID already has an
// active order other than orderID.
func ensureNoOtherActiveOrder(ctx context.Context, repo ports.OrderRepository, buyerID kernel.UUID, orderID *kernel.UUID) error {
	active, err := repo.FindActiveByBuyer(ctx, buyerID)
	if err != nil {
		return err
	}
	if active == nil || (orderID != nil && active.ID().IsEqual(*orderID)) {
		return nil
	}
	return errs.NewConflictError("buyer already has an active order")
}

// notifyCommitted pushes the committed snapshot. Push is best effort: a
// failure is logged and never undoes or fails the mutation.
func notifyCommitted(ctx context.Context, notifier ports.OrderNotifier, logger *zap.Logger, o *order.Order) {
	if err := notifier.NotifyOrderChanged(ctx, o); err != nil {
		logger.Warn("order notification failed",
			zap.String("order_id", o.ID().String()),
			zap.Int("version", o.Version()),
			zap.Error(err),
		)
	}
}

// recordAndCommit writes the order and its audit entry in the open unit of work
// and commits both.
func recordAndCommit(ctx context.Context, uow UoW, o *order.Order, action audit.Action, actor kernel.UUID, at time.Time, isNew bool) error {
	var err error
	if isNew {
		err = uow.OrderRepository().Add(ctx, o)
	} else {
		err = uow.OrderRepository().Update(ctx, o)
	}
	if err != nil {
		return err
	}

	entry, err := audit.NewEntry(o.ID(), action, actor, at)
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
