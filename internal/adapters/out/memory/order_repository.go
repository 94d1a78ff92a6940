package memory

import (
	"context"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"
)

// OrderRepository implements ports.OrderRepository over a Store.
// Reads always see committed state.
type OrderRepository struct {
	store  *Store
	writer *UnitOfWork
}

func (r *OrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	w := orderWrite{state: aggregate.State(), isNew: true}
	return r.writer.write(ctx, func(b *batch) { b.orders = append(b.orders, w) })
}

func (r *OrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	w := orderWrite{state: aggregate.State(), expected: aggregate.ExpectedVersion()}
	return r.writer.write(ctx, func(b *batch) { b.orders = append(b.orders, w) })
}

func (r *OrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	state, ok := r.store.getOrder(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(state)
}

func (r *OrderRepository) FindActiveByBuyer(ctx context.Context, buyerID kernel.UUID) (*order.Order, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	if err := buyerID.Validate(); err != nil {
		return nil, err
	}
	state, ok := r.store.activeOrderOf(buyerID)
	if !ok {
		return nil, nil
	}
	return order.RestoreOrder(state)
}

func (r *OrderRepository) ListActiveBySeller(ctx context.Context, sellerID kernel.UUID) ([]*order.Order, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	if err := sellerID.Validate(); err != nil {
		return nil, err
	}
	return restoreAll(r.store.selectOrders(func(s order.State) bool {
		return s.SellerID != nil && s.SellerID.IsEqual(sellerID)
	}))
}

func (r *OrderRepository) ListActive(ctx context.Context) ([]*order.Order, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	return restoreAll(r.store.selectOrders(func(order.State) bool { return true }))
}

func (r *OrderRepository) CountActiveByStage(ctx context.Context) (map[order.Stage]int, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	counts := make(map[order.Stage]int)
	for _, state := range r.store.selectOrders(func(order.State) bool { return true }) {
		counts[state.Stage]++
	}
	return counts, nil
}

func (r *OrderRepository) AverageDeliveryDuration(ctx context.Context) (time.Duration, error) {
	if err := readable(ctx); err != nil {
		return 0, err
	}
	return r.store.averageDelivery(), nil
}

func restoreAll(states []order.State) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(states))
	for _, state := range states {
		o, err := order.RestoreOrder(state)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func readable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errs.NewInternalError("read", err)
	}
	return nil
}
