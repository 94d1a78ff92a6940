package ports

import (
	"context"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
)

// OrderNotifier pushes committed order state to connected clients.
// Delivery is best effort: implementations never fail the caller's mutation.
type OrderNotifier interface {
	// NotifyOrderChanged sends the snapshot to the buyer, the seller and the
	// admin broadcast channel.
	NotifyOrderChanged(ctx context.Context, snapshot *order.Order) error

	// RetireOrder stops every further delivery for a deleted order.
	RetireOrder(orderID kernel.UUID)
}
