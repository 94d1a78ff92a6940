package realtime

import (
	"context"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"

	"go.uber.org/zap"
)

// OrderNotifier renders committed orders and publishes them through a Hub.
type OrderNotifier struct {
	hub        *Hub
	uowFactory ports.UnitOfWorkFactory
	logger     *zap.Logger
}

func NewOrderNotifier(hub *Hub, uowFactory ports.UnitOfWorkFactory, logger *zap.Logger) *OrderNotifier {
	return &OrderNotifier{hub: hub, uowFactory: uowFactory, logger: logger}
}

// NotifyOrderChanged publishes snapshot. Deleted orders are never published.
// If the buyer or seller cannot be resolved the snapshot is still published,
// without their display fields.
func (n *OrderNotifier) NotifyOrderChanged(ctx context.Context, snapshot *order.Order) error {
	if snapshot.IsDeleted() {
		n.logger.Debug("deleted order not published", zap.String("order_id", snapshot.ID().String()))
		return nil
	}

	resolver := views.NewResolver(n.uowFactory.Create().IdentityRepository())
	rendered, err := resolver.Order(ctx, snapshot)
	if err != nil {
		n.logger.Warn("order parties not resolved for notification",
			zap.String("order_id", snapshot.ID().String()),
			zap.Error(err),
		)
		rendered = views.NewOrder(snapshot, map[kernel.UUID]*identity.Identity{})
	}

	_, err = n.hub.Publish(Snapshot{
		OrderID: snapshot.ID(),
		Version: snapshot.Version(),
		Buyer:   snapshot.Buyer(),
		Seller:  snapshot.Seller(),
		Data:    rendered,
	})
	return err
}

func (n *OrderNotifier) RetireOrder(orderID kernel.UUID) {
	n.hub.RetireOrder(orderID)
}
