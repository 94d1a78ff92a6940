// Package ports defines the contracts between the lifecycle engine and the
// infrastructure it runs on: entity stores, the unit of work, push
// notification and authentication.
package ports

import (
	"context"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. A second active order for the same buyer fails
	// with errs.ConflictError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the aggregate only if the stored version still equals
	// aggregate.ExpectedVersion(). Otherwise it fails with a ConflictError
	// wrapping errs.ErrConcurrentModification and writes nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order by id, deleted or not.
	// Returns errs.ObjectNotFoundError if no such order was ever stored.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindActiveByBuyer returns the buyer's non-deleted order, or nil if there is none.
	FindActiveByBuyer(ctx context.Context, buyerID kernel.UUID) (*order.Order, error)

	// ListActiveBySeller returns the seller's non-deleted orders, newest first.
	ListActiveBySeller(ctx context.Context, sellerID kernel.UUID) ([]*order.Order, error)

	// ListActive returns every non-deleted order, newest first.
	ListActive(ctx context.Context) ([]*order.Order, error)

	// CountActiveByStage counts non-deleted orders per stage. Stages with no
	// orders are absent.
	CountActiveByStage(ctx context.Context) (map[order.Stage]int, error)

	// AverageDeliveryDuration averages Delivered minus Order Placed over
	// delivered non-deleted orders. Zero when there are none.
	AverageDeliveryDuration(ctx context.Context) (time.Duration, error)
}
