package ports

import (
	"context"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/kernel"
)

// AuditRepository is append-only.
type AuditRepository interface {
	Add(ctx context.Context, entry *audit.Entry) error

	// ListByOrder returns the trail of one order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*audit.Entry, error)
}
