package memory

import (
	"context"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/kernel"
)

// AuditRepository implements ports.AuditRepository over a Store.
type AuditRepository struct {
	store  *Store
	writer *UnitOfWork
}

func (r *AuditRepository) Add(ctx context.Context, entry *audit.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return r.writer.write(ctx, func(b *batch) { b.entries = append(b.entries, entry) })
}

func (r *AuditRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*audit.Entry, error) {
	if err := readable(ctx); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.store.trail(orderID), nil
}
