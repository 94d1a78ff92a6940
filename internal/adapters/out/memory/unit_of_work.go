package memory

import (
	"context"
	"errors"

	"ordertracker/internal/core/ports"
)

var ErrNoTransaction = errors.New("memory: no active transaction")

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork buffers writes between Begin and Commit. Without Begin, every
// write is applied on its own immediately.
type UnitOfWork struct {
	store   *Store
	pending *batch
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.pending == nil {
		uow.pending = &batch{}
	}
	return nil
}

func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if uow.pending == nil {
		return ErrNoTransaction
	}
	b := uow.pending
	uow.pending = nil
	if b.empty() {
		return nil
	}
	return uow.store.apply(ctx, b)
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.pending == nil {
		return ErrNoTransaction
	}
	uow.pending = nil
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{store: uow.store, writer: uow}
}

func (uow *UnitOfWork) IdentityRepository() ports.IdentityRepository {
	return &IdentityRepository{store: uow.store, writer: uow}
}

func (uow *UnitOfWork) AuditRepository() ports.AuditRepository {
	return &AuditRepository{store: uow.store, writer: uow}
}

// write queues the change in the active transaction, or applies it right away.
func (uow *UnitOfWork) write(ctx context.Context, queue func(*batch)) error {
	if uow.pending != nil {
		queue(uow.pending)
		return nil
	}
	b := &batch{}
	queue(b)
	return uow.store.apply(ctx, b)
}
