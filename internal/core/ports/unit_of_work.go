package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Writes made through its
// repositories between Begin and Commit are stored together or not at all.
// Repositories used without Begin read committed state directly.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active or the store refuses it.
	Commit(ctx context.Context) error

	// Rollback discards pending writes. It fails if no transaction is active,
	// which handlers deferring it after Commit may ignore.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	IdentityRepository() IdentityRepository
	AuditRepository() AuditRepository
}
