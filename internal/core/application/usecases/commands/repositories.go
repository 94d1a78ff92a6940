// Package commands contains the lifecycle operations that change state.
// Every handler follows the same shape: validate the command, open a unit of
// work, load and mutate the aggregate, write it back together with its audit
// entry, commit, and only then notify.
package commands

import (
	"context"
	"time"

	"ordertracker/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	IdentityRepoFactory interface {
		IdentityRepository() ports.IdentityRepository
	}

	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// UoW spans an order, the identities it references and its audit trail.
	UoW interface {
		TxManager
		OrderRepoFactory
		IdentityRepoFactory
		AuditRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}

	// IdentityUoW is used by registration, which touches identities only.
	IdentityUoW interface {
		TxManager
		IdentityRepoFactory
	}

	IdentityUoWFactory interface {
		Create() IdentityUoW
	}
)

// Clock returns the current instant. Handlers stamp stages with it.
type Clock func() time.Time
