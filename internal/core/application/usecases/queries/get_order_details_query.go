package queries

import (
	"errors"
	"time"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrGetOrderDetailsQueryIsNotConstructed = errors.New(
		"GetOrderDetailsQuery must be created via NewGetOrderDetailsQuery constructor",
	)
)

// GetOrderDetailsQuery returns an order with its audit trail and the time it
// spent between each pair of reached stages. Admins only.
type GetOrderDetailsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderDetailsQuery(admin identity.Principal, orderID kernel.UUID) (GetOrderDetailsQuery, error) {
	if err := admin.Require(identity.RoleAdmin); err != nil {
		return GetOrderDetailsQuery{}, err
	}
	if err := orderID.Validate(); err != nil {
		return GetOrderDetailsQuery{}, err
	}
	return GetOrderDetailsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailsQueryIsNotConstructed)
}

func (q GetOrderDetailsQuery) OrderID() kernel.UUID {
	return q.orderID
}

type GetOrderDetailsQueryResponse struct {
	Order views.Order
	Logs  []views.AuditEntry
	// StageDurations is keyed "FROM to TO" for each adjacent pair of reached stages.
	StageDurations map[string]time.Duration
}
