package queries

import (
	"errors"
	"time"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrGetStatsQueryIsNotConstructed = errors.New(
		"GetStatsQuery must be created via NewGetStatsQuery constructor",
	)
)

// GetStatsQuery summarises non-deleted orders for the admin dashboard.
type GetStatsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetStatsQuery(admin identity.Principal) (GetStatsQuery, error) {
	if err := admin.Require(identity.RoleAdmin); err != nil {
		return GetStatsQuery{}, err
	}
	return NewSystemStatsQuery(), nil
}

// NewSystemStatsQuery is used by background jobs, which act without a caller.
func NewSystemStatsQuery() GetStatsQuery {
	return GetStatsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatsQueryIsNotConstructed)
}

type StageCount struct {
	Stage order.Stage
	Count int
}

type GetStatsQueryResponse struct {
	TotalOrders int
	// OrdersByStage lists only stages holding at least one order, in lifecycle order.
	OrdersByStage []StageCount
	// AvgDeliveryTime is zero when no order has been delivered.
	AvgDeliveryTime time.Duration
}
