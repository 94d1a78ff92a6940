package queries

import (
	"context"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"
)

type GetOrderDetailsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderDetailsQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderDetailsQueryHandler {
	return GetOrderDetailsQueryHandler{uowFactory: uowFactory}
}

// Handle reports a soft-deleted order as missing.
func (h GetOrderDetailsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderDetailsQuery,
) (GetOrderDetailsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}
	if o.IsDeleted() {
		return GetOrderDetailsQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	entries, err := uow.AuditRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	resolver := views.NewResolver(uow.IdentityRepository())
	rendered, err := resolver.Order(ctx, o)
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}
	logs, err := resolver.AuditTrail(ctx, entries)
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	return GetOrderDetailsQueryResponse{
		Order:          rendered,
		Logs:           logs,
		StageDurations: o.StageDurations(),
	}, nil
}
