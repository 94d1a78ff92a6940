package queries

import (
	"context"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
)

type ListOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{uowFactory: uowFactory}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	uow := h.uowFactory.Create()

	var (
		orders []*order.Order
		err    error
	)
	if actor := query.Actor(); actor.Is(identity.RoleAdmin) {
		orders, err = uow.OrderRepository().ListActive(ctx)
	} else {
		orders, err = uow.OrderRepository().ListActiveBySeller(ctx, actor.ID)
	}
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	rendered, err := views.NewResolver(uow.IdentityRepository()).Orders(ctx, orders)
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}
	return ListOrdersQueryResponse{Orders: rendered}, nil
}
