package queries

import (
	"context"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/ports"
)

type GetBuyerActiveOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetBuyerActiveOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetBuyerActiveOrderQueryHandler {
	return GetBuyerActiveOrderQueryHandler{uowFactory: uowFactory}
}

func (h GetBuyerActiveOrderQueryHandler) Handle(
	ctx context.Context,
	query GetBuyerActiveOrderQuery,
) (GetBuyerActiveOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBuyerActiveOrderQueryResponse{}, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().FindActiveByBuyer(ctx, query.Buyer().ID)
	if err != nil || o == nil {
		return GetBuyerActiveOrderQueryResponse{}, err
	}

	rendered, err := views.NewResolver(uow.IdentityRepository()).Order(ctx, o)
	if err != nil {
		return GetBuyerActiveOrderQueryResponse{}, err
	}
	return GetBuyerActiveOrderQueryResponse{Order: &rendered}, nil
}
