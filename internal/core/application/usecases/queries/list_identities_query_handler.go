package queries

import (
	"context"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/ports"
)

type ListIdentitiesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListIdentitiesQueryHandler(uowFactory ports.UnitOfWorkFactory) ListIdentitiesQueryHandler {
	return ListIdentitiesQueryHandler{uowFactory: uowFactory}
}

func (h ListIdentitiesQueryHandler) Handle(
	ctx context.Context,
	query ListIdentitiesQuery,
) (ListIdentitiesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListIdentitiesQueryResponse{}, err
	}

	found, err := h.uowFactory.Create().IdentityRepository().ListByRole(ctx, query.Role())
	if err != nil {
		return ListIdentitiesQueryResponse{}, err
	}

	parties := make([]views.Party, 0, len(found))
	for _, i := range found {
		parties = append(parties, views.NewParty(i))
	}
	return ListIdentitiesQueryResponse{Identities: parties}, nil
}
