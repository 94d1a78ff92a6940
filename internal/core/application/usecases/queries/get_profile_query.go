package queries

import (
	"context"
	"errors"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrGetProfileQueryIsNotConstructed = errors.New(
		"GetProfileQuery must be created via NewGetProfileQuery constructor",
	)
)

// GetProfileQuery returns the caller's own identity.
type GetProfileQuery struct {
	caller identity.Principal

	guard guard.ConstructorGuard
}

func NewGetProfileQuery(caller identity.Principal) (GetProfileQuery, error) {
	if err := caller.Validate(); err != nil {
		return GetProfileQuery{}, err
	}
	return GetProfileQuery{caller: caller, guard: guard.NewConstructorGuard()}, nil
}

func (q GetProfileQuery) Validate() error {
	return q.guard.Validate(ErrGetProfileQueryIsNotConstructed)
}

type GetProfileQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetProfileQueryHandler(uowFactory ports.UnitOfWorkFactory) GetProfileQueryHandler {
	return GetProfileQueryHandler{uowFactory: uowFactory}
}

// Handle fails with an UnauthorizedError if the token outlived its identity.
func (h GetProfileQueryHandler) Handle(ctx context.Context, query GetProfileQuery) (views.Profile, error) {
	if err := query.Validate(); err != nil {
		return views.Profile{}, err
	}

	i, err := h.uowFactory.Create().IdentityRepository().Get(ctx, query.caller.ID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return views.Profile{}, errs.NewUnauthorizedError("identity no longer exists")
	}
	if err != nil {
		return views.Profile{}, err
	}
	return views.NewProfile(i), nil
}
