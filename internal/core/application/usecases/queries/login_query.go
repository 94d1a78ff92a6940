package queries

import (
	"context"
	"errors"
	"time"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrLoginQueryIsNotConstructed = errors.New("LoginQuery must be created via NewLoginQuery constructor")

	errInvalidCredentials = errs.NewUnauthorizedError("invalid credentials")
)

// LoginQuery exchanges an email and password for a bearer token.
type LoginQuery struct {
	email    string
	password string

	guard guard.ConstructorGuard
}

func NewLoginQuery(email, password string) (LoginQuery, error) {
	email = identity.NormalizeEmail(email)
	if err := errors.Join(
		requireText("email", email),
		requireText("password", password),
	); err != nil {
		return LoginQuery{}, err
	}
	return LoginQuery{email: email, password: password, guard: guard.NewConstructorGuard()}, nil
}

func (q LoginQuery) Validate() error {
	return q.guard.Validate(ErrLoginQueryIsNotConstructed)
}

type LoginQueryResponse struct {
	Token     string
	ExpiresAt time.Time
	Profile   views.Profile
}

type LoginQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	hasher     ports.PasswordHasher
	issuer     ports.TokenIssuer
}

func NewLoginQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
) LoginQueryHandler {
	return LoginQueryHandler{uowFactory: uowFactory, hasher: hasher, issuer: issuer}
}

// Handle answers an unknown email and a wrong password with the same
// UnauthorizedError.
func (h LoginQueryHandler) Handle(ctx context.Context, query LoginQuery) (LoginQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return LoginQueryResponse{}, err
	}

	i, err := h.uowFactory.Create().IdentityRepository().GetByEmail(ctx, query.email)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return LoginQueryResponse{}, errInvalidCredentials
	}
	if err != nil {
		return LoginQueryResponse{}, err
	}

	if err = h.hasher.Compare(i.PasswordHash(), query.password); err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			return LoginQueryResponse{}, errInvalidCredentials
		}
		return LoginQueryResponse{}, err
	}

	token, expiresAt, err := h.issuer.Issue(i.Principal())
	if err != nil {
		return LoginQueryResponse{}, err
	}

	return LoginQueryResponse{Token: token, ExpiresAt: expiresAt, Profile: views.NewProfile(i)}, nil
}

func requireText(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
