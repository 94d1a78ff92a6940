package queries_test

import (
	"errors"
	"testing"
	"time"

	"ordertracker/internal/adapters/out/memory"
	"ordertracker/internal/core/application/usecases/queries"
	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

type world struct {
	factory ports.UnitOfWorkFactory
	admin   *identity.Identity
	buyer   *identity.Identity
	seller  *identity.Identity
}

func newWorld(t *testing.T) *world {
	t.Helper()
	return newWorldOn(t, memory.NewUnitOfWorkFactory(memory.NewStore()))
}

func newWorldOn(t *testing.T, factory ports.UnitOfWorkFactory) *world {
	t.Helper()
	w := &world{factory: factory}
	w.admin = w.register(t, "Root", "root@example.com", identity.RoleAdmin)
	w.buyer = w.register(t, "Bea", "bea@example.com", identity.RoleBuyer)
	w.seller = w.register(t, "Sam", "sam@example.com", identity.RoleSeller)
	return w
}

func (w *world) register(t *testing.T, name, email string, role identity.Role) *identity.Identity {
	t.Helper()
	i, err := identity.NewIdentity(kernel.NewUUID(), name, email, "hash", role, placedAt)
	require.NoError(t, err)
	require.NoError(t, w.factory.Create().IdentityRepository().Add(t.Context(), i))
	return i
}

// place stores an order for buyer, advanced to stage and bound to seller when
// it is past Buyer Associated, together with its audit trail.
func (w *world) place(t *testing.T, code string, buyer, seller *identity.Identity, stage order.Stage) *order.Order {
	t.Helper()
	ctx := t.Context()

	buyerID := buyer.ID()
	o, err := order.NewOrder(kernel.NewUUID(), order.Code(code), []string{"item1"}, &buyerID, placedAt)
	require.NoError(t, err)
	actions := []audit.Action{audit.OrderCreated()}

	at := placedAt
	if stage.Reached(order.BuyerAssociated) {
		at = at.Add(time.Minute)
		require.NoError(t, o.AssociateBuyer(buyerID, at))
		actions = append(actions, audit.BuyerAssociated())
	}
	if stage.Reached(order.Processing) {
		at = at.Add(time.Minute)
		require.NoError(t, o.AssociateSeller(seller.ID(), at))
		actions = append(actions, audit.SellerAssociated())
	}
	for o.Stage() < stage {
		at = at.Add(time.Hour)
		next, err := o.AdvanceStage(at)
		require.NoError(t, err)
		actions = append(actions, audit.StageAdvanced(next))
	}

	uow := w.factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	for i, action := range actions {
		entry, err := audit.NewEntry(o.ID(), action, w.admin.ID(), placedAt.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, uow.AuditRepository().Add(ctx, entry))
	}
	require.NoError(t, uow.Commit(ctx))

	stored, err := w.factory.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	return stored
}

func (w *world) softDelete(t *testing.T, o *order.Order) {
	t.Helper()
	require.NoError(t, o.MarkDeleted(placedAt.Add(24*time.Hour)))
	require.NoError(t, w.factory.Create().OrderRepository().Update(t.Context(), o))
}

func TestGetBuyerActiveOrderQueryHandler(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)
	h := queries.NewGetBuyerActiveOrderQueryHandler(w.factory)
	query, err := queries.NewGetBuyerActiveOrderQuery(w.buyer.Principal())
	require.NoError(t, err)

	resp, err := h.Handle(ctx, query)
	require.NoError(t, err)
	assert.Nil(t, resp.Order, "no order yet")

	o := w.place(t, "ORD-1", w.buyer, w.seller, order.Packed)
	resp, err = h.Handle(ctx, query)
	require.NoError(t, err)
	require.NotNil(t, resp.Order)
	assert.Equal(t, o.ID(), resp.Order.ID)
	require.NotNil(t, resp.Order.Seller)
	assert.Equal(t, "Sam", resp.Order.Seller.Name)

	w.softDelete(t, o)
	resp, err = h.Handle(ctx, query)
	require.NoError(t, err)
	assert.Nil(t, resp.Order)
}

func TestNewGetBuyerActiveOrderQuery_SellerForbidden(t *testing.T) {
	w := newWorld(t)
	_, err := queries.NewGetBuyerActiveOrderQuery(w.seller.Principal())
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestListOrdersQueryHandler(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)
	otherBuyer := w.register(t, "Bob", "bob@example.com", identity.RoleBuyer)
	thirdBuyer := w.register(t, "Bo", "bo@example.com", identity.RoleBuyer)
	otherSeller := w.register(t, "Sue", "sue@example.com", identity.RoleSeller)

	mine := w.place(t, "ORD-1", w.buyer, w.seller, order.Processing)
	w.place(t, "ORD-2", otherBuyer, otherSeller, order.Shipped)
	deleted := w.place(t, "ORD-3", thirdBuyer, w.seller, order.Packed)
	w.softDelete(t, deleted)

	h := queries.NewListOrdersQueryHandler(w.factory)

	sellerQuery, err := queries.NewListSellerOrdersQuery(w.seller.Principal())
	require.NoError(t, err)
	resp, err := h.Handle(ctx, sellerQuery)
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, mine.ID(), resp.Orders[0].ID)
	assert.Equal(t, "Bea", resp.Orders[0].Buyer.Name)

	adminQuery, err := queries.NewListAllOrdersQuery(w.admin.Principal())
	require.NoError(t, err)
	resp, err = h.Handle(ctx, adminQuery)
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)

	_, err = queries.NewListAllOrdersQuery(w.seller.Principal())
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = queries.NewListSellerOrdersQuery(w.admin.Principal())
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestGetOrderDetailsQueryHandler(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)
	o := w.place(t, "ORD-1", w.buyer, w.seller, order.Shipped)

	h := queries.NewGetOrderDetailsQueryHandler(w.factory)
	query, err := queries.NewGetOrderDetailsQuery(w.admin.Principal(), o.ID())
	require.NoError(t, err)

	resp, err := h.Handle(ctx, query)
	require.NoError(t, err)

	assert.Equal(t, "Shipped", resp.Order.CurrentStage)
	require.Len(t, resp.Logs, 5)
	assert.Equal(t, "Order Created", resp.Logs[0].Action)
	assert.Equal(t, "Stage changed to Shipped", resp.Logs[4].Action)
	assert.Equal(t, "Root", resp.Logs[0].PerformedBy.Name)
	assert.Equal(t, map[string]time.Duration{
		"Order Placed to Buyer Associated": time.Minute,
		"Buyer Associated to Processing":   time.Minute,
		"Processing to Packed":             time.Hour,
		"Packed to Shipped":                time.Hour,
	}, resp.StageDurations)
}

func TestGetOrderDetailsQueryHandler_DeletedOrMissing(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)
	o := w.place(t, "ORD-1", w.buyer, w.seller, order.Processing)
	w.softDelete(t, o)

	h := queries.NewGetOrderDetailsQueryHandler(w.factory)
	for _, id := range []kernel.UUID{o.ID(), kernel.NewUUID()} {
		query, err := queries.NewGetOrderDetailsQuery(w.admin.Principal(), id)
		require.NoError(t, err)
		_, err = h.Handle(ctx, query)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	}
}

func TestGetStatsQueryHandler(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)
	h := queries.NewGetStatsQueryHandler(w.factory)
	query, err := queries.NewGetStatsQuery(w.admin.Principal())
	require.NoError(t, err)

	empty, err := h.Handle(ctx, query)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalOrders)
	assert.Empty(t, empty.OrdersByStage)
	assert.Zero(t, empty.AvgDeliveryTime)

	second := w.register(t, "Bob", "bob@example.com", identity.RoleBuyer)
	third := w.register(t, "Bo", "bo@example.com", identity.RoleBuyer)
	w.place(t, "ORD-1", w.buyer, w.seller, order.Delivered)
	w.place(t, "ORD-2", second, w.seller, order.Packed)
	w.softDelete(t, w.place(t, "ORD-3", third, w.seller, order.Delivered))

	stats, err := h.Handle(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, []queries.StageCount{
		{Stage: order.Packed, Count: 1},
		{Stage: order.Delivered, Count: 1},
	}, stats.OrdersByStage)
	// two association minutes and four one-hour advances
	assert.Equal(t, 4*time.Hour+2*time.Minute, stats.AvgDeliveryTime)
}

func TestListIdentitiesQueryHandler(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)
	w.register(t, "Al", "al@example.com", identity.RoleBuyer)

	h := queries.NewListIdentitiesQueryHandler(w.factory)
	query, err := queries.NewListIdentitiesQuery(w.admin.Principal(), identity.RoleBuyer)
	require.NoError(t, err)

	resp, err := h.Handle(ctx, query)
	require.NoError(t, err)
	require.Len(t, resp.Identities, 2)
	assert.Equal(t, "Al", resp.Identities[0].Name)
	assert.Equal(t, "Bea", resp.Identities[1].Name)

	_, err = queries.NewListIdentitiesQuery(w.buyer.Principal(), identity.RoleSeller)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestGetProfileQueryHandler(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)
	h := queries.NewGetProfileQueryHandler(w.factory)

	query, err := queries.NewGetProfileQuery(w.seller.Principal())
	require.NoError(t, err)
	profile, err := h.Handle(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", profile.Email)
	assert.Equal(t, identity.RoleSeller, profile.Role)

	ghost, err := queries.NewGetProfileQuery(identity.Principal{ID: kernel.NewUUID(), Role: identity.RoleBuyer})
	require.NoError(t, err)
	_, err = h.Handle(ctx, ghost)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = queries.NewGetProfileQuery(identity.Principal{})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

type MockPasswordHasher struct{ mock.Mock }

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) Issue(p identity.Principal) (string, time.Time, error) {
	args := m.Called(p)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func TestLoginQueryHandler(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)
	expires := placedAt.Add(time.Hour)

	hasher := new(MockPasswordHasher)
	issuer := new(MockTokenIssuer)
	hasher.On("Compare", "hash", "secret").Return(nil).Once()
	issuer.On("Issue", w.buyer.Principal()).Return("signed", expires, nil).Once()

	h := queries.NewLoginQueryHandler(w.factory, hasher, issuer)
	query, err := queries.NewLoginQuery(" BEA@example.com ", "secret")
	require.NoError(t, err)

	resp, err := h.Handle(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "signed", resp.Token)
	assert.Equal(t, expires, resp.ExpiresAt)
	assert.Equal(t, "Bea", resp.Profile.Name)
	hasher.AssertExpectations(t)
	issuer.AssertExpectations(t)
}

func TestLoginQueryHandler_InvalidCredentials(t *testing.T) {
	ctx := t.Context()
	w := newWorld(t)

	hasher := new(MockPasswordHasher)
	issuer := new(MockTokenIssuer)
	hasher.On("Compare", "hash", "wrong").Return(errs.NewUnauthorizedError("password mismatch")).Once()
	h := queries.NewLoginQueryHandler(w.factory, hasher, issuer)

	wrongPassword, _ := queries.NewLoginQuery("bea@example.com", "wrong")
	_, err := h.Handle(ctx, wrongPassword)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	unknownEmail, _ := queries.NewLoginQuery("nobody@example.com", "secret")
	_, errUnknown := h.Handle(ctx, unknownEmail)
	require.ErrorIs(t, errUnknown, errs.ErrUnauthorized)
	assert.Equal(t, err.Error(), errUnknown.Error(), "both failures read the same")

	issuer.AssertNotCalled(t, "Issue", mock.Anything)
	hasher.AssertExpectations(t)
}

func TestLoginQueryHandler_HasherFailureIsNotUnauthorized(t *testing.T) {
	w := newWorld(t)
	hasher := new(MockPasswordHasher)
	hasher.On("Compare", "hash", "secret").Return(errors.New("boom")).Once()

	h := queries.NewLoginQueryHandler(w.factory, hasher, new(MockTokenIssuer))
	query, _ := queries.NewLoginQuery("bea@example.com", "secret")
	_, err := h.Handle(t.Context(), query)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrUnauthorized)
}

func TestNewLoginQuery_RequiresFields(t *testing.T) {
	_, err := queries.NewLoginQuery("  ", "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
