package commands_test

import (
	"context"
	"time"

	"ordertracker/internal/core/application/usecases/commands"
	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindActiveByBuyer(ctx context.Context, buyerID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, buyerID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListActiveBySeller(ctx context.Context, sellerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, sellerID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) CountActiveByStage(ctx context.Context) (map[order.Stage]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[order.Stage]int)
	return counts, args.Error(1)
}

func (m *MockOrderRepository) AverageDeliveryDuration(ctx context.Context) (time.Duration, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Duration), args.Error(1)
}

type MockIdentityRepository struct{ mock.Mock }

func (m *MockIdentityRepository) Add(ctx context.Context, i *identity.Identity) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIdentityRepository) Get(ctx context.Context, id kernel.UUID) (*identity.Identity, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*identity.Identity)
	return i, args.Error(1)
}

func (m *MockIdentityRepository) GetByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	args := m.Called(ctx, email)
	i, _ := args.Get(0).(*identity.Identity)
	return i, args.Error(1)
}

func (m *MockIdentityRepository) ListByRole(ctx context.Context, role identity.Role) ([]*identity.Identity, error) {
	args := m.Called(ctx, role)
	list, _ := args.Get(0).([]*identity.Identity)
	return list, args.Error(1)
}

func (m *MockIdentityRepository) GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*identity.Identity, error) {
	args := m.Called(ctx, ids)
	found, _ := args.Get(0).(map[kernel.UUID]*identity.Identity)
	return found, args.Error(1)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Add(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*audit.Entry, error) {
	args := m.Called(ctx, orderID)
	entries, _ := args.Get(0).([]*audit.Entry)
	return entries, args.Error(1)
}

// MockUoW hands out fixed repositories; only the transaction calls are
// recorded as expectations.
type MockUoW struct {
	mock.Mock

	orders     ports.OrderRepository
	identities ports.IdentityRepository
	audits     ports.AuditRepository
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository       { return m.orders }
func (m *MockUoW) IdentityRepository() ports.IdentityRepository { return m.identities }
func (m *MockUoW) AuditRepository() ports.AuditRepository       { return m.audits }

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockIdentityUoWFactory struct{ mock.Mock }

func (m *MockIdentityUoWFactory) Create() commands.IdentityUoW {
	args := m.Called()
	return args.Get(0).(commands.IdentityUoW)
}

type MockOrderNotifier struct{ mock.Mock }

func (m *MockOrderNotifier) NotifyOrderChanged(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderNotifier) RetireOrder(orderID kernel.UUID) {
	m.Called(orderID)
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

type FixedCodes struct{ code order.Code }

func (f FixedCodes) Next() order.Code { return f.code }

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fixture bundles a mocked unit of work with its repositories.
type fixture struct {
	orders     *MockOrderRepository
	identities *MockIdentityRepository
	audits     *MockAuditRepository
	uow        *MockUoW
	factory    *MockUoWFactory
	notifier   *MockOrderNotifier
}

func newFixture() *fixture {
	f := &fixture{
		orders:     new(MockOrderRepository),
		identities: new(MockIdentityRepository),
		audits:     new(MockAuditRepository),
		factory:    new(MockUoWFactory),
		notifier:   new(MockOrderNotifier),
	}
	f.uow = &MockUoW{orders: f.orders, identities: f.identities, audits: f.audits}
	f.factory.On("Create").Return(f.uow).Once()
	return f
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.orders.AssertExpectations(t)
	f.identities.AssertExpectations(t)
	f.audits.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func principal(role identity.Role) identity.Principal {
	return identity.Principal{ID: kernel.NewUUID(), Role: role}
}

func newIdentity(role identity.Role) *identity.Identity {
	i, err := identity.NewIdentity(kernel.NewUUID(), role.String(), role.String()+"-"+kernel.NewUUID().String()+"@example.com", "hash", role, testNow)
	if err != nil {
		panic(err)
	}
	return i
}

func newOrder(buyer *kernel.UUID) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-TEST", []string{"item1"}, buyer, testNow.Add(-time.Hour))
	if err != nil {
		panic(err)
	}
	return o
}

// storedOrder round-trips o through its state so it looks freshly loaded.
func storedOrder(o *order.Order) *order.Order {
	restored, err := order.RestoreOrder(o.State())
	if err != nil {
		panic(err)
	}
	return restored
}

// processingOrder returns a loaded order at Processing bound to seller.
func processingOrder(seller kernel.UUID) *order.Order {
	buyer := kernel.NewUUID()
	o := newOrder(&buyer)
	if err := o.AssociateBuyer(buyer, testNow.Add(-50*time.Minute)); err != nil {
		panic(err)
	}
	if err := o.AssociateSeller(seller, testNow.Add(-40*time.Minute)); err != nil {
		panic(err)
	}
	return storedOrder(o)
}
