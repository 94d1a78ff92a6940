package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "ordertracker/internal/adapters/out/postgres"
	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite covers transactions spanning the order,
// identity and audit repositories.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	now       time.Time
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE identities, orders, order_stage_entries, order_audit_entries").Error
	suite.Require().NoError(err)
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newIdentity(email string, role identity.Role) *identity.Identity {
	i, err := identity.NewIdentity(kernel.NewUUID(), "Name "+email, email, "hash", role, suite.now)
	suite.Require().NoError(err)
	return i
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsOrderAndAuditTogether() {
	ctx := context.Background()
	buyer := suite.newIdentity("buyer@example.com", identity.RoleBuyer)
	buyerID := buyer.ID()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1", []string{"item"}, &buyerID, suite.now)
	suite.Require().NoError(err)
	entry, err := audit.NewEntry(o.ID(), audit.OrderCreated(), buyerID, suite.now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.IdentityRepository().Add(ctx, buyer))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.AuditRepository().Add(ctx, entry))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	stored, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(stored.IsBoughtBy(buyerID))

	trail, err := reader.AuditRepository().ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(trail, 1)
	suite.Equal("Order Created", trail[0].Action().String())
	suite.True(trail[0].PerformedBy().IsEqual(buyerID))

	found, err := reader.IdentityRepository().GetByEmail(ctx, "BUYER@example.com")
	suite.Require().NoError(err)
	suite.True(found.ID().IsEqual(buyerID))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEveryWrite() {
	ctx := context.Background()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-2", []string{"item"}, nil, suite.now)
	suite.Require().NoError(err)
	entry, err := audit.NewEntry(o.ID(), audit.OrderCreated(), kernel.NewUUID(), suite.now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.AuditRepository().Add(ctx, entry))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	trail, err := suite.factory.Create().AuditRepository().ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Empty(trail)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_Fails() {
	suite.Error(suite.factory.Create().Commit(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIdentityRepository_EmailIsUnique() {
	ctx := context.Background()
	repo := suite.factory.Create().IdentityRepository()
	suite.Require().NoError(repo.Add(ctx, suite.newIdentity("same@example.com", identity.RoleBuyer)))

	err := repo.Add(ctx, suite.newIdentity("same@example.com", identity.RoleSeller))

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)
	suite.Contains(err.Error(), "email is already registered")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIdentityRepository_ListAndResolve() {
	ctx := context.Background()
	repo := suite.factory.Create().IdentityRepository()
	seller := suite.newIdentity("seller@example.com", identity.RoleSeller)
	buyer := suite.newIdentity("buyer@example.com", identity.RoleBuyer)
	suite.Require().NoError(repo.Add(ctx, seller))
	suite.Require().NoError(repo.Add(ctx, buyer))

	sellers, err := repo.ListByRole(ctx, identity.RoleSeller)
	suite.Require().NoError(err)
	suite.Require().Len(sellers, 1)
	suite.Equal("seller@example.com", sellers[0].Email())

	unknown := kernel.NewUUID()
	resolved, err := repo.GetMany(ctx, []kernel.UUID{seller.ID(), buyer.ID(), unknown})
	suite.Require().NoError(err)
	suite.Len(resolved, 2)
	suite.NotContains(resolved, unknown)

	_, err = repo.Get(ctx, unknown)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
