package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpadapter "ordertracker/internal/adapters/in/http"
	"ordertracker/internal/adapters/in/ws"
	"ordertracker/internal/adapters/out/credentials"
	"ordertracker/internal/adapters/out/memory"
	"ordertracker/internal/adapters/out/postgres"
	"ordertracker/internal/adapters/out/realtime"
	"ordertracker/internal/core/application/usecases/commands"
	"ordertracker/internal/core/application/usecases/queries"
	"ordertracker/internal/core/domain/services"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/jobs"
	"ordertracker/internal/pkg/errs"
	"ordertracker/internal/pkg/metrics"
	"ordertracker/internal/pkg/origins"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// statsTimeout bounds one run of the stats job.
const statsTimeout = 10 * time.Second

type CompositionRoot struct {
	cfg        Config
	logger     *zap.Logger
	metrics    *metrics.Metrics
	uowFactory ports.UnitOfWorkFactory
	origins    origins.AllowList

	hub      *realtime.Hub
	notifier *realtime.OrderNotifier
	tokens   *credentials.TokenService
	hasher   credentials.BcryptHasher
	codes    *services.OrderCodeGenerator
	clock    commands.Clock
}

// OpenStore connects the configured entity store. The returned closer
// releases its resources.
func OpenStore(cfg Config, logger *zap.Logger) (ports.UnitOfWorkFactory, func() error, error) {
	if cfg.StoreDriver == StoreDriverMemory {
		logger.Warn("using the in-memory store, data is lost on restart")
		return memory.NewUnitOfWorkFactory(memory.NewStore()), func() error { return nil }, nil
	}

	db, err := gorm.Open(gormpostgres.Open(cfg.PostgresDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if cfg.DBAutoMigrate {
		if err = postgres.Migrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrating schema: %w", err)
		}
	}
	logger.Info("database connected", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
	return postgres.NewGormUnitOfWorkFactory(db), sqlDB.Close, nil
}

func NewCompositionRoot(cfg Config, uowFactory ports.UnitOfWorkFactory, m *metrics.Metrics, logger *zap.Logger) (*CompositionRoot, error) {
	tokens, err := credentials.NewTokenService(cfg.AuthSecret, cfg.AuthTokenTTL, time.Now)
	if err != nil {
		return nil, err
	}
	hub := realtime.NewHub(cfg.WSSendBuffer, m, logger.Named("realtime"))

	return &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
		uowFactory: uowFactory,
		origins:    origins.Parse(cfg.AllowedOrigins),
		hub:        hub,
		notifier:   realtime.NewOrderNotifier(hub, uowFactory, logger.Named("notifier")),
		tokens:     tokens,
		hasher:     credentials.NewBcryptHasher(cfg.BcryptCost),
		codes:      services.NewOrderCodeGenerator(time.Now),
		clock:      time.Now,
	}, nil
}

func (c *CompositionRoot) Hub() *realtime.Hub {
	return c.hub
}

func (c *CompositionRoot) commandUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateRegisterIdentityCommandHandler() commands.RegisterIdentityCommandHandler {
	var f commands.IdentityUoWFactory = FuncIdentityUoWFactory(func() commands.IdentityUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterIdentityCommandHandler(f, c.hasher, c.clock, c.logger.Named("register_identity"))
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.commandUoWFactory(), c.codes, c.notifier, c.clock, c.logger.Named("create_order"))
}

func (c *CompositionRoot) CreateAssociateBuyerCommandHandler() commands.AssociateBuyerCommandHandler {
	return commands.NewAssociateBuyerCommandHandler(c.commandUoWFactory(), c.notifier, c.clock, c.logger.Named("associate_buyer"))
}

func (c *CompositionRoot) CreateAssociateSellerCommandHandler() commands.AssociateSellerCommandHandler {
	return commands.NewAssociateSellerCommandHandler(c.commandUoWFactory(), c.notifier, c.clock, c.logger.Named("associate_seller"))
}

func (c *CompositionRoot) CreateAdvanceStageCommandHandler() commands.AdvanceStageCommandHandler {
	return commands.NewAdvanceStageCommandHandler(c.commandUoWFactory(), c.notifier, c.clock, c.logger.Named("advance_stage"))
}

func (c *CompositionRoot) CreateSoftDeleteOrderCommandHandler() commands.SoftDeleteOrderCommandHandler {
	return commands.NewSoftDeleteOrderCommandHandler(c.commandUoWFactory(), c.notifier, c.clock, c.logger.Named("soft_delete_order"))
}

func (c *CompositionRoot) CreateLoginQueryHandler() queries.LoginQueryHandler {
	return queries.NewLoginQueryHandler(c.uowFactory, c.hasher, c.tokens)
}

func (c *CompositionRoot) CreateGetProfileQueryHandler() queries.GetProfileQueryHandler {
	return queries.NewGetProfileQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetBuyerActiveOrderQueryHandler() queries.GetBuyerActiveOrderQueryHandler {
	return queries.NewGetBuyerActiveOrderQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetOrderDetailsQueryHandler() queries.GetOrderDetailsQueryHandler {
	return queries.NewGetOrderDetailsQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListIdentitiesQueryHandler() queries.ListIdentitiesQueryHandler {
	return queries.NewListIdentitiesQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetStatsQueryHandler() queries.GetStatsQueryHandler {
	return queries.NewGetStatsQueryHandler(c.uowFactory)
}

// CreateRouter wires the REST API, the realtime endpoint and the ops routes.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpadapter.NewServer(httpadapter.Handlers{
		RegisterIdentity: c.CreateRegisterIdentityCommandHandler(),
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		AssociateBuyer:   c.CreateAssociateBuyerCommandHandler(),
		AssociateSeller:  c.CreateAssociateSellerCommandHandler(),
		AdvanceStage:     c.CreateAdvanceStageCommandHandler(),
		SoftDeleteOrder:  c.CreateSoftDeleteOrderCommandHandler(),
		Login:            c.CreateLoginQueryHandler(),
		GetProfile:       c.CreateGetProfileQueryHandler(),
		GetBuyerOrder:    c.CreateGetBuyerActiveOrderQueryHandler(),
		ListOrders:       c.CreateListOrdersQueryHandler(),
		GetOrderDetails:  c.CreateGetOrderDetailsQueryHandler(),
		ListIdentities:   c.CreateListIdentitiesQueryHandler(),
		GetStats:         c.CreateGetStatsQueryHandler(),
	}, c.uowFactory, c.metrics)

	wsConfig := ws.DefaultConfig()
	wsConfig.MessagesPerSecond = c.cfg.WSMessagesPerSecond
	wsConfig.Burst = c.cfg.WSBurst
	realtimeHandler := ws.NewHandler(c.hub, c.tokens, c.origins, wsConfig, c.logger.Named("ws"))

	return httpadapter.NewRouter(server, c.tokens, realtimeHandler, c.metrics, httpadapter.RouterConfig{
		Origins:          c.origins,
		RequestTimeout:   c.cfg.RequestTimeout,
		ValidateRequests: c.cfg.OpenAPIValidation,
	}, c.logger.Named("http"))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewOrderStatsJob(c.CreateGetStatsQueryHandler(), c.metrics, c.cfg.StatsSchedule, statsTimeout, c.logger),
		jobs.NewWatermarkHousekeepingJob(c.hub, c.cfg.WatermarkIdle, c.cfg.HousekeepingSchedule, c.logger),
	)
}

// BootstrapAdmin registers the configured administrator unless that email is
// already taken. Admins cannot sign up through the API.
func (c *CompositionRoot) BootstrapAdmin(ctx context.Context) error {
	if c.cfg.AdminEmail == "" {
		c.logger.Warn("no ADMIN_EMAIL configured, admin routes are unreachable until one exists")
		return nil
	}

	cmd, err := commands.NewRegisterAdminCommand(c.cfg.AdminName, c.cfg.AdminEmail, c.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}
	_, err = c.uowFactory.Create().IdentityRepository().GetByEmail(ctx, cmd.Email())
	switch {
	case err == nil:
		c.logger.Info("admin already registered", zap.String("email", cmd.Email()))
		return nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Errorf("admin bootstrap: %w", err)
	}

	handler := c.CreateRegisterIdentityCommandHandler()
	if _, err = handler.Handle(ctx, cmd); err != nil && !errors.Is(err, errs.ErrConflict) {
		return fmt.Errorf("admin bootstrap: %w", err)
	}
	return nil
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncIdentityUoWFactory func() commands.IdentityUoW

func (f FuncIdentityUoWFactory) Create() commands.IdentityUoW {
	return f()
}
