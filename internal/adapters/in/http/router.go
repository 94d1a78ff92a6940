package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ordertracker/api"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/metrics"
	"ordertracker/internal/pkg/origins"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 15 * time.Second

type RouterConfig struct {
	Origins        origins.AllowList
	RequestTimeout time.Duration
	// ValidateRequests turns on OpenAPI request validation for /api routes.
	ValidateRequests bool
}

// LoadOpenAPI parses and validates the embedded document.
func LoadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// NewRouter assembles the echo instance serving the REST API, the realtime
// endpoint and the operational routes.
func NewRouter(
	server *Server,
	auth ports.Authenticator,
	realtime http.Handler,
	m *metrics.Metrics,
	cfg RouterConfig,
	logger *zap.Logger,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))
	e.Use(Metrics(m))
	e.Use(CORS(cfg.Origins)...)

	var validator echo.MiddlewareFunc
	if cfg.ValidateRequests {
		doc, err := LoadOpenAPI(context.Background())
		if err != nil {
			return nil, err
		}
		if validator, err = OpenAPIValidator(doc); err != nil {
			return nil, err
		}
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", api.OpenAPI)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))
	e.GET("/ws", echo.WrapHandler(realtime))

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	RegisterHandlers(e.Group("/api", Timeout(timeout)), server, auth, validator)
	return e, nil
}

// RegisterHandlers mounts the REST routes on g. validator may be nil.
func RegisterHandlers(g *echo.Group, s *Server, auth ports.Authenticator, validator echo.MiddlewareFunc) {
	public := chain(validator)
	as := func(roles ...identity.Role) []echo.MiddlewareFunc {
		mw := []echo.MiddlewareFunc{Authenticate(auth)}
		if len(roles) > 0 {
			mw = append(mw, RequireRole(roles...))
		}
		return append(mw, chain(validator)...)
	}

	g.POST("/auth/register", s.Register, public...)
	g.POST("/auth/login", s.Login, public...)
	g.GET("/auth/profile", s.GetProfile, as()...)

	g.POST("/orders", s.CreateOrder, as(identity.RoleBuyer, identity.RoleAdmin)...)
	g.GET("/orders/buyer", s.GetBuyerOrder, as(identity.RoleBuyer)...)
	g.GET("/orders/seller", s.ListSellerOrders, as(identity.RoleSeller)...)
	g.PUT("/orders/:id/next-stage", s.AdvanceStage, as(identity.RoleSeller)...)
	g.DELETE("/orders/:id", s.DeleteOrder, as(identity.RoleSeller)...)

	g.GET("/admin/orders", s.ListAllOrders, as(identity.RoleAdmin)...)
	g.PUT("/admin/orders/:id/associate-buyer", s.AssociateBuyer, as(identity.RoleAdmin)...)
	g.PUT("/admin/orders/:id/associate-seller", s.AssociateSeller, as(identity.RoleAdmin)...)
	g.GET("/admin/orders/:id/details", s.GetOrderDetails, as(identity.RoleAdmin)...)
	g.GET("/admin/buyers", s.ListBuyers, as(identity.RoleAdmin)...)
	g.GET("/admin/sellers", s.ListSellers, as(identity.RoleAdmin)...)
	g.GET("/admin/stats", s.GetStats, as(identity.RoleAdmin)...)
}

func chain(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mw))
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
