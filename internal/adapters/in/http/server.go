package http

import (
	"net/http"

	"ordertracker/internal/core/application/usecases/commands"
	"ordertracker/internal/core/application/usecases/queries"
	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"
	"ordertracker/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	RegisterIdentity commands.RegisterIdentityCommandHandler
	CreateOrder      commands.CreateOrderCommandHandler
	AssociateBuyer   commands.AssociateBuyerCommandHandler
	AssociateSeller  commands.AssociateSellerCommandHandler
	AdvanceStage     commands.AdvanceStageCommandHandler
	SoftDeleteOrder  commands.SoftDeleteOrderCommandHandler

	Login           queries.LoginQueryHandler
	GetProfile      queries.GetProfileQueryHandler
	GetBuyerOrder   queries.GetBuyerActiveOrderQueryHandler
	ListOrders      queries.ListOrdersQueryHandler
	GetOrderDetails queries.GetOrderDetailsQueryHandler
	ListIdentities  queries.ListIdentitiesQueryHandler
	GetStats        queries.GetStatsQueryHandler
}

// Server maps HTTP requests onto commands and queries. Orders returned by
// commands are rendered through the identity repository so responses match
// the realtime snapshots.
type Server struct {
	h          Handlers
	uowFactory ports.UnitOfWorkFactory
	metrics    *metrics.Metrics
}

func NewServer(h Handlers, uowFactory ports.UnitOfWorkFactory, m *metrics.Metrics) *Server {
	return &Server{h: h, uowFactory: uowFactory, metrics: m}
}

func (s *Server) render(c echo.Context, o *order.Order) (views.Order, error) {
	return views.NewResolver(s.uowFactory.Create().IdentityRepository()).Order(c.Request().Context(), o)
}

func (s *Server) observe(operation string, err error) {
	s.metrics.OrderOperation(operation, outcomeOf(err))
}

// orderIDParam binds the :id path segment.
func orderIDParam(c echo.Context) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromBytes(id[:])
}

func bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

func optionalUUID(id *openapi_types.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Register handles POST /api/auth/register.
func (s *Server) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRegisterIdentityCommand(req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	registered, err := s.h.RegisterIdentity.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		User:    views.NewProfile(registered),
	})
}

// Login handles POST /api/auth/login.
func (s *Server) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	query, err := queries.NewLoginQuery(req.Email, req.Password)
	if err != nil {
		return err
	}
	resp, err := s.h.Login.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: resp.Token, ExpiresAt: resp.ExpiresAt, User: resp.Profile})
}

// GetProfile handles GET /api/auth/profile.
func (s *Server) GetProfile(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetProfileQuery(principal)
	if err != nil {
		return err
	}
	profile, err := s.h.GetProfile.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProfileResponse{User: profile})
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	buyerID, err := optionalUUID(req.BuyerID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewCreateOrderCommand(principal, req.Items, buyerID)
	if err != nil {
		return err
	}

	created, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	s.observe("create_order", err)
	if err != nil {
		return err
	}
	return s.respondOrder(c, http.StatusCreated, created)
}

// GetBuyerOrder handles GET /api/orders/buyer.
func (s *Server) GetBuyerOrder(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetBuyerActiveOrderQuery(principal)
	if err != nil {
		return err
	}
	resp, err := s.h.GetBuyerOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, OrderResponse{Order: resp.Order})
}

// ListSellerOrders handles GET /api/orders/seller.
func (s *Server) ListSellerOrders(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListSellerOrdersQuery(principal)
	if err != nil {
		return err
	}
	return s.listOrders(c, query)
}

// ListAllOrders handles GET /api/admin/orders.
func (s *Server) ListAllOrders(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListAllOrdersQuery(principal)
	if err != nil {
		return err
	}
	return s.listOrders(c, query)
}

func (s *Server) listOrders(c echo.Context, query queries.ListOrdersQuery) error {
	resp, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, OrdersResponse{Orders: nonNilOrders(resp.Orders)})
}

// AdvanceStage handles PUT /api/orders/:id/next-stage.
func (s *Server) AdvanceStage(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAdvanceStageCommand(orderID, principal)
	if err != nil {
		return err
	}

	advanced, err := s.h.AdvanceStage.Handle(c.Request().Context(), cmd)
	s.observe("advance_stage", err)
	if err != nil {
		return err
	}
	return s.respondOrder(c, http.StatusOK, advanced)
}

// DeleteOrder handles DELETE /api/orders/:id.
func (s *Server) DeleteOrder(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSoftDeleteOrderCommand(orderID, principal)
	if err != nil {
		return err
	}

	err = s.h.SoftDeleteOrder.Handle(c.Request().Context(), cmd)
	s.observe("soft_delete", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Order deleted"})
}

// AssociateBuyer handles PUT /api/admin/orders/:id/associate-buyer.
func (s *Server) AssociateBuyer(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req AssociateBuyerRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	buyerID, err := kernel.UUIDFromBytes(req.BuyerID[:])
	if err != nil {
		return err
	}
	cmd, err := commands.NewAssociateBuyerCommand(orderID, principal, buyerID)
	if err != nil {
		return err
	}

	updated, err := s.h.AssociateBuyer.Handle(c.Request().Context(), cmd)
	s.observe("associate_buyer", err)
	if err != nil {
		return err
	}
	return s.respondOrder(c, http.StatusOK, updated)
}

// AssociateSeller handles PUT /api/admin/orders/:id/associate-seller.
func (s *Server) AssociateSeller(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req AssociateSellerRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	sellerID, err := kernel.UUIDFromBytes(req.SellerID[:])
	if err != nil {
		return err
	}
	cmd, err := commands.NewAssociateSellerCommand(orderID, principal, sellerID)
	if err != nil {
		return err
	}

	updated, err := s.h.AssociateSeller.Handle(c.Request().Context(), cmd)
	s.observe("associate_seller", err)
	if err != nil {
		return err
	}
	return s.respondOrder(c, http.StatusOK, updated)
}

// GetOrderDetails handles GET /api/admin/orders/:id/details.
func (s *Server) GetOrderDetails(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderDetailsQuery(principal, orderID)
	if err != nil {
		return err
	}
	resp, err := s.h.GetOrderDetails.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderDetailsResponse(resp))
}

// ListBuyers handles GET /api/admin/buyers.
func (s *Server) ListBuyers(c echo.Context) error {
	parties, err := s.listIdentities(c, identity.RoleBuyer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BuyersResponse{Buyers: parties})
}

// ListSellers handles GET /api/admin/sellers.
func (s *Server) ListSellers(c echo.Context) error {
	parties, err := s.listIdentities(c, identity.RoleSeller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SellersResponse{Sellers: parties})
}

func (s *Server) listIdentities(c echo.Context, role identity.Role) ([]views.Party, error) {
	principal, err := principalFrom(c)
	if err != nil {
		return nil, err
	}
	query, err := queries.NewListIdentitiesQuery(principal, role)
	if err != nil {
		return nil, err
	}
	resp, err := s.h.ListIdentities.Handle(c.Request().Context(), query)
	if err != nil {
		return nil, err
	}
	return nonNilParties(resp.Identities), nil
}

// GetStats handles GET /api/admin/stats.
func (s *Server) GetStats(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetStatsQuery(principal)
	if err != nil {
		return err
	}
	resp, err := s.h.GetStats.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newStatsResponse(resp))
}

func (s *Server) respondOrder(c echo.Context, status int, o *order.Order) error {
	rendered, err := s.render(c, o)
	if err != nil {
		return err
	}
	return c.JSON(status, OrderResponse{Order: &rendered})
}
