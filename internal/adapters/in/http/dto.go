package http

import (
	"time"

	"ordertracker/internal/core/application/usecases/queries"
	"ordertracker/internal/core/application/views"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type RegisterResponse struct {
	Message string        `json:"message"`
	User    views.Profile `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      views.Profile `json:"user"`
}

type ProfileResponse struct {
	User views.Profile `json:"user"`
}

type CreateOrderRequest struct {
	Items   []string            `json:"items"`
	BuyerID *openapi_types.UUID `json:"buyerId,omitempty"`
}

type AssociateBuyerRequest struct {
	BuyerID openapi_types.UUID `json:"buyerId"`
}

type AssociateSellerRequest struct {
	SellerID openapi_types.UUID `json:"sellerId"`
}

// OrderResponse carries a null order when the caller has none.
type OrderResponse struct {
	Order *views.Order `json:"order"`
}

type OrdersResponse struct {
	Orders []views.Order `json:"orders"`
}

type OrderDetailsResponse struct {
	Order views.Order        `json:"order"`
	Logs  []views.AuditEntry `json:"logs"`
	// StageDurations are milliseconds.
	StageDurations map[string]int64 `json:"stageDurations"`
}

type BuyersResponse struct {
	Buyers []views.Party `json:"buyers"`
}

type SellersResponse struct {
	Sellers []views.Party `json:"sellers"`
}

type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

type StatsResponse struct {
	TotalOrders   int          `json:"totalOrders"`
	OrdersByStage []StageCount `json:"ordersByStage"`
	// AvgDeliveryTime is milliseconds, 0 when nothing was delivered.
	AvgDeliveryTime int64 `json:"avgDeliveryTime"`
}

func newOrderDetailsResponse(r queries.GetOrderDetailsQueryResponse) OrderDetailsResponse {
	durations := make(map[string]int64, len(r.StageDurations))
	for k, d := range r.StageDurations {
		durations[k] = d.Milliseconds()
	}
	logs := r.Logs
	if logs == nil {
		logs = []views.AuditEntry{}
	}
	return OrderDetailsResponse{Order: r.Order, Logs: logs, StageDurations: durations}
}

func newStatsResponse(r queries.GetStatsQueryResponse) StatsResponse {
	byStage := make([]StageCount, 0, len(r.OrdersByStage))
	for _, sc := range r.OrdersByStage {
		byStage = append(byStage, StageCount{Stage: sc.Stage.String(), Count: sc.Count})
	}
	return StatsResponse{
		TotalOrders:     r.TotalOrders,
		OrdersByStage:   byStage,
		AvgDeliveryTime: r.AvgDeliveryTime.Milliseconds(),
	}
}

func nonNilOrders(orders []views.Order) []views.Order {
	if orders == nil {
		return []views.Order{}
	}
	return orders
}

func nonNilParties(parties []views.Party) []views.Party {
	if parties == nil {
		return []views.Party{}
	}
	return parties
}
