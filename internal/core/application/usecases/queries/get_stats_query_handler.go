package queries

import (
	"context"

	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
)

type GetStatsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetStatsQueryHandler(uowFactory ports.UnitOfWorkFactory) GetStatsQueryHandler {
	return GetStatsQueryHandler{uowFactory: uowFactory}
}

func (h GetStatsQueryHandler) Handle(ctx context.Context, query GetStatsQuery) (GetStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStatsQueryResponse{}, err
	}

	repo := h.uowFactory.Create().OrderRepository()
	counts, err := repo.CountActiveByStage(ctx)
	if err != nil {
		return GetStatsQueryResponse{}, err
	}
	avg, err := repo.AverageDeliveryDuration(ctx)
	if err != nil {
		return GetStatsQueryResponse{}, err
	}

	resp := GetStatsQueryResponse{
		OrdersByStage:   make([]StageCount, 0, len(counts)),
		AvgDeliveryTime: avg,
	}
	for _, stage := range order.Stages() {
		if n := counts[stage]; n > 0 {
			resp.TotalOrders += n
			resp.OrdersByStage = append(resp.OrdersByStage, StageCount{Stage: stage, Count: n})
		}
	}
	return resp, nil
}
