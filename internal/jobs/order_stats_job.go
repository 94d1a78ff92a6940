package jobs

import (
	"context"
	"time"

	"ordertracker/internal/core/application/usecases/queries"
	"ordertracker/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OrderStatsJob refreshes the order gauges exported on /metrics.
type OrderStatsJob struct {
	handler  queries.GetStatsQueryHandler
	metrics  *metrics.Metrics
	schedule string
	timeout  time.Duration
	now      func() time.Time
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewOrderStatsJob(
	handler queries.GetStatsQueryHandler,
	m *metrics.Metrics,
	schedule string,
	timeout time.Duration,
	logger *zap.Logger,
) *OrderStatsJob {
	return &OrderStatsJob{
		handler:  handler,
		metrics:  m,
		schedule: schedule,
		timeout:  timeout,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.Named("order_stats_job"),
	}
}

// Run computes the statistics once.
func (j *OrderStatsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	stats, err := j.handler.Handle(ctx, queries.NewSystemStatsQuery())
	if err != nil {
		return err
	}

	counts := make(map[string]int, len(stats.OrdersByStage))
	for _, sc := range stats.OrdersByStage {
		counts[sc.Stage.String()] = sc.Count
	}
	j.metrics.SetOrderStats(counts, stats.AvgDeliveryTime, j.now())
	return nil
}

func (j *OrderStatsJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if err := j.Run(context.Background()); err != nil {
			j.logger.Error("order stats refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("order stats job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running refresh to finish.
func (j *OrderStatsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("order stats job stopped")
}
