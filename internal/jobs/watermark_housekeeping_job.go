package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// WatermarkPruner forgets per-order publish watermarks idle for longer than idle.
type WatermarkPruner interface {
	PruneWatermarks(idle time.Duration) int
}

// WatermarkHousekeepingJob keeps the realtime hub's watermark table bounded
// to orders that changed recently.
type WatermarkHousekeepingJob struct {
	pruner   WatermarkPruner
	idle     time.Duration
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewWatermarkHousekeepingJob(pruner WatermarkPruner, idle time.Duration, schedule string, logger *zap.Logger) *WatermarkHousekeepingJob {
	return &WatermarkHousekeepingJob{
		pruner:   pruner,
		idle:     idle,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.Named("watermark_housekeeping_job"),
	}
}

// Run prunes once and returns how many watermarks were dropped.
func (j *WatermarkHousekeepingJob) Run() int {
	pruned := j.pruner.PruneWatermarks(j.idle)
	if pruned > 0 {
		j.logger.Debug("idle watermarks pruned", zap.Int("count", pruned))
	}
	return pruned
}

func (j *WatermarkHousekeepingJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run() }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("watermark housekeeping job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *WatermarkHousekeepingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("watermark housekeeping job stopped")
}
