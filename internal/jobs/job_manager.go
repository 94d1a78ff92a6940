package jobs

import "fmt"

// JobManager starts and stops every background job together.
type JobManager struct {
	orderStatsJob   *OrderStatsJob
	housekeepingJob *WatermarkHousekeepingJob
}

func NewJobManager(orderStatsJob *OrderStatsJob, housekeepingJob *WatermarkHousekeepingJob) *JobManager {
	return &JobManager{
		orderStatsJob:   orderStatsJob,
		housekeepingJob: housekeepingJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderStatsJob.Start(); err != nil {
		return fmt.Errorf("failed to start order stats job: %w", err)
	}

	if err := jm.housekeepingJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.orderStatsJob.Stop()
		return fmt.Errorf("failed to start watermark housekeeping job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs, waiting for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.housekeepingJob.Stop()
	jm.orderStatsJob.Stop()
}
