// Package jobs provides scheduled background tasks for the order tracker.
//
// Jobs are cron based (github.com/robfig/cron/v3, six-field specs with seconds)
// and only read or tidy state; no job changes an order.
//
// # Available Jobs
//
// 1. OrderStatsJob - recomputes order counts by stage and the average delivery
// time and publishes them as Prometheus gauges
// 2. WatermarkHousekeepingJob - drops realtime publish watermarks of orders
// that have not changed for a while
//
// # Usage
//
//	jobManager := jobs.NewJobManager(statsJob, housekeepingJob)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. A job that fails to
// start stops the ones already running.
package jobs
