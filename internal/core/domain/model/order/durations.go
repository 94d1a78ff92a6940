package order

import (
	"fmt"
	"time"
)

// DurationKey names the interval between two adjacent stages ("Packed to Shipped").
func DurationKey(from, to Stage) string {
	return fmt.Sprintf("%s to %s", from, to)
}

// ComputeStageDurations returns, for every adjacent pair of stages that both carry a
// timestamp, the time spent between them. Pairs with a missing end are left out.
func ComputeStageDurations(timestamps map[Stage]time.Time) map[string]time.Duration {
	durations := make(map[string]time.Duration)
	stages := Stages()
	for i := 0; i+1 < len(stages); i++ {
		from, to := stages[i], stages[i+1]
		start, ok := timestamps[from]
		if !ok {
			continue
		}
		end, ok := timestamps[to]
		if !ok {
			continue
		}
		durations[DurationKey(from, to)] = end.Sub(start)
	}
	return durations
}
