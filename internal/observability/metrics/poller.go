package metrics

import (
	"context"
	"time"
)

// RecordPollerDuration wraps a poll method so every run is timed under the
// poller's name.
func RecordPollerDuration(poller string, f func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		startTime := time.Now()
		err := f(ctx)

		pollerDurationHistogram.
			WithLabelValues(poller, outcome(err != nil).String()).
			Observe(time.Since(startTime).Seconds())

		return err
	}
}
