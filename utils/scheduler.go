package utils

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work. It receives a context bounded by the job timeout.
type Job func(ctx context.Context) error

// StartScheduler registers job under spec (standard 5-field cron or @every/@daily
// descriptors) and starts the scheduler. Overlapping runs are skipped. An empty
// spec returns nil and schedules nothing.
func StartScheduler(spec, name string, timeout time.Duration, job Job) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		if err := job(ctx); err != nil {
			Sugar.Errorw("background job failed", "job", name, "error", err)
			return
		}
		Sugar.Infow("background job finished", "job", name, "took", time.Since(start))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	Sugar.Infow("background job scheduled", "job", name, "spec", spec)
	return c, nil
}
