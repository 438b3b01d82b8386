package utils

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Reconciler is the set of live console sessions the scheduler maintains.
type Reconciler interface {
	ReconcileAll(ctx context.Context)
	Expire(ttl time.Duration) int
}

const reconcileTimeout = 2 * time.Minute

func logReconcile(format string, args ...interface{}) {
	log.Printf("[RECONCILE-SCHEDULER] "+format, args...)
}

// RunReconcile expires stale sessions and re-syncs the rest with the backend.
func RunReconcile(r Reconciler, sessionTTL time.Duration) {
	if sessionTTL > 0 {
		if n := r.Expire(sessionTTL); n > 0 {
			logReconcile("Expired %d session(s)", n)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()
	started := time.Now()
	r.ReconcileAll(ctx)
	logReconcile("Reconciliation finished in %s", time.Since(started).Round(time.Millisecond))
}

// InitializeReconcileScheduler starts the periodic reconciliation job. An
// empty schedule disables it and returns a nil cron.
func InitializeReconcileScheduler(r Reconciler, schedule string, sessionTTL time.Duration, loc *time.Location) (*cron.Cron, error) {
	if schedule == "" {
		logReconcile("Disabled: no schedule configured")
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(schedule, func() {
		RunReconcile(r, sessionTTL)
	}); err != nil {
		return nil, err
	}

	c.Start()
	logReconcile("Scheduler started with schedule %q", schedule)
	return c, nil
}
