package impl

import (
	"context"
	"log/slog"
	"time"

	"phoneauth/internal/observability/metrics"
)

type codePurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type limiterSweeper interface {
	Sweep(now time.Time) int
}

// CodeJanitor periodically removes spent and expired codes. Correctness never
// depends on it: expired or consumed rows are rejected by TryConsume anyway.
type CodeJanitor struct {
	Codes    codePurger
	Limiter  limiterSweeper // optional, set for the in-memory limiter
	Interval time.Duration
	Clock    func() time.Time
}

// Run blocks until ctx is cancelled.
func (j *CodeJanitor) Run(ctx context.Context) {
	interval := j.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("code janitor started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("code janitor stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single purge pass.
func (j *CodeJanitor) RunOnce(ctx context.Context) {
	clock := j.Clock
	if clock == nil {
		clock = utcNow
	}
	now := clock()

	n, err := j.Codes.PurgeExpired(ctx, now)
	if err != nil {
		slog.Error("purge expired codes", "error", err)
	} else if n > 0 {
		metrics.CodesPurgedTotal.Add(float64(n))
		slog.Debug("purged expired codes", "count", n)
	}

	if j.Limiter != nil {
		if swept := j.Limiter.Sweep(now); swept > 0 {
			slog.Debug("swept rate limiter entries", "count", swept)
		}
	}
}
