package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/narrator/internal/caption"
	"github.com/five82/narrator/internal/state"
)

const (
	defaultPollInterval = 10 * time.Second
	maxBackoff          = 30 * time.Second
	pingTimeout         = 3 * time.Second
)

// StartPoller launches a background goroutine that probes the captioning
// service and records the result in store. Failures back off exponentially.
// It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, pinger caption.Pinger, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("health")

	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			failures := probe(ctx, store, pinger, log)
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// probe runs one health check and returns the consecutive failure count.
func probe(ctx context.Context, store *state.Store, pinger caption.Pinger, log *zap.Logger) int {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := pinger.Ping(ctx)
	store.Update(time.Since(start), err)

	snap := store.Snapshot()
	if err != nil {
		// One line when the service goes away, then debug until it returns.
		if snap.ConsecutiveFailures == 1 {
			log.Warn("captioning service unreachable", zap.Error(err))
		} else {
			log.Debug("health check failed", zap.Error(err), zap.Int("failures", snap.ConsecutiveFailures))
		}
	}
	return snap.ConsecutiveFailures
}

// calculateBackoff doubles interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	d := interval
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
