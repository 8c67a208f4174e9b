package core

// scheduler.go keeps the cached snapshot fresh.
//
// The refresher reloads the dataset on a fixed interval so that long-running
// servers pick up a replaced CSV file without a restart. A failed refresh is
// logged and the previous snapshot keeps being served.

import (
	"context"
	"log/slog"
	"time"
)

// StartRefreshScheduler loads the dataset immediately, then reloads it every
// interval until ctx is cancelled. It blocks; run it in a goroutine.
// A non-positive interval performs the initial load only.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	s.runRefresh(ctx)

	if interval <= 0 {
		slog.Debug("refresh scheduler disabled")
		return
	}

	slog.Info("refresh scheduler started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runRefresh(ctx)
		}
	}
}

// runRefresh performs one reload. Errors are already logged by fetch.
func (s *Service) runRefresh(ctx context.Context) {
	if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("refresh failed, serving previous snapshot", "error", err)
	}
}
