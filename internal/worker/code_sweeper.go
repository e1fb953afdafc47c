package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// StartCodeSweeper periodically purges expired one-time codes until ctx is
// cancelled. The returned channel is closed once the loop has exited.
func StartCodeSweeper(ctx context.Context, sweeper Sweeper, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if sweeper == nil || interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := sweeper.Sweep(); removed > 0 {
					logger.Debug("expired codes purged", zap.Int("removed", removed))
				}
			}
		}
	}()
	return done
}
