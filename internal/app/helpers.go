package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"near2door-tracker/internal/logx"
)

type pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

func pingWithRetry(ctx context.Context, logger logx.Logger, client pinger, retries int, delay time.Duration) error {
	var lastErr error
	const attemptTimeout = 3 * time.Second
	for i := 1; i <= retries; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err := client.Ping(attemptCtx).Err()
		cancel()
		if err == nil {
			logger.Info("redis connected", logx.Int("attempt", i))
			return nil
		}
		lastErr = err
		logger.Warn("redis ping failed", logx.Int("attempt", i), logx.Int("of", retries), logx.Err(err))
		if i < retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("redis ping failed after %d attempts: %w", retries, lastErr)
}
