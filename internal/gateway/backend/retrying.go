package backend

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/logx"
)

type listGateway interface {
	ListAgentOrders(ctx context.Context, agentID string) ([]domain.Order, error)
	ListShopOrders(ctx context.Context, shopID string) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
}

type counter interface {
	Inc()
}

// RetryConfig describes the behaviour of RetryingGateway
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGateway retries idempotent list reads on transient failures.
type RetryingGateway struct {
	next    listGateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(time.Duration)
}

// NewRetryingGateway returns nil when next is nil.
func NewRetryingGateway(next listGateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg, sleep: time.Sleep}
}

// ListAgentOrders retries next.ListAgentOrders.
func (g *RetryingGateway) ListAgentOrders(ctx context.Context, agentID string) ([]domain.Order, error) {
	return withRetry(ctx, g, "ListAgentOrders", func(ctx context.Context) ([]domain.Order, error) {
		return g.next.ListAgentOrders(ctx, agentID)
	})
}

// ListShopOrders retries next.ListShopOrders.
func (g *RetryingGateway) ListShopOrders(ctx context.Context, shopID string) ([]domain.Order, error) {
	return withRetry(ctx, g, "ListShopOrders", func(ctx context.Context) ([]domain.Order, error) {
		return g.next.ListShopOrders(ctx, shopID)
	})
}

// ListUserOrders retries next.ListUserOrders.
func (g *RetryingGateway) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return withRetry(ctx, g, "ListUserOrders", func(ctx context.Context) ([]domain.Order, error) {
		return g.next.ListUserOrders(ctx, userID)
	})
}

// ListAllOrders retries next.ListAllOrders.
func (g *RetryingGateway) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return withRetry(ctx, g, "ListAllOrders", g.next.ListAllOrders)
}

func withRetry[T any](ctx context.Context, g *RetryingGateway, method string, call func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		out, err := call(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("backend gateway retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, g.sleep, delay) {
			break
		}
	}
	return zero, lastErr
}

// isRetryable reports transport failures, 429 and 5xx.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if he, ok := AsHTTPError(err); ok {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// backoff computes base << (attempt-1), capped at max.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	if sleep != nil {
		done := make(chan struct{})
		go func() {
			sleep(d)
			close(done)
		}()
		select {
		case <-ctx.Done():
			return false
		case <-done:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
