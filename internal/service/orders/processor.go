package orders

import (
	"context"
	"fmt"
	"strings"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/logx"
)

// Processor applies order status events to the order cache and live tracking.
type Processor struct {
	cache    StatusCache
	tracking TrackingPort
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(cache StatusCache, tracking TrackingPort, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		cache:    cache,
		tracking: tracking,
		logger:   logger,
	}
	p.factory = newActionFactory(p.onProgress, p.onFinalized)
	return p
}

// Handle processes a single orders.Event. Unknown statuses return
// ErrUnknownStatus and change nothing.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	orderID := strings.TrimSpace(e.OrderID)
	if orderID == "" || p.factory == nil {
		return nil
	}
	fn, status, ok := p.factory.get(e.Status)
	if !ok {
		p.logger.Debug("order event skipped",
			logx.String("order_id", orderID),
			logx.String("status", e.Status),
		)
		return fmt.Errorf("%w: %q", ErrUnknownStatus, e.Status)
	}
	return fn(ctx, orderID, status)
}

func (p *Processor) onProgress(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if p.cache != nil {
		p.cache.ApplyStatus(orderID, status)
	}
	if p.tracking != nil {
		p.tracking.HandleOrderStatus(ctx, orderID, status)
	}
	return nil
}

func (p *Processor) onFinalized(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if p.cache != nil {
		p.cache.ApplyStatus(orderID, status)
	}
	if p.tracking == nil {
		return nil
	}
	if n := p.tracking.HandleOrderStatus(ctx, orderID, status); n > 0 {
		p.logger.Info("tracking stopped by order event",
			logx.String("order_id", orderID),
			logx.String("status", string(status)),
			logx.Int("sessions", n),
		)
	}
	return nil
}
