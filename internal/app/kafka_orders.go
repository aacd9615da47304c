package app

import (
	"context"
	"errors"
	"time"

	"near2door-tracker/internal/service/orders"
	"near2door-tracker/internal/transport/kafka"
)

type eventHandler interface {
	Handle(ctx context.Context, e orders.Event) error
}

// makeOrdersKafka bounds the handling of one status event by timeout.
// Events with an unknown status are never retried.
func makeOrdersKafka(h eventHandler, timeout time.Duration) kafka.HandleFunc {
	return func(ctx context.Context, event orders.Event) error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		err := h.Handle(ctx, event)
		if errors.Is(err, orders.ErrUnknownStatus) {
			return kafka.Permanent(err)
		}
		return err
	}
}
