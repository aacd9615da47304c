// Package position keeps the latest known position of each party of an order.
package position

import (
	"context"

	"near2door-tracker/internal/domain"
)

// Store holds one TrackedPosition per (order, role).
type Store interface {
	// SetSelf records the position of role itself.
	SetSelf(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error
	// SetCounterpart records the position of the party opposite to role.
	SetCounterpart(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error
	Get(ctx context.Context, orderID string, viewer domain.Role) (domain.PositionView, error)
	Delete(ctx context.Context, orderID string) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
