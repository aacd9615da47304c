//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders

package orders

import (
	"context"

	"near2door-tracker/internal/domain"
)

type orderLister interface {
	ListAgentOrders(ctx context.Context, agentID string) ([]domain.Order, error)
	ListShopOrders(ctx context.Context, shopID string) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
}

type orderCreator interface {
	CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error)
}

// StatusCache is the part of Cache the event processor updates.
type StatusCache interface {
	ApplyStatus(orderID string, status domain.OrderStatus) bool
}

// TrackingPort lets status events reach live tracking sessions.
type TrackingPort interface {
	HandleOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) int
}
