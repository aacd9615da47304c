//go:generate mockgen -source=contracts.go -destination=orderstatus_mocks_test.go -package=orderstatus

package orderstatus

import (
	"context"

	"near2door-tracker/internal/domain"
)

type orderCache interface {
	Lookup(ctx context.Context, who domain.Identity, orderID string) (domain.Order, error)
	SetStatus(orderID string, from, to domain.OrderStatus) bool
	Put(o domain.Order)
}

type statusBackend interface {
	UpdateDeliveryStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	UpdateShopOrderStatus(ctx context.Context, shopID, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

type trackingNotifier interface {
	HandleOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) int
}

type transitionRecorder interface {
	ObserveTransition(result string)
}
