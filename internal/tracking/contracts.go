//go:generate mockgen -source=contracts.go -destination=tracking_mocks_test.go -package=tracking

package tracking

import (
	"context"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/render"
)

type positionStore interface {
	SetSelf(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error
	SetCounterpart(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error
	Get(ctx context.Context, orderID string, viewer domain.Role) (domain.PositionView, error)
	Delete(ctx context.Context, orderID string) error
}

type trackingGateway interface {
	GetTracking(ctx context.Context, orderID string) (domain.TrackingSnapshot, error)
}

type sceneRenderer interface {
	Render(view domain.PositionView, viewer domain.Role) render.Scene
}

type trackingMetrics interface {
	PollFailed()
	SetActiveSessions(n int)
}

type nopMetrics struct{}

func (nopMetrics) PollFailed()           {}
func (nopMetrics) SetActiveSessions(int) {}
