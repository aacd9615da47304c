package handlers

import (
	"context"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/geolocation"
	"near2door-tracker/internal/render"
	"near2door-tracker/internal/tracking"
)

type trackingService interface {
	Start(ctx context.Context, userID, orderID string, role domain.Role) (tracking.Status, bool, error)
	Stop(userID, orderID string) bool
	Snapshot(ctx context.Context, userID, orderID string) (tracking.Status, render.Scene, error)
	Status(userID, orderID string) (tracking.Status, error)
	RetrySelf(userID, orderID string) (tracking.Status, error)
	Subscribe(userID, orderID string) (<-chan tracking.Event, func(), error)
}

// NewTrackingService wires a tracking.Manager into a trackingService.
func NewTrackingService(m *tracking.Manager) trackingService {
	return managerAdapter{Manager: m}
}

type managerAdapter struct {
	*tracking.Manager
}

func (a managerAdapter) Start(ctx context.Context, userID, orderID string, role domain.Role) (tracking.Status, bool, error) {
	s, created, err := a.Manager.Start(ctx, userID, orderID, role)
	if err != nil {
		return tracking.Status{}, false, err
	}
	return s.Status(), created, nil
}

type fixPusher interface {
	Push(userID string, fx geolocation.Fix) error
	Fail(userID string, err error)
}

type orderViews interface {
	Refresh(ctx context.Context, who domain.Identity) ([]domain.Order, error)
	Create(ctx context.Context, who domain.Identity, in domain.NewOrder) (domain.Order, error)
}

type statusService interface {
	Transition(ctx context.Context, who domain.Identity, orderID string, to domain.OrderStatus) (domain.Order, error)
	AllowedActions(ctx context.Context, who domain.Identity, orderID string) (domain.Order, []domain.OrderStatus, error)
}
