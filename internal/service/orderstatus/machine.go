package orderstatus

import (
	"fmt"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
)

type edge struct {
	from domain.OrderStatus
	to   domain.OrderStatus
}

var transitions = map[edge]domain.Actor{
	{domain.StatusPending, domain.StatusAccepted}:   domain.ActorShop,
	{domain.StatusPending, domain.StatusCancelled}:  domain.ActorShop,
	{domain.StatusAccepted, domain.StatusReady}:     domain.ActorShop,
	{domain.StatusReady, domain.StatusPickedUp}:     domain.ActorAgent,
	{domain.StatusPickedUp, domain.StatusDelivered}: domain.ActorAgent,
}

// Machine is the client-side mirror of the backend's order lifecycle rules.
type Machine struct{}

// Attempt validates from -> to for actor and returns the new status.
func (Machine) Attempt(from, to domain.OrderStatus, actor domain.Actor) (domain.OrderStatus, error) {
	if from.Terminal() {
		return from, fmt.Errorf("%w: order is %s", apperr.ErrOrderAlreadyFinalized, from)
	}
	allowed, ok := transitions[edge{from, to}]
	if !ok || allowed != actor {
		return from, fmt.Errorf("%w: %s -> %s by %s", apperr.ErrInvalidTransition, from, to, actor)
	}
	return to, nil
}

// Allowed lists the statuses actor may move an order in from to.
func (Machine) Allowed(from domain.OrderStatus, actor domain.Actor) []domain.OrderStatus {
	out := []domain.OrderStatus{}
	if from.Terminal() {
		return out
	}
	for _, to := range domain.AllStatuses() {
		if a, ok := transitions[edge{from, to}]; ok && a == actor {
			out = append(out, to)
		}
	}
	return out
}
