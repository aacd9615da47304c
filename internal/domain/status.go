package domain

type (
	// OrderStatus represents the lifecycle status of an order.
	OrderStatus string
	// Actor represents who requests a status change.
	Actor string
)

// List of possible order statuses
const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// List of possible actors
const (
	ActorShop     Actor = "shop"
	ActorAgent    Actor = "agent"
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
)

var allowedStatuses = [...]OrderStatus{
	StatusPending, StatusAccepted, StatusReady, StatusPickedUp, StatusDelivered, StatusCancelled,
}

var allowedActors = [...]Actor{
	ActorShop, ActorAgent, ActorCustomer, ActorAdmin,
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid checks if the Actor is valid
func (a Actor) Valid() bool {
	for _, v := range allowedActors {
		if a == v {
			return true
		}
	}
	return false
}

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []OrderStatus {
	out := make([]OrderStatus, len(allowedStatuses))
	copy(out, allowedStatuses[:])
	return out
}

// AllActors returns every known actor.
func AllActors() []Actor {
	out := make([]Actor, len(allowedActors))
	copy(out, allowedActors[:])
	return out
}
