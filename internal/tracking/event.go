package tracking

import (
	"time"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/render"
)

// EventType classifies session events.
type EventType string

// List of event types
const (
	EventUpdated EventType = "updated"
	EventStatus  EventType = "status"
	EventStopped EventType = "stopped"
)

// Stop reasons not tied to an order status.
const (
	ReasonStopped   = "stopped"
	ReasonRestarted = "restarted"
	ReasonShutdown  = "shutdown"
)

// Status is the observable state of a session.
type Status struct {
	SessionID     string
	OrderID       string
	UserID        string
	Role          domain.Role
	Active        bool
	Degraded      bool
	SelfError     string
	PollError     string
	PollFailures  int
	OrderStatus   domain.OrderStatus
	StartedAt     time.Time
	LastUpdatedAt time.Time
	StoppedAt     time.Time
	StopReason    string
}

// Stale reports whether the last successful poll is older than maxAge.
func (s Status) Stale(now time.Time, maxAge time.Duration) bool {
	if s.LastUpdatedAt.IsZero() {
		return true
	}
	return now.Sub(s.LastUpdatedAt) > maxAge
}

// Event is pushed to session subscribers.
type Event struct {
	Type   EventType
	Status Status
	Scene  render.Scene
	At     time.Time
}
