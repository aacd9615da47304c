package domain

import (
	"fmt"
	"math"
	"time"

	"near2door-tracker/internal/apperr"
)

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Validate checks that both components are finite and inside their ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: non-finite value", apperr.ErrInvalidCoordinate)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", apperr.ErrInvalidCoordinate)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", apperr.ErrInvalidCoordinate)
	}
	return nil
}

// Role is the party a tracking participant acts as.
type Role string

// List of tracking roles
const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
)

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAgent
}

// Counterpart returns the role on the other end of a delivery.
func (r Role) Counterpart() Role {
	if r == RoleAgent {
		return RoleCustomer
	}
	return RoleAgent
}

// TrackedPosition is the latest known position of one party of an order.
// It is replaced as a whole, never patched.
type TrackedPosition struct {
	Coordinate Coordinate
	ObservedAt time.Time
}

// PositionView is what one viewer sees for an order: either side may be unknown.
type PositionView struct {
	Self        *TrackedPosition
	Counterpart *TrackedPosition
}

// Complete reports whether both positions are known.
func (v PositionView) Complete() bool {
	return v.Self != nil && v.Counterpart != nil
}

// TrackingSnapshot is the backend's record of both parties of an order. The
// backend may piggyback the current order status.
type TrackingSnapshot struct {
	Customer  *Coordinate
	Agent     *Coordinate
	Status    OrderStatus
	UpdatedAt time.Time
}

// Of returns the coordinate reported for role, if any.
func (s TrackingSnapshot) Of(role Role) *Coordinate {
	if role == RoleAgent {
		return s.Agent
	}
	return s.Customer
}
