package orders

import (
	"errors"
	"time"
)

// ErrUnknownStatus is returned for events whose status no producer version defines.
var ErrUnknownStatus = errors.New("unknown order status")

// Event is a single order status event
type Event struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
