package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"near2door-tracker/internal/apperr"
)

// Item is one order line.
type Item struct {
	ID       string
	Name     string
	Price    float64
	Quantity int
}

// Order is the client-side copy of a backend order record.
type Order struct {
	ID               string
	ShopID           string
	CustomerID       string
	AgentID          string
	Items            []Item
	TotalPrice       float64
	DeliveryFee      float64
	Status           OrderStatus
	CustomerLocation Coordinate
	CreatedAt        time.Time
}

// NewOrder carries the fields needed to place an order.
type NewOrder struct {
	CustomerID       string
	ShopID           string
	AgentID          string
	Items            []Item
	DeliveryFee      float64
	CustomerLocation Coordinate
}

// ComputedTotal returns sum(price*quantity) + delivery fee rounded to cents.
func (o Order) ComputedTotal() float64 {
	return itemsTotal(o.Items, o.DeliveryFee)
}

// ComputedTotal returns the total the backend is expected to charge.
func (n NewOrder) ComputedTotal() float64 {
	return itemsTotal(n.Items, n.DeliveryFee)
}

// Validate checks the placement payload.
func (n NewOrder) Validate() error {
	if strings.TrimSpace(n.CustomerID) == "" || strings.TrimSpace(n.ShopID) == "" {
		return fmt.Errorf("%w: customer and shop are required", apperr.ErrInvalid)
	}
	if len(n.Items) == 0 {
		return fmt.Errorf("%w: order has no items", apperr.ErrInvalid)
	}
	for _, it := range n.Items {
		if it.Quantity <= 0 || it.Price < 0 || math.IsNaN(it.Price) {
			return fmt.Errorf("%w: bad item %q", apperr.ErrInvalid, it.ID)
		}
	}
	if n.DeliveryFee < 0 || math.IsNaN(n.DeliveryFee) {
		return fmt.Errorf("%w: negative delivery fee", apperr.ErrInvalid)
	}
	if err := n.CustomerLocation.Validate(); err != nil {
		return fmt.Errorf("%w: customer location: %v", apperr.ErrInvalid, err)
	}
	return nil
}

func itemsTotal(items []Item, fee float64) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return math.Round((sum+fee)*100) / 100
}
