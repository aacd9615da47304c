package backend

import (
	"time"

	"near2door-tracker/internal/domain"
)

type coordinateDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toCoordinateDTO(c domain.Coordinate) *coordinateDTO {
	return &coordinateDTO{Lat: c.Lat, Lng: c.Lng}
}

func (c *coordinateDTO) toDomain() *domain.Coordinate {
	if c == nil {
		return nil
	}
	return &domain.Coordinate{Lat: c.Lat, Lng: c.Lng}
}

type trackingDTO struct {
	CustomerLocation *coordinateDTO `json:"customer_location"`
	AgentLocation    *coordinateDTO `json:"agent_location"`
	Status           string         `json:"status,omitempty"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`
}

func (t trackingDTO) toDomain() domain.TrackingSnapshot {
	s := domain.TrackingSnapshot{
		Customer: t.CustomerLocation.toDomain(),
		Agent:    t.AgentLocation.toDomain(),
		Status:   domain.OrderStatus(t.Status),
	}
	if t.UpdatedAt != nil {
		s.UpdatedAt = *t.UpdatedAt
	}
	return s
}

type itemDTO struct {
	ID       string  `json:"product_id"`
	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type orderDTO struct {
	ID               string         `json:"id"`
	ShopID           string         `json:"shop_id"`
	CustomerID       string         `json:"customer_id"`
	AgentID          string         `json:"agent_id,omitempty"`
	Items            []itemDTO      `json:"items"`
	TotalPrice       float64        `json:"total_price"`
	DeliveryFee      float64        `json:"delivery_fee"`
	Status           string         `json:"status"`
	CustomerLocation *coordinateDTO `json:"customer_location,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (o orderDTO) toDomain() domain.Order {
	out := domain.Order{
		ID:          o.ID,
		ShopID:      o.ShopID,
		CustomerID:  o.CustomerID,
		AgentID:     o.AgentID,
		TotalPrice:  o.TotalPrice,
		DeliveryFee: o.DeliveryFee,
		Status:      domain.OrderStatus(o.Status),
		CreatedAt:   o.CreatedAt,
	}
	if c := o.CustomerLocation.toDomain(); c != nil {
		out.CustomerLocation = *c
	}
	out.Items = make([]domain.Item, 0, len(o.Items))
	for _, it := range o.Items {
		out.Items = append(out.Items, domain.Item{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return out
}

type createOrderDTO struct {
	CustomerID       string         `json:"customer_id"`
	ShopID           string         `json:"shop_id"`
	AgentID          string         `json:"agent_id,omitempty"`
	Items            []itemDTO      `json:"items"`
	DeliveryFee      float64        `json:"delivery_fee"`
	TotalPrice       float64        `json:"total_price"`
	CustomerLocation *coordinateDTO `json:"customer_location"`
}

func newCreateOrderDTO(n domain.NewOrder) createOrderDTO {
	items := make([]itemDTO, 0, len(n.Items))
	for _, it := range n.Items {
		items = append(items, itemDTO{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return createOrderDTO{
		CustomerID:       n.CustomerID,
		ShopID:           n.ShopID,
		AgentID:          n.AgentID,
		Items:            items,
		DeliveryFee:      n.DeliveryFee,
		TotalPrice:       n.ComputedTotal(),
		CustomerLocation: toCoordinateDTO(n.CustomerLocation),
	}
}

type statusDTO struct {
	Status string `json:"status"`
}

type errorDTO struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
