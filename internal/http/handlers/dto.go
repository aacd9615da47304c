package handlers

import "time"

type coordinateDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type startTrackingRequest struct {
	Role string `json:"role"`
}

// fixRequest carries either a device fix or a device error
// ("permission_denied", "timeout", "unavailable").
type fixRequest struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Accuracy  float64  `json:"accuracy"`
	Timestamp int64    `json:"timestamp"`
	Error     string   `json:"error"`
}

type sessionStatusResponse struct {
	SessionID     string     `json:"session_id"`
	OrderID       string     `json:"order_id"`
	UserID        string     `json:"user_id"`
	Role          string     `json:"role"`
	Active        bool       `json:"active"`
	Degraded      bool       `json:"degraded"`
	SelfError     string     `json:"self_error,omitempty"`
	PollError     string     `json:"poll_error,omitempty"`
	PollFailures  int        `json:"poll_failures"`
	OrderStatus   string     `json:"order_status,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	LastUpdatedAt *time.Time `json:"last_updated_at,omitempty"`
	StoppedAt     *time.Time `json:"stopped_at,omitempty"`
	StopReason    string     `json:"stop_reason,omitempty"`
}

type markerDTO struct {
	Kind       string     `json:"kind"`
	Party      string     `json:"party"`
	Label      string     `json:"label"`
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	ObservedAt *time.Time `json:"observed_at,omitempty"`
}

type routeDTO struct {
	From       coordinateDTO `json:"from"`
	To         coordinateDTO `json:"to"`
	DistanceKm float64       `json:"distance_km"`
	Label      string        `json:"label"`
}

type boundsDTO struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

type sceneResponse struct {
	Markers   []markerDTO `json:"markers"`
	Route     *routeDTO   `json:"route,omitempty"`
	Bounds    *boundsDTO  `json:"bounds,omitempty"`
	Perturbed bool        `json:"perturbed"`
}

type trackingResponse struct {
	Status sessionStatusResponse `json:"status"`
	Scene  *sceneResponse        `json:"scene,omitempty"`
}

type trackingEventResponse struct {
	Type   string                `json:"type"`
	Status sessionStatusResponse `json:"status"`
	Scene  *sceneResponse        `json:"scene,omitempty"`
	At     time.Time             `json:"at"`
}

type itemDTO struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type createOrderRequest struct {
	ShopID           string        `json:"shop_id"`
	AgentID          string        `json:"agent_id"`
	Items            []itemDTO     `json:"items"`
	DeliveryFee      float64       `json:"delivery_fee"`
	CustomerLocation coordinateDTO `json:"customer_location"`
}

type orderResponse struct {
	ID               string        `json:"id"`
	ShopID           string        `json:"shop_id"`
	CustomerID       string        `json:"customer_id"`
	AgentID          string        `json:"agent_id,omitempty"`
	Items            []itemDTO     `json:"items"`
	TotalPrice       float64       `json:"total_price"`
	DeliveryFee      float64       `json:"delivery_fee"`
	Status           string        `json:"status"`
	CustomerLocation coordinateDTO `json:"customer_location"`
	CreatedAt        *time.Time    `json:"created_at,omitempty"`
}

type ordersResponse struct {
	Orders []orderResponse `json:"orders"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type actionsResponse struct {
	OrderID string   `json:"order_id"`
	Status  string   `json:"status"`
	Actions []string `json:"actions"`
}
