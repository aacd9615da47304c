package handlers

import (
	"time"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/render"
	"near2door-tracker/internal/tracking"
)

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toCoordinateDTO(c domain.Coordinate) coordinateDTO {
	return coordinateDTO{Lat: c.Lat, Lng: c.Lng}
}

func statusToResponse(s tracking.Status) sessionStatusResponse {
	return sessionStatusResponse{
		SessionID:     s.SessionID,
		OrderID:       s.OrderID,
		UserID:        s.UserID,
		Role:          string(s.Role),
		Active:        s.Active,
		Degraded:      s.Degraded,
		SelfError:     s.SelfError,
		PollError:     s.PollError,
		PollFailures:  s.PollFailures,
		OrderStatus:   string(s.OrderStatus),
		StartedAt:     timePtr(s.StartedAt),
		LastUpdatedAt: timePtr(s.LastUpdatedAt),
		StoppedAt:     timePtr(s.StoppedAt),
		StopReason:    s.StopReason,
	}
}

func sceneToResponse(sc render.Scene) *sceneResponse {
	out := &sceneResponse{
		Markers:   make([]markerDTO, 0, len(sc.Markers)),
		Perturbed: sc.Perturbed,
	}
	for _, m := range sc.Markers {
		out.Markers = append(out.Markers, markerDTO{
			Kind:       string(m.Kind),
			Party:      string(m.Party),
			Label:      m.Label,
			Lat:        m.Position.Lat,
			Lng:        m.Position.Lng,
			ObservedAt: timePtr(m.ObservedAt),
		})
	}
	if sc.Route != nil {
		out.Route = &routeDTO{
			From:       toCoordinateDTO(sc.Route.From),
			To:         toCoordinateDTO(sc.Route.To),
			DistanceKm: sc.Route.DistanceKm,
			Label:      sc.Route.Label,
		}
	}
	if sc.Bounds != nil {
		out.Bounds = &boundsDTO{
			South: sc.Bounds.South,
			West:  sc.Bounds.West,
			North: sc.Bounds.North,
			East:  sc.Bounds.East,
		}
	}
	return out
}

func eventToResponse(ev tracking.Event) trackingEventResponse {
	out := trackingEventResponse{
		Type:   string(ev.Type),
		Status: statusToResponse(ev.Status),
		At:     ev.At,
	}
	if ev.Type != tracking.EventStatus {
		out.Scene = sceneToResponse(ev.Scene)
	}
	return out
}

func orderToResponse(o domain.Order) orderResponse {
	items := make([]itemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDTO{ProductID: it.ID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return orderResponse{
		ID:               o.ID,
		ShopID:           o.ShopID,
		CustomerID:       o.CustomerID,
		AgentID:          o.AgentID,
		Items:            items,
		TotalPrice:       o.TotalPrice,
		DeliveryFee:      o.DeliveryFee,
		Status:           string(o.Status),
		CustomerLocation: toCoordinateDTO(o.CustomerLocation),
		CreatedAt:        timePtr(o.CreatedAt),
	}
}

func ordersToResponse(list []domain.Order) ordersResponse {
	out := ordersResponse{Orders: make([]orderResponse, 0, len(list))}
	for _, o := range list {
		out.Orders = append(out.Orders, orderToResponse(o))
	}
	return out
}

func createRequestToDomain(req createOrderRequest) domain.NewOrder {
	items := make([]domain.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.Item{ID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return domain.NewOrder{
		ShopID:           req.ShopID,
		AgentID:          req.AgentID,
		Items:            items,
		DeliveryFee:      req.DeliveryFee,
		CustomerLocation: domain.Coordinate{Lat: req.CustomerLocation.Lat, Lng: req.CustomerLocation.Lng},
	}
}

func statusesToStrings(in []domain.OrderStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
