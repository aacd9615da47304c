// Package render turns a PositionView into what a map widget draws.
package render

import (
	"time"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/geo"
)

// MarkerEpsilon is the presentation-only shift applied when both markers coincide.
const MarkerEpsilon = 0.0001

// boundsPad mirrors fitBounds(bounds.pad(0.5)) of the web map.
const boundsPad = 0.5

// MarkerKind tells the widget which icon to draw.
type MarkerKind string

// List of marker kinds
const (
	MarkerSelf        MarkerKind = "self"
	MarkerCounterpart MarkerKind = "counterpart"
)

// Marker is one pin on the map.
type Marker struct {
	Kind       MarkerKind
	Party      domain.Role
	Label      string
	Position   domain.Coordinate
	ObservedAt time.Time
}

// Route is the straight line between the two markers.
type Route struct {
	From       domain.Coordinate
	To         domain.Coordinate
	DistanceKm float64
	Label      string
}

// Bounds is the padded box the map should fit.
type Bounds struct {
	South float64
	West  float64
	North float64
	East  float64
}

// Scene is everything the map widget needs for one frame.
type Scene struct {
	Markers   []Marker
	Route     *Route
	Bounds    *Bounds
	Perturbed bool
}

// Renderer builds scenes. The distance function is injectable for tests.
type Renderer struct {
	distance func(a, b domain.Coordinate) float64
}

// NewRenderer returns a Renderer using the Haversine distance.
func NewRenderer() *Renderer {
	return &Renderer{distance: geo.DistanceKm}
}

// Render draws the known markers and, only when both are known, the route.
func (r *Renderer) Render(view domain.PositionView, viewer domain.Role) Scene {
	var scene Scene
	selfLabel, counterpartLabel := labels(viewer)

	if !view.Complete() {
		if view.Self != nil {
			scene.Markers = append(scene.Markers, marker(MarkerSelf, viewer, selfLabel, view.Self.Coordinate, view.Self))
		}
		if view.Counterpart != nil {
			scene.Markers = append(scene.Markers,
				marker(MarkerCounterpart, viewer.Counterpart(), counterpartLabel, view.Counterpart.Coordinate, view.Counterpart))
		}
		scene.Bounds = boundsOf(scene.Markers)
		return scene
	}

	selfAt := view.Self.Coordinate
	other := view.Counterpart.Coordinate
	d := geo.RoundKm(r.distance(selfAt, other))

	// coincident markers: the agent marker is nudged, whoever is viewing
	drawnSelf, drawnOther := selfAt, other
	if selfAt == other {
		if viewer == domain.RoleAgent {
			drawnSelf = nudge(selfAt)
		} else {
			drawnOther = nudge(other)
		}
		scene.Perturbed = true
	}

	scene.Markers = []Marker{
		marker(MarkerSelf, viewer, selfLabel, drawnSelf, view.Self),
		marker(MarkerCounterpart, viewer.Counterpart(), counterpartLabel, drawnOther, view.Counterpart),
	}
	scene.Route = &Route{
		From:       drawnSelf,
		To:         drawnOther,
		DistanceKm: d,
		Label:      geo.FormatKm(d),
	}
	scene.Bounds = boundsOf(scene.Markers)
	return scene
}

func nudge(c domain.Coordinate) domain.Coordinate {
	return domain.Coordinate{Lat: c.Lat + MarkerEpsilon, Lng: c.Lng + MarkerEpsilon}
}

func marker(kind MarkerKind, party domain.Role, label string, at domain.Coordinate, p *domain.TrackedPosition) Marker {
	return Marker{Kind: kind, Party: party, Label: label, Position: at, ObservedAt: p.ObservedAt}
}

func labels(viewer domain.Role) (self, counterpart string) {
	if viewer == domain.RoleAgent {
		return "Your Location", "Customer Location"
	}
	return "You", "Delivery Agent"
}

func boundsOf(markers []Marker) *Bounds {
	if len(markers) == 0 {
		return nil
	}
	b := Bounds{
		South: markers[0].Position.Lat, North: markers[0].Position.Lat,
		West: markers[0].Position.Lng, East: markers[0].Position.Lng,
	}
	for _, m := range markers[1:] {
		b.South = min(b.South, m.Position.Lat)
		b.North = max(b.North, m.Position.Lat)
		b.West = min(b.West, m.Position.Lng)
		b.East = max(b.East, m.Position.Lng)
	}
	latPad := (b.North - b.South) * boundsPad
	lngPad := (b.East - b.West) * boundsPad
	b.South = max(b.South-latPad, -90)
	b.North = min(b.North+latPad, 90)
	b.West = max(b.West-lngPad, -180)
	b.East = min(b.East+lngPad, 180)
	return &b
}
