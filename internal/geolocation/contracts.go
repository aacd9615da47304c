// Package geolocation mirrors the device location API (watchPosition /
// clearWatch / getCurrentPosition) for positions that reach the service.
package geolocation

import (
	"context"
	"errors"
	"time"

	"near2door-tracker/internal/domain"
)

var (
	// ErrUnavailable means the platform cannot deliver positions at all.
	ErrUnavailable = errors.New("geolocation unavailable")
	// ErrPermissionDenied means the user or broker refused location access.
	ErrPermissionDenied = errors.New("geolocation permission denied")
	// ErrTimeout means no fix arrived within Options.Timeout.
	ErrTimeout = errors.New("geolocation timeout")
)

// DefaultTimeout bounds every position request.
const DefaultTimeout = 10 * time.Second

// Fix is one device position sample.
type Fix struct {
	Coordinate domain.Coordinate
	Accuracy   float64
	At         time.Time
}

// Options mirror PositionOptions of the device API.
type Options struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// DefaultOptions returns high accuracy, 10s timeout and no cached fixes.
func DefaultOptions() Options {
	return Options{EnableHighAccuracy: true, Timeout: DefaultTimeout}
}

// WatchID identifies a registered watch.
type WatchID uint64

// Source is the location API of one user's device.
type Source interface {
	// WatchPosition calls onFix for every new fix and onErr for recoverable
	// failures until ClearWatch. Registration errors are returned directly.
	WatchPosition(onFix func(Fix), onErr func(error), opts Options) (WatchID, error)
	// ClearWatch unregisters a watch; unknown ids are ignored.
	ClearWatch(id WatchID)
	// CurrentPosition returns one fix, bounded by opts.Timeout.
	CurrentPosition(ctx context.Context, opts Options) (Fix, error)
}

// Provider hands out the Source of a given user.
type Provider interface {
	Source(userID string) Source
}
