package geolocation

import (
	"fmt"
	"sync"
	"time"

	"near2door-tracker/internal/apperr"
)

// PushSource receives fixes that the user's own app posts to the service.
type PushSource struct {
	*feed
}

// NewPushSource creates an empty push-fed source.
func NewPushSource() *PushSource {
	return &PushSource{feed: newFeed()}
}

// Push validates and publishes one fix. A zero At is stamped with now.
func (s *PushSource) Push(fx Fix) error {
	if err := fx.Coordinate.Validate(); err != nil {
		return err
	}
	if fx.Accuracy < 0 {
		return fmt.Errorf("%w: negative accuracy", apperr.ErrInvalid)
	}
	if fx.At.IsZero() {
		fx.At = s.now()
	}
	s.publish(fx)
	return nil
}

// Fail forwards a device-side error (denied, timeout) to the watches.
func (s *PushSource) Fail(err error) {
	s.fail(err)
}

// PushHub keeps one PushSource per user.
type PushHub struct {
	mu      sync.Mutex
	sources map[string]*PushSource
	now     func() time.Time
}

// NewPushHub creates an empty hub.
func NewPushHub() *PushHub {
	return &PushHub{sources: make(map[string]*PushSource), now: time.Now}
}

// Source returns (creating on demand) the source of userID.
func (h *PushHub) Source(userID string) Source {
	return h.source(userID)
}

// Push publishes a fix from userID's device.
func (h *PushHub) Push(userID string, fx Fix) error {
	return h.source(userID).Push(fx)
}

// Fail reports a device-side error of userID.
func (h *PushHub) Fail(userID string, err error) {
	h.source(userID).Fail(err)
}

func (h *PushHub) source(userID string) *PushSource {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sources[userID]
	if !ok {
		s = NewPushSource()
		s.now = h.now
		h.sources[userID] = s
	}
	return s
}
