package position

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
)

// MemoryStore is an in-process PositionStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[domain.Role]domain.TrackedPosition
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]map[domain.Role]domain.TrackedPosition)}
}

// SetSelf records the position of role itself for the order.
func (s *MemoryStore) SetSelf(_ context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error {
	return s.set(orderID, role, pos)
}

// SetCounterpart records the position of the party opposite to role.
func (s *MemoryStore) SetCounterpart(_ context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error {
	return s.set(orderID, role.Counterpart(), pos)
}

// Get returns what a viewer with the given role sees for the order.
func (s *MemoryStore) Get(_ context.Context, orderID string, viewer domain.Role) (domain.PositionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var view domain.PositionView
	byRole := s.entries[orderID]
	if p, ok := byRole[viewer]; ok {
		view.Self = &p
	}
	if p, ok := byRole[viewer.Counterpart()]; ok {
		view.Counterpart = &p
	}
	return view, nil
}

// Delete drops every position of the order.
func (s *MemoryStore) Delete(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, orderID)
	return nil
}

func (s *MemoryStore) set(orderID string, role domain.Role, pos domain.TrackedPosition) error {
	if err := validate(orderID, role, pos); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byRole, ok := s.entries[orderID]
	if !ok {
		byRole = make(map[domain.Role]domain.TrackedPosition, 2)
		s.entries[orderID] = byRole
	}
	if cur, ok := byRole[role]; ok && pos.ObservedAt.Before(cur.ObservedAt) {
		return nil
	}
	byRole[role] = pos
	return nil
}

func validate(orderID string, role domain.Role, pos domain.TrackedPosition) error {
	if strings.TrimSpace(orderID) == "" {
		return fmt.Errorf("%w: empty order id", apperr.ErrInvalid)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", apperr.ErrInvalid, role)
	}
	return pos.Coordinate.Validate()
}
