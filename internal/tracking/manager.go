package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/geolocation"
	"near2door-tracker/internal/logx"
	"near2door-tracker/internal/render"
)

type sessionKey struct {
	userID  string
	orderID string
}

// Manager owns every tracking session of the process, at most one per
// (user, order).
type Manager struct {
	cfg      Config
	store    positionStore
	gw       trackingGateway
	geo      geolocation.Provider
	renderer sceneRenderer
	metrics  trackingMetrics
	logger   logx.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

// NewManager wires a Manager. metrics may be nil.
func NewManager(store positionStore, gw trackingGateway, geo geolocation.Provider, renderer sceneRenderer, metrics trackingMetrics, cfg Config, logger logx.Logger) *Manager {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Manager{
		cfg:      cfg.withDefaults(),
		store:    store,
		gw:       gw,
		geo:      geo,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[sessionKey]*Session),
	}
}

// Start opens tracking of orderID for userID. A running session with the same
// role is reused; one with another role is replaced. created reports whether
// a new session was started.
func (m *Manager) Start(_ context.Context, userID, orderID string, role domain.Role) (s *Session, created bool, err error) {
	userID, orderID = strings.TrimSpace(userID), strings.TrimSpace(orderID)
	if userID == "" || orderID == "" {
		return nil, false, fmt.Errorf("%w: user and order are required", apperr.ErrInvalid)
	}
	if !role.Valid() {
		return nil, false, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalid, role)
	}
	key := sessionKey{userID: userID, orderID: orderID}

	m.mu.Lock()
	existing := m.sessions[key]
	if existing != nil && !existing.stopped() && existing.role == role {
		m.mu.Unlock()
		return existing, false, nil
	}
	if existing != nil {
		delete(m.sessions, key)
	}
	s = m.newSession(userID, orderID, role)
	m.sessions[key] = s
	n := len(m.sessions)
	m.mu.Unlock()

	if existing != nil {
		existing.Stop(ReasonRestarted)
	}
	m.metrics.SetActiveSessions(n)

	if err := s.Start(); err != nil {
		m.release(s)
		return nil, false, fmt.Errorf("%w: session for order %s was replaced", apperr.ErrConflict, orderID)
	}
	return s, true, nil
}

func (m *Manager) newSession(userID, orderID string, role domain.Role) *Session {
	s := newSession(userID, orderID, role, m.cfg, sessionDeps{
		store:    m.store,
		gw:       m.gw,
		source:   m.geo.Source(userID),
		renderer: m.renderer,
		metrics:  m.metrics,
		logger:   m.logger,
		now:      m.now,
	})
	s.onStop = m.release
	s.onTerminal = func(orderID string, status domain.OrderStatus) {
		m.StopOrder(orderID, "order "+string(status))
	}
	return s
}

// release forgets a stopped session.
func (m *Manager) release(s *Session) {
	key := sessionKey{userID: s.userID, orderID: s.orderID}
	m.mu.Lock()
	if m.sessions[key] == s {
		delete(m.sessions, key)
	}
	n := len(m.sessions)
	m.mu.Unlock()
	m.metrics.SetActiveSessions(n)
}

// Stop ends the session of userID on orderID. It reports whether one existed.
func (m *Manager) Stop(userID, orderID string) bool {
	key := sessionKey{userID: userID, orderID: orderID}
	m.mu.Lock()
	s := m.sessions[key]
	delete(m.sessions, key)
	n := len(m.sessions)
	m.mu.Unlock()

	if s == nil {
		return false
	}
	m.metrics.SetActiveSessions(n)
	s.Stop(ReasonStopped)
	return true
}

// StopOrder ends every session of orderID and forgets its positions.
func (m *Manager) StopOrder(orderID, reason string) int {
	m.mu.Lock()
	var victims []*Session
	for k, s := range m.sessions {
		if k.orderID == orderID {
			victims = append(victims, s)
			delete(m.sessions, k)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if len(victims) > 0 {
		m.metrics.SetActiveSessions(n)
	}
	for _, s := range victims {
		s.Stop(reason)
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.StoreTimeout)
	defer cancel()
	if err := m.store.Delete(ctx, orderID); err != nil {
		m.logger.Warn("positions not deleted", logx.String("order_id", orderID), logx.Err(err))
	}
	return len(victims)
}

// HandleOrderStatus applies a pushed order status: terminal statuses stop
// tracking, others are forwarded to subscribers.
func (m *Manager) HandleOrderStatus(_ context.Context, orderID string, status domain.OrderStatus) int {
	if status.Terminal() {
		return m.StopOrder(orderID, "order "+string(status))
	}
	for _, s := range m.byOrder(orderID) {
		s.noteOrderStatus(status)
	}
	return 0
}

// Get returns the session of userID on orderID.
func (m *Manager) Get(userID, orderID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{userID: userID, orderID: orderID}]
	return s, ok
}

// Snapshot returns the status and scene of a session.
func (m *Manager) Snapshot(ctx context.Context, userID, orderID string) (Status, render.Scene, error) {
	s, ok := m.Get(userID, orderID)
	if !ok {
		return Status{}, render.Scene{}, fmt.Errorf("tracking %s: %w", orderID, apperr.ErrNotFound)
	}
	return s.Snapshot(ctx)
}

// Status returns the state of a session.
func (m *Manager) Status(userID, orderID string) (Status, error) {
	s, ok := m.Get(userID, orderID)
	if !ok {
		return Status{}, fmt.Errorf("tracking %s: %w", orderID, apperr.ErrNotFound)
	}
	return s.Status(), nil
}

// RetrySelf re-attempts the self position watch of a session.
func (m *Manager) RetrySelf(userID, orderID string) (Status, error) {
	s, ok := m.Get(userID, orderID)
	if !ok {
		return Status{}, fmt.Errorf("tracking %s: %w", orderID, apperr.ErrNotFound)
	}
	err := s.RetrySelf()
	if errors.Is(err, ErrSessionStopped) {
		return s.Status(), fmt.Errorf("tracking %s: %w", orderID, apperr.ErrNotFound)
	}
	return s.Status(), err
}

// Subscribe attaches to the event stream of a session.
func (m *Manager) Subscribe(userID, orderID string) (<-chan Event, func(), error) {
	s, ok := m.Get(userID, orderID)
	if !ok {
		return nil, nil, fmt.Errorf("tracking %s: %w", orderID, apperr.ErrNotFound)
	}
	ch, cancel := s.Subscribe()
	return ch, cancel, nil
}

// Active returns the number of running sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown stops every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for k, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, k)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.Stop(ReasonShutdown)
	}
	m.metrics.SetActiveSessions(0)
}

func (m *Manager) byOrder(orderID string) []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for k, s := range m.sessions {
		if k.orderID == orderID {
			out = append(out, s)
		}
	}
	return out
}
