package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/geolocation"
	"near2door-tracker/internal/logx"
	"near2door-tracker/internal/render"
)

// ErrSessionStopped is returned by operations on a stopped session.
var ErrSessionStopped = errors.New("tracking session stopped")

// Session watches the live positions of one order for one user. The caller's
// own device feeds the self position, a poll of the backend feeds the
// counterpart.
type Session struct {
	id      string
	orderID string
	userID  string
	role    domain.Role

	cfg      Config
	store    positionStore
	gw       trackingGateway
	source   geolocation.Source
	renderer sceneRenderer
	metrics  trackingMetrics
	logger   logx.Logger
	now      func() time.Time

	onStop     func(*Session)
	onTerminal func(orderID string, status domain.OrderStatus)

	mu       sync.Mutex
	started  bool
	active   bool
	watching bool
	retrying bool
	watchID  geolocation.WatchID
	status   Status
	subs     map[int]chan Event
	nextSub  int
	cancel   context.CancelFunc

	wg sync.WaitGroup
}

type sessionDeps struct {
	store    positionStore
	gw       trackingGateway
	source   geolocation.Source
	renderer sceneRenderer
	metrics  trackingMetrics
	logger   logx.Logger
	now      func() time.Time
}

func newSession(userID, orderID string, role domain.Role, cfg Config, d sessionDeps) *Session {
	id := uuid.NewString()
	if d.metrics == nil {
		d.metrics = nopMetrics{}
	}
	if d.logger == nil {
		d.logger = logx.Nop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	return &Session{
		id:       id,
		orderID:  orderID,
		userID:   userID,
		role:     role,
		cfg:      cfg.withDefaults(),
		store:    d.store,
		gw:       d.gw,
		source:   d.source,
		renderer: d.renderer,
		metrics:  d.metrics,
		logger: d.logger.With(
			logx.String("session_id", id),
			logx.String("order_id", orderID),
			logx.String("user_id", userID),
			logx.String("role", string(role)),
		),
		now:  d.now,
		subs: make(map[int]chan Event),
		status: Status{
			SessionID: id,
			OrderID:   orderID,
			UserID:    userID,
			Role:      role,
		},
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// OrderID returns the tracked order.
func (s *Session) OrderID() string { return s.orderID }

// UserID returns the owner of the session.
func (s *Session) UserID() string { return s.userID }

// Role returns the viewer role.
func (s *Session) Role() domain.Role { return s.role }

// Start registers the self watch and launches the poll loop. A geolocation
// failure does not fail Start: the session degrades to counterpart-only.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		if s.Active() {
			return nil
		}
		return ErrSessionStopped
	}
	s.started = true
	s.active = true
	s.status.Active = true
	s.status.StartedAt = s.now()
	s.mu.Unlock()

	id, werr := s.source.WatchPosition(s.onFix, s.onGeoError, s.cfg.Geolocation)

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		if werr == nil {
			s.source.ClearWatch(id)
		}
		return ErrSessionStopped
	}
	if werr != nil {
		s.status.Degraded = true
		s.status.SelfError = werr.Error()
		s.logger.Warn("self position unavailable, tracking counterpart only", logx.Err(werr))
	} else {
		s.watching = true
		s.watchID = id
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.pollLoop(ctx)
	s.emitLocked(EventStatus)
	s.mu.Unlock()

	s.logger.Info("tracking session started", logx.Bool("degraded", werr != nil))
	return nil
}

// Stop ends the session. After Stop returns no write reaches the store. It is
// idempotent and reports whether this call did the stopping.
func (s *Session) Stop(reason string) bool {
	if !s.halt(reason) {
		return false
	}
	s.wg.Wait()
	return true
}

// Active reports whether the session is running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// stopped reports whether the session ran and was stopped since.
func (s *Session) stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.active
}

// Status returns a copy of the session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot returns the status and the current scene.
func (s *Session) Snapshot(ctx context.Context) (Status, render.Scene, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	view, err := s.store.Get(ctx, s.orderID, s.role)
	if err != nil {
		return s.Status(), render.Scene{}, fmt.Errorf("read positions: %w", err)
	}
	return s.Status(), s.renderer.Render(view, s.role), nil
}

// Subscribe returns a channel of session events and a cancel func. A
// subscriber that does not keep up is dropped and its channel closed.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, s.cfg.SubscriberBuf)
	if s.started && !s.active {
		ch <- Event{Type: EventStopped, Status: s.status, At: s.now()}
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// RetrySelf re-attempts the self position watch of a degraded session.
func (s *Session) RetrySelf() error {
	s.mu.Lock()
	switch {
	case !s.active:
		s.mu.Unlock()
		return ErrSessionStopped
	case s.watching || s.retrying:
		s.mu.Unlock()
		return nil
	}
	s.retrying = true
	s.mu.Unlock()

	id, err := s.source.WatchPosition(s.onFix, s.onGeoError, s.cfg.Geolocation)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.retrying = false
	if !s.active {
		if err == nil {
			go s.source.ClearWatch(id)
		}
		return ErrSessionStopped
	}
	if err != nil {
		s.status.SelfError = err.Error()
		s.emitLocked(EventStatus)
		return err
	}
	s.watching = true
	s.watchID = id
	s.status.Degraded = false
	s.status.SelfError = ""
	s.emitLocked(EventStatus)
	s.logger.Info("self position watch restored")
	return nil
}

func (s *Session) onFix(fx geolocation.Fix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StoreTimeout)
	defer cancel()
	err := s.store.SetSelf(ctx, s.orderID, s.role, domain.TrackedPosition{Coordinate: fx.Coordinate, ObservedAt: fx.At})
	if err != nil {
		s.logger.Warn("self position not stored", logx.Err(err))
		return
	}
	s.status.SelfError = ""
	s.emitLocked(EventUpdated)
}

func (s *Session) onGeoError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.status.SelfError = err.Error()

	var clear geolocation.WatchID
	drop := errors.Is(err, geolocation.ErrPermissionDenied) && s.watching
	if drop {
		clear = s.watchID
		s.watching = false
		s.status.Degraded = true
	}
	s.logger.Warn("self position error", logx.Err(err), logx.Bool("degraded", s.status.Degraded))
	s.emitLocked(EventStatus)

	if drop {
		go s.source.ClearWatch(clear)
	}
}

func (s *Session) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		failures, done := s.poll(ctx)
		if done {
			return
		}
		timer.Reset(pollDelay(s.cfg.PollInterval, s.cfg.MaxBackoff, failures))
	}
}

// poll runs one tick and returns the consecutive failure count and whether the
// loop must end.
func (s *Session) poll(ctx context.Context) (int, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	snap, err := s.gw.GetTracking(reqCtx, s.orderID)
	cancel()

	s.mu.Lock()
	if !s.active || ctx.Err() != nil {
		s.mu.Unlock()
		return 0, true
	}

	if err != nil {
		perr := fmt.Errorf("%w: %v", apperr.ErrTrackingPollFailed, err)
		s.status.PollFailures++
		s.status.PollError = perr.Error()
		failures := s.status.PollFailures
		s.metrics.PollFailed()
		s.logger.Warn("counterpart poll failed",
			logx.Int("failures", failures),
			logx.Duration("next_in", pollDelay(s.cfg.PollInterval, s.cfg.MaxBackoff, failures)),
			logx.Err(err),
		)
		s.emitLocked(EventStatus)
		s.mu.Unlock()
		return failures, false
	}

	now := s.now()
	s.status.PollFailures = 0
	s.status.PollError = ""
	s.status.LastUpdatedAt = now
	observed := snap.UpdatedAt
	if observed.IsZero() {
		observed = now
	}

	storeCtx, storeCancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	if c := snap.Of(s.role.Counterpart()); c != nil {
		if err := s.store.SetCounterpart(storeCtx, s.orderID, s.role, domain.TrackedPosition{Coordinate: *c, ObservedAt: observed}); err != nil {
			s.logger.Warn("counterpart position not stored", logx.Err(err))
		}
	}
	if !s.watching {
		if c := snap.Of(s.role); c != nil {
			if err := s.store.SetSelf(storeCtx, s.orderID, s.role, domain.TrackedPosition{Coordinate: *c, ObservedAt: observed}); err != nil {
				s.logger.Warn("backend self position not stored", logx.Err(err))
			}
		}
	}
	storeCancel()

	if snap.Status.Valid() {
		s.status.OrderStatus = snap.Status
	}
	s.emitLocked(EventUpdated)
	terminal := snap.Status.Terminal()
	s.mu.Unlock()

	if terminal {
		s.logger.Info("order finalized, stopping tracking", logx.String("status", string(snap.Status)))
		s.halt("order " + string(snap.Status))
		if s.onTerminal != nil {
			s.onTerminal(s.orderID, snap.Status)
		}
		return 0, true
	}
	return 0, false
}

// noteOrderStatus records a status learnt outside the poll.
func (s *Session) noteOrderStatus(status domain.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || !status.Valid() {
		return
	}
	s.status.OrderStatus = status
	s.emitLocked(EventStatus)
}

// halt flips the session off without waiting for the poll goroutine.
func (s *Session) halt(reason string) bool {
	s.mu.Lock()
	if !s.active {
		if !s.started {
			s.started = true
			s.status.StoppedAt = s.now()
			s.status.StopReason = reason
		}
		s.mu.Unlock()
		return false
	}
	s.active = false
	s.status.Active = false
	s.status.StoppedAt = s.now()
	s.status.StopReason = reason

	watching, id := s.watching, s.watchID
	s.watching = false
	if s.cancel != nil {
		s.cancel()
	}
	s.emitLocked(EventStopped)
	for k, ch := range s.subs {
		delete(s.subs, k)
		close(ch)
	}
	s.mu.Unlock()

	if watching {
		s.source.ClearWatch(id)
	}
	s.logger.Info("tracking session stopped", logx.String("reason", reason))
	if s.onStop != nil {
		s.onStop(s)
	}
	return true
}

// emitLocked fans an event out. Must hold s.mu.
func (s *Session) emitLocked(t EventType) {
	if len(s.subs) == 0 {
		return
	}
	ev := Event{Type: t, Status: s.status, At: s.now()}
	if t == EventUpdated || t == EventStopped {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StoreTimeout)
		view, err := s.store.Get(ctx, s.orderID, s.role)
		cancel()
		if err == nil {
			ev.Scene = s.renderer.Render(view, s.role)
		}
	}
	for k, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			delete(s.subs, k)
			close(ch)
			s.logger.Warn("slow subscriber dropped")
		}
	}
}
