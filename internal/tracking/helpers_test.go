package tracking

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/geolocation"
	"near2door-tracker/internal/position"
	"near2door-tracker/internal/render"
)

type gatewayStub struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, orderID string) (domain.TrackingSnapshot, error)
}

func (g *gatewayStub) GetTracking(ctx context.Context, orderID string) (domain.TrackingSnapshot, error) {
	g.mu.Lock()
	g.calls++
	fn := g.fn
	g.mu.Unlock()
	if fn == nil {
		return domain.TrackingSnapshot{}, nil
	}
	return fn(ctx, orderID)
}

func (g *gatewayStub) set(fn func(ctx context.Context, orderID string) (domain.TrackingSnapshot, error)) {
	g.mu.Lock()
	g.fn = fn
	g.mu.Unlock()
}

func (g *gatewayStub) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func snapshotOf(customer, agent *domain.Coordinate, status domain.OrderStatus) func(context.Context, string) (domain.TrackingSnapshot, error) {
	return func(context.Context, string) (domain.TrackingSnapshot, error) {
		return domain.TrackingSnapshot{Customer: customer, Agent: agent, Status: status}, nil
	}
}

type metricsStub struct {
	pollFailures atomic.Int64
	active       atomic.Int64
}

func (m *metricsStub) PollFailed()             { m.pollFailures.Add(1) }
func (m *metricsStub) SetActiveSessions(n int) { m.active.Store(int64(n)) }

// countingStore records every write that reaches the wrapped store.
type countingStore struct {
	*position.MemoryStore
	writes  atomic.Int64
	deletes atomic.Int64
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: position.NewMemoryStore()}
}

func (s *countingStore) SetSelf(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error {
	s.writes.Add(1)
	return s.MemoryStore.SetSelf(ctx, orderID, role, pos)
}

func (s *countingStore) SetCounterpart(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error {
	s.writes.Add(1)
	return s.MemoryStore.SetCounterpart(ctx, orderID, role, pos)
}

func (s *countingStore) Delete(ctx context.Context, orderID string) error {
	s.deletes.Add(1)
	return s.MemoryStore.Delete(ctx, orderID)
}

type sourceStub struct {
	mu      sync.Mutex
	watchFn func() (geolocation.WatchID, error)
	cleared []geolocation.WatchID
	onFix   func(geolocation.Fix)
	onErr   func(error)
}

func (s *sourceStub) WatchPosition(onFix func(geolocation.Fix), onErr func(error), _ geolocation.Options) (geolocation.WatchID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFix, s.onErr = onFix, onErr
	if s.watchFn == nil {
		return 1, nil
	}
	return s.watchFn()
}

func (s *sourceStub) ClearWatch(id geolocation.WatchID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, id)
}

func (s *sourceStub) CurrentPosition(context.Context, geolocation.Options) (geolocation.Fix, error) {
	return geolocation.Fix{}, geolocation.ErrUnavailable
}

func (s *sourceStub) fail(err error) {
	s.mu.Lock()
	fn := s.onErr
	s.mu.Unlock()
	fn(err)
}

type providerStub struct {
	src geolocation.Source
}

func (p providerStub) Source(string) geolocation.Source { return p.src }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.MaxBackoff = 40 * time.Millisecond
	cfg.StoreTimeout = time.Second
	cfg.RequestTimeout = time.Second
	return cfg
}

type testEnv struct {
	store   *countingStore
	gw      *gatewayStub
	hub     *geolocation.PushHub
	metrics *metricsStub
	mgr     *Manager
}

func newTestEnv(t *testing.T, provider geolocation.Provider) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   newCountingStore(),
		gw:      &gatewayStub{},
		hub:     geolocation.NewPushHub(),
		metrics: &metricsStub{},
	}
	if provider == nil {
		provider = env.hub
	}
	env.mgr = NewManager(env.store, env.gw, provider, render.NewRenderer(), env.metrics, testConfig(), nil)
	t.Cleanup(env.mgr.Shutdown)
	return env
}

func coord(lat, lng float64) *domain.Coordinate {
	return &domain.Coordinate{Lat: lat, Lng: lng}
}

func waitEvent(t *testing.T, ch <-chan Event, want EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed before %s event", want)
			}
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %s event", want)
		}
	}
}
