package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/geolocation"
	"near2door-tracker/internal/render"
	"near2door-tracker/internal/tracking"
)

type stubTracking struct {
	startFn     func(ctx context.Context, userID, orderID string, role domain.Role) (tracking.Status, bool, error)
	stopFn      func(userID, orderID string) bool
	snapshotFn  func(ctx context.Context, userID, orderID string) (tracking.Status, render.Scene, error)
	statusFn    func(userID, orderID string) (tracking.Status, error)
	retryFn     func(userID, orderID string) (tracking.Status, error)
	subscribeFn func(userID, orderID string) (<-chan tracking.Event, func(), error)
}

func (s *stubTracking) Start(ctx context.Context, userID, orderID string, role domain.Role) (tracking.Status, bool, error) {
	if s.startFn == nil {
		panic("Start not expected in this test")
	}
	return s.startFn(ctx, userID, orderID, role)
}

func (s *stubTracking) Stop(userID, orderID string) bool {
	if s.stopFn == nil {
		panic("Stop not expected in this test")
	}
	return s.stopFn(userID, orderID)
}

func (s *stubTracking) Snapshot(ctx context.Context, userID, orderID string) (tracking.Status, render.Scene, error) {
	if s.snapshotFn == nil {
		panic("Snapshot not expected in this test")
	}
	return s.snapshotFn(ctx, userID, orderID)
}

func (s *stubTracking) Status(userID, orderID string) (tracking.Status, error) {
	if s.statusFn == nil {
		panic("Status not expected in this test")
	}
	return s.statusFn(userID, orderID)
}

func (s *stubTracking) RetrySelf(userID, orderID string) (tracking.Status, error) {
	if s.retryFn == nil {
		panic("RetrySelf not expected in this test")
	}
	return s.retryFn(userID, orderID)
}

func (s *stubTracking) Subscribe(userID, orderID string) (<-chan tracking.Event, func(), error) {
	if s.subscribeFn == nil {
		panic("Subscribe not expected in this test")
	}
	return s.subscribeFn(userID, orderID)
}

type stubFixes struct {
	pushed []geolocation.Fix
	failed []error
	err    error
}

func (s *stubFixes) Push(_ string, fx geolocation.Fix) error {
	if s.err != nil {
		return s.err
	}
	s.pushed = append(s.pushed, fx)
	return nil
}

func (s *stubFixes) Fail(_ string, err error) { s.failed = append(s.failed, err) }

func activeStatus(orderID string) tracking.Status {
	return tracking.Status{SessionID: "sess-1", OrderID: orderID, UserID: "c1", Role: domain.RoleCustomer, Active: true}
}

func TestTrackingHandler_Start(t *testing.T) {
	t.Parallel()

	svc := &stubTracking{
		startFn: func(_ context.Context, userID, orderID string, role domain.Role) (tracking.Status, bool, error) {
			require.Equal(t, "c1", userID)
			require.Equal(t, "O1", orderID)
			require.Equal(t, domain.RoleCustomer, role)
			return activeStatus(orderID), true, nil
		},
	}
	h := NewTrackingHandler(nil, svc, nil)

	req := as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1", strings.NewReader(`{"role":"customer"}`)), "O1"), customer)
	rr := httptest.NewRecorder()
	h.Start(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var body trackingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "sess-1", body.Status.SessionID)
	require.True(t, body.Status.Active)
	require.Equal(t, "customer", body.Status.Role)
}

func TestTrackingHandler_StartReusedAndRoleChecks(t *testing.T) {
	t.Parallel()

	svc := &stubTracking{
		startFn: func(_ context.Context, _, orderID string, role domain.Role) (tracking.Status, bool, error) {
			require.Equal(t, domain.RoleAgent, role)
			return activeStatus(orderID), false, nil
		},
	}
	h := NewTrackingHandler(nil, svc, nil)

	rr := httptest.NewRecorder()
	h.Start(rr, as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1", nil), "O1"), agent))
	require.Equal(t, http.StatusOK, rr.Code, "role defaults to the caller's and reuse is 200")

	rr = httptest.NewRecorder()
	h.Start(rr, as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1", strings.NewReader(`{"role":"customer"}`)), "O1"), agent))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.Start(rr, as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1", nil), "O1"), shop))
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	h.Start(rr, withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1", nil), "O1"))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.Start(rr, as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1", strings.NewReader(`{"role":"agent","x":1}`)), "O1"), agent))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"error":"invalid json"}`, rr.Body.String())
}

func TestTrackingHandler_StopIsAlways204(t *testing.T) {
	t.Parallel()

	calls := 0
	h := NewTrackingHandler(nil, &stubTracking{stopFn: func(userID, orderID string) bool {
		calls++
		return calls == 1
	}}, nil)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.Stop(rr, as(withOrder(httptest.NewRequest(http.MethodDelete, "/tracking/O1", nil), "O1"), customer))
		require.Equal(t, http.StatusNoContent, rr.Code)
	}
	require.Equal(t, 2, calls)
}

func TestTrackingHandler_Get(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	scene := render.NewRenderer().Render(domain.PositionView{
		Self:        &domain.TrackedPosition{Coordinate: domain.Coordinate{Lat: 28.6139, Lng: 77.2090}, ObservedAt: now},
		Counterpart: &domain.TrackedPosition{Coordinate: domain.Coordinate{Lat: 28.6328, Lng: 77.2197}, ObservedAt: now},
	}, domain.RoleCustomer)

	h := NewTrackingHandler(nil, &stubTracking{
		snapshotFn: func(context.Context, string, string) (tracking.Status, render.Scene, error) {
			return activeStatus("O1"), scene, nil
		},
	}, nil)

	rr := httptest.NewRecorder()
	h.Get(rr, as(withOrder(httptest.NewRequest(http.MethodGet, "/tracking/O1", nil), "O1"), customer))
	require.Equal(t, http.StatusOK, rr.Code)

	var body trackingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotNil(t, body.Scene)
	require.Len(t, body.Scene.Markers, 2)
	require.Equal(t, "self", body.Scene.Markers[0].Kind)
	require.NotNil(t, body.Scene.Route)
	require.True(t, strings.HasPrefix(body.Scene.Route.Label, "Distance: "))
	require.NotNil(t, body.Scene.Bounds)
}

func TestTrackingHandler_GetUnknownSession(t *testing.T) {
	t.Parallel()

	h := NewTrackingHandler(nil, &stubTracking{
		snapshotFn: func(context.Context, string, string) (tracking.Status, render.Scene, error) {
			return tracking.Status{}, render.Scene{}, apperr.ErrNotFound
		},
	}, nil)

	rr := httptest.NewRecorder()
	h.Get(rr, as(withOrder(httptest.NewRequest(http.MethodGet, "/tracking/O9", nil), "O9"), customer))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTrackingHandler_Fix(t *testing.T) {
	t.Parallel()

	fixes := &stubFixes{}
	h := NewTrackingHandler(nil, &stubTracking{
		statusFn: func(string, string) (tracking.Status, error) { return activeStatus("O1"), nil },
	}, fixes)
	require.True(t, h.AcceptsFixes())

	post := func(body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.Fix(rr, as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1/fix", strings.NewReader(body)), "O1"), customer))
		return rr
	}

	rr := post(`{"lat":28.6139,"lng":77.2090,"accuracy":12,"timestamp":1740823200000}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, fixes.pushed, 1)
	require.Equal(t, domain.Coordinate{Lat: 28.6139, Lng: 77.2090}, fixes.pushed[0].Coordinate)
	require.Equal(t, time.UnixMilli(1740823200000), fixes.pushed[0].At)

	rr = post(`{"error":"permission_denied"}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, fixes.failed, 1)
	require.ErrorIs(t, fixes.failed[0], geolocation.ErrPermissionDenied)

	require.Equal(t, http.StatusBadRequest, post(`{"error":"on fire"}`).Code)
	require.Equal(t, http.StatusBadRequest, post(`{"lat":1}`).Code)

	fixes.err = apperr.ErrInvalidCoordinate
	require.Equal(t, http.StatusBadRequest, post(`{"lat":91,"lng":0}`).Code)
}

func TestTrackingHandler_FixNeedsActiveSession(t *testing.T) {
	t.Parallel()

	fixes := &stubFixes{}
	stopped := activeStatus("O1")
	stopped.Active = false
	results := []struct {
		st  tracking.Status
		err error
	}{
		{err: apperr.ErrNotFound},
		{st: stopped},
	}
	i := 0
	h := NewTrackingHandler(nil, &stubTracking{
		statusFn: func(string, string) (tracking.Status, error) {
			r := results[i]
			i++
			return r.st, r.err
		},
	}, fixes)

	for range results {
		rr := httptest.NewRecorder()
		h.Fix(rr, as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1/fix", strings.NewReader(`{"lat":1,"lng":2}`)), "O1"), customer))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}
	require.Empty(t, fixes.pushed)
}

func TestTrackingHandler_FixWithoutPusher(t *testing.T) {
	t.Parallel()

	h := NewTrackingHandler(nil, &stubTracking{}, nil)
	require.False(t, h.AcceptsFixes())

	rr := httptest.NewRecorder()
	h.Fix(rr, as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1/fix", strings.NewReader(`{"lat":1,"lng":2}`)), "O1"), customer))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTrackingHandler_RetrySelf(t *testing.T) {
	t.Parallel()

	degraded := activeStatus("O1")
	degraded.Degraded = true
	degraded.SelfError = geolocation.ErrPermissionDenied.Error()

	results := []error{geolocation.ErrPermissionDenied, nil, apperr.ErrNotFound}
	i := 0
	h := NewTrackingHandler(nil, &stubTracking{
		retryFn: func(string, string) (tracking.Status, error) {
			err := results[i]
			i++
			if err == nil {
				return activeStatus("O1"), nil
			}
			return degraded, err
		},
	}, nil)

	call := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.RetrySelf(rr, as(withOrder(httptest.NewRequest(http.MethodPost, "/tracking/O1/retry-self", nil), "O1"), customer))
		return rr
	}

	rr := call()
	require.Equal(t, http.StatusOK, rr.Code, "geolocation failures are status flags")
	var body trackingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.True(t, body.Status.Degraded)
	require.Equal(t, "geolocation permission denied", body.Status.SelfError)

	rr = call()
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.False(t, body.Status.Degraded)

	require.Equal(t, http.StatusNotFound, call().Code)
}

func TestDeviceError(t *testing.T) {
	t.Parallel()

	for code, want := range map[string]error{
		"permission_denied":    geolocation.ErrPermissionDenied,
		" TIMEOUT ":            geolocation.ErrTimeout,
		"position_unavailable": geolocation.ErrUnavailable,
	} {
		got, ok := deviceError(code)
		require.True(t, ok, code)
		require.True(t, errors.Is(got, want), code)
	}
	_, ok := deviceError("nope")
	require.False(t, ok)
}
