package orders

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"near2door-tracker/internal/domain"
	testlog "near2door-tracker/internal/testutil"
)

func newCtrl(t *testing.T) *gomock.Controller {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}

func TestProcessor_ProgressReachesCacheAndTracking(t *testing.T) {
	t.Parallel()
	ctrl := newCtrl(t)

	cache := NewMockStatusCache(ctrl)
	tracking := NewMockTrackingPort(ctrl)
	gomock.InOrder(
		cache.EXPECT().ApplyStatus("O1", domain.StatusPickedUp).Return(true),
		tracking.EXPECT().HandleOrderStatus(gomock.Any(), "O1", domain.StatusPickedUp).Return(0),
	)

	p := NewProcessor(cache, tracking, nil)
	require.NoError(t, p.Handle(context.Background(), Event{OrderID: " O1 ", Status: "Picked_Up"}))
}

func TestProcessor_TerminalStopsTracking(t *testing.T) {
	t.Parallel()
	ctrl := newCtrl(t)
	rec := testlog.New()

	cache := NewMockStatusCache(ctrl)
	tracking := NewMockTrackingPort(ctrl)
	gomock.InOrder(
		cache.EXPECT().ApplyStatus("O1", domain.StatusDelivered).Return(true),
		tracking.EXPECT().HandleOrderStatus(gomock.Any(), "O1", domain.StatusDelivered).Return(2),
	)

	p := NewProcessor(cache, tracking, rec.Logger())
	require.NoError(t, p.Handle(context.Background(), Event{OrderID: "O1", Status: "delivered"}))

	entries := rec.Find("tracking stopped by order event")
	require.Len(t, entries, 1)
	n, ok := entries[0].Field("sessions")
	require.True(t, ok)
	require.Equal(t, 2, n)
}

func TestProcessor_LegacySpellings(t *testing.T) {
	t.Parallel()
	ctrl := newCtrl(t)

	cache := NewMockStatusCache(ctrl)
	tracking := NewMockTrackingPort(ctrl)
	cache.EXPECT().ApplyStatus("O2", domain.StatusCancelled).Return(false)
	tracking.EXPECT().HandleOrderStatus(gomock.Any(), "O2", domain.StatusCancelled).Return(0)

	p := NewProcessor(cache, tracking, nil)
	require.NoError(t, p.Handle(context.Background(), Event{OrderID: "O2", Status: "canceled"}))
}

func TestProcessor_SkipsUnknownAndEmpty(t *testing.T) {
	t.Parallel()
	ctrl := newCtrl(t)

	// no calls expected on either mock
	p := NewProcessor(NewMockStatusCache(ctrl), NewMockTrackingPort(ctrl), nil)
	err := p.Handle(context.Background(), Event{OrderID: "O1", Status: "cooking"})
	require.ErrorIs(t, err, ErrUnknownStatus)
	require.NoError(t, p.Handle(context.Background(), Event{OrderID: "", Status: "delivered"}))
}

func TestProcessor_EveryKnownStatusReachesTracking(t *testing.T) {
	t.Parallel()
	ctrl := newCtrl(t)

	tracking := NewMockTrackingPort(ctrl)
	var seen []domain.OrderStatus
	tracking.EXPECT().HandleOrderStatus(gomock.Any(), "O3", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, st domain.OrderStatus) int {
			seen = append(seen, st)
			return 0
		}).Times(3)

	p := NewProcessor(nil, tracking, nil)
	for _, st := range []string{"accepted", "picked_up", "delivered"} {
		require.NoError(t, p.Handle(context.Background(), Event{OrderID: "O3", Status: st}))
	}
	require.Equal(t, []domain.OrderStatus{domain.StatusAccepted, domain.StatusPickedUp, domain.StatusDelivered}, seen)
}
