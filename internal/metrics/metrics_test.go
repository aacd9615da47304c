package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTracking(t *testing.T) {
	t.Parallel()
	m := NewTracking()
	m.PollFailed()
	m.PollFailed()
	m.SetActiveSessions(3)

	require.Equal(t, 2.0, testutil.ToFloat64(m.PollFailures))
	require.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))

	reg := prometheus.NewRegistry()
	for _, c := range m.Collectors() {
		require.NoError(t, reg.Register(c))
	}
}

func TestTransitions(t *testing.T) {
	t.Parallel()
	m := NewTransitions()
	m.ObserveTransition("applied")
	m.ObserveTransition("applied")
	m.ObserveTransition("rejected")

	require.Equal(t, 2.0, testutil.ToFloat64(m.Total.WithLabelValues("applied")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Total.WithLabelValues("rejected")))
	require.Equal(t, 2, testutil.CollectAndCount(m.Total))
}
