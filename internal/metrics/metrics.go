package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}

// Tracking collects tracking session metrics.
type Tracking struct {
	PollFailures   prometheus.Counter
	ActiveSessions prometheus.Gauge
}

// NewTracking returns unregistered tracking collectors.
func NewTracking() *Tracking {
	return &Tracking{
		PollFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracking_poll_failures_total",
			Help: "Total number of failed counterpart position polls",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracking_active_sessions",
			Help: "Number of running tracking sessions",
		}),
	}
}

// PollFailed counts one failed poll.
func (t *Tracking) PollFailed() { t.PollFailures.Inc() }

// SetActiveSessions records the number of running sessions.
func (t *Tracking) SetActiveSessions(n int) { t.ActiveSessions.Set(float64(n)) }

// Collectors lists everything to register.
func (t *Tracking) Collectors() []prometheus.Collector {
	return []prometheus.Collector{t.PollFailures, t.ActiveSessions}
}

// Transitions counts order status transition attempts by result.
type Transitions struct {
	Total *prometheus.CounterVec
}

// NewTransitions returns an unregistered transition counter.
func NewTransitions() *Transitions {
	return &Transitions{Total: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of order status transition attempts",
	}, []string{"result"})}
}

// ObserveTransition counts one attempt.
func (t *Transitions) ObserveTransition(result string) {
	t.Total.WithLabelValues(result).Inc()
}
