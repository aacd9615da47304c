package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"near2door-tracker/internal/http/handlers"
	mw "near2door-tracker/internal/http/middleware"
	"near2door-tracker/internal/logx"
)

// Deps are the handlers and middlewares the router mounts. Debug and
// RateLimit may be nil.
type Deps struct {
	Logger         logx.Logger
	Base           *handlers.Handlers
	Tracking       *handlers.TrackingHandler
	Orders         *handlers.OrdersHandler
	Authenticate   func(http.Handler) http.Handler
	RateLimit      func(http.Handler) http.Handler
	Metrics        http.Handler
	Debug          http.Handler
	RequestTimeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 15 * time.Second
	}
	if d.Metrics == nil {
		d.Metrics = promhttp.Handler()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Observability(d.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", d.Metrics)
	if d.Debug != nil {
		r.Mount("/debug", d.Debug)
	}
	r.NotFound(d.Base.NotFound)
	r.MethodNotAllowed(d.Base.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(d.Authenticate)

		// the stream outlives any request timeout
		r.Get("/tracking/{orderID}/ws", d.Tracking.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(d.RequestTimeout))

			r.Route("/tracking/{orderID}", func(r chi.Router) {
				r.Post("/", d.Tracking.Start)
				r.Get("/", d.Tracking.Get)
				r.Delete("/", d.Tracking.Stop)
				r.Post("/retry-self", d.Tracking.RetrySelf)
				if d.Tracking.AcceptsFixes() {
					r.With(optional(d.RateLimit)).Post("/fix", d.Tracking.Fix)
				}
			})

			r.Get("/orders", d.Orders.List)
			r.Post("/orders", d.Orders.Create)
			r.Put("/orders/{orderID}/status", d.Orders.UpdateStatus)
			r.Get("/orders/{orderID}/actions", d.Orders.Actions)
		})
	})

	return r
}

func optional(m func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return m
}
