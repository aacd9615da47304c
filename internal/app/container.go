package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"near2door-tracker/internal/auth"
	"near2door-tracker/internal/config"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/gateway/backend"
	"near2door-tracker/internal/geolocation"
	"near2door-tracker/internal/http/debug"
	"near2door-tracker/internal/http/handlers"
	"near2door-tracker/internal/http/middleware/ratelimit"
	"near2door-tracker/internal/http/router"
	"near2door-tracker/internal/logx"
	"near2door-tracker/internal/metrics"
	"near2door-tracker/internal/position"
	"near2door-tracker/internal/render"
	"near2door-tracker/internal/service/orders"
	"near2door-tracker/internal/service/orderstatus"
	"near2door-tracker/internal/session"
	"near2door-tracker/internal/tracking"
	"near2door-tracker/internal/transport/kafka"
)

type mqttDialer func(context.Context, geolocation.MQTTConfig) (mqtt.Client, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	dialMQTT   mqttDialer
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		dialMQTT:   geolocation.DialMQTT,
		logFatalf:  log.Fatalf,
	}
}

// WithConfig replaces flag/env loading with a fixed config.
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	if cfg != nil {
		b.loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return b
}

// WithMQTTDialer sets the broker dial function
func (b *ContainerBuilder) WithMQTTDialer(fn func(context.Context, geolocation.MQTTConfig) (mqtt.Client, error)) *ContainerBuilder {
	if fn != nil {
		b.dialMQTT = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerInfra(container, b.dialMQTT); err != nil {
		return nil, fmt.Errorf("infra: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, load func() (*config.Config, error)) error {
	if err := provideAll(container,
		func() context.Context { return ctx },
		load,
		NewLogger,
		prometheus.NewRegistry,
		newSessionContext,
	); err != nil {
		return err
	}
	if err := container.Provide(metrics.NewRateLimitExceededTotal, dig.Name("rate_limit_exceeded_total")); err != nil {
		return fmt.Errorf("provide rate limit counter: %w", err)
	}
	if err := container.Provide(metrics.NewGatewayRetriesTotal, dig.Name("gateway_retries_total")); err != nil {
		return fmt.Errorf("provide retries counter: %w", err)
	}
	return provideAll(container, metrics.NewTracking, metrics.NewTransitions)
}

func newSessionContext(cfg *config.Config) *session.Context {
	return session.New(session.Credentials{
		Token:  cfg.Backend.Token,
		UserID: cfg.Backend.UserID,
		Role:   domain.Actor(cfg.Backend.Role),
		ShopID: cfg.Backend.ShopID,
	})
}

func registerInfra(container *dig.Container, dial mqttDialer) error {
	return provideAll(container,
		func(cfg *config.Config, sess *session.Context) *backend.Client {
			return backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, sess)
		},
		newRetryingGateway,
		newRedisClient,
		newPositionStore,
		newPushHub,
		func(ctx context.Context, cfg *config.Config) (mqtt.Client, error) {
			return newMQTTClient(ctx, cfg, dial)
		},
		newGeolocationProvider,
	)
}

type retryingGatewayIn struct {
	dig.In
	Client  *backend.Client
	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
	Reg     *prometheus.Registry
}

func newRetryingGateway(in retryingGatewayIn) (*backend.RetryingGateway, error) {
	if err := in.Reg.Register(in.Retries); err != nil {
		return nil, fmt.Errorf("register retries counter: %w", err)
	}
	return backend.NewRetryingGateway(in.Client, in.Logger, in.Retries, backend.RetryConfig{
		MaxAttempts: in.Config.Retry.MaxAttempts,
		BaseDelay:   in.Config.Retry.BaseDelay,
		MaxDelay:    in.Config.Retry.MaxDelay,
	}), nil
}

// newRedisClient returns nil when no address is configured.
func newRedisClient(ctx context.Context, cfg *config.Config, logger logx.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := pingWithRetry(ctx, logger, client, 5, time.Second); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func newPositionStore(cfg *config.Config, client *redis.Client) position.Store {
	if client == nil {
		return position.NewMemoryStore()
	}
	return position.NewRedisStore(client, cfg.Redis.TTL)
}

// newPushHub returns nil unless devices push fixes over HTTP.
func newPushHub(cfg *config.Config) *geolocation.PushHub {
	if cfg.Geolocation.Source != config.SourcePush {
		return nil
	}
	return geolocation.NewPushHub()
}

func newMQTTClient(ctx context.Context, cfg *config.Config, dial mqttDialer) (mqtt.Client, error) {
	if cfg.Geolocation.Source != config.SourceMQTT {
		return nil, nil
	}
	m := cfg.Geolocation.MQTT
	client, err := dial(ctx, geolocation.MQTTConfig{
		Broker:      m.Broker,
		ClientID:    m.ClientID,
		Username:    m.Username,
		Password:    m.Password,
		TopicPrefix: m.TopicPrefix,
		QoS:         byte(m.QoS),
	})
	if err != nil {
		return nil, fmt.Errorf("mqtt: %w", err)
	}
	return client, nil
}

func newGeolocationProvider(cfg *config.Config, hub *geolocation.PushHub, client mqtt.Client, logger logx.Logger) (geolocation.Provider, error) {
	switch {
	case hub != nil:
		return hub, nil
	case client != nil:
		m := cfg.Geolocation.MQTT
		return geolocation.NewMQTTProvider(client, m.TopicPrefix, byte(m.QoS), logger), nil
	default:
		return nil, fmt.Errorf("geolocation source %q has no provider", cfg.Geolocation.Source)
	}
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		render.NewRenderer,
		newTrackingManager,
		func(cfg *config.Config, gw *backend.RetryingGateway, client *backend.Client, logger logx.Logger) *orders.Cache {
			return orders.NewCache(gw, client, cfg.OperationTimeout, logger)
		},
		newStatusService,
		func(cache *orders.Cache, m *tracking.Manager, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(cache, m, logger)
		},
		newOrderStatusConsumer,
	)
}

type trackingIn struct {
	dig.In
	Config   *config.Config
	Store    position.Store
	Client   *backend.Client
	Geo      geolocation.Provider
	Renderer *render.Renderer
	Metrics  *metrics.Tracking
	Reg      *prometheus.Registry
	Logger   logx.Logger
}

func newTrackingManager(in trackingIn) (*tracking.Manager, error) {
	if err := registerCollectors(in.Reg, in.Metrics.Collectors()...); err != nil {
		return nil, err
	}
	tc := tracking.DefaultConfig()
	tc.PollInterval = in.Config.Tracking.PollInterval
	tc.MaxBackoff = in.Config.Tracking.MaxBackoff
	tc.RequestTimeout = in.Config.Tracking.RequestTimeout
	return tracking.NewManager(in.Store, in.Client, in.Geo, in.Renderer, in.Metrics, tc, in.Logger), nil
}

func newStatusService(
	cfg *config.Config,
	cache *orders.Cache,
	client *backend.Client,
	m *tracking.Manager,
	transitions *metrics.Transitions,
	reg *prometheus.Registry,
	logger logx.Logger,
) (*orderstatus.Service, error) {
	if err := registerCollectors(reg, transitions.Total); err != nil {
		return nil, err
	}
	return orderstatus.NewService(cache, client, m, transitions, cfg.OperationTimeout, logger), nil
}

func registerCollectors(reg *prometheus.Registry, cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	if err := provideAll(container,
		func(cfg *config.Config) *auth.Manager {
			return auth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
		},
		handlers.New,
		newTrackingHandler,
		func(cache *orders.Cache, statuses *orderstatus.Service, logger logx.Logger) *handlers.OrdersHandler {
			return handlers.NewOrdersHandler(logger, cache, statuses)
		},
		newRateLimitMiddleware,
		newRouter,
		serverProvider,
	); err != nil {
		return err
	}
	if err := container.Provide(newMetricsHandler, dig.Name("metrics_handler")); err != nil {
		return fmt.Errorf("provide metrics handler: %w", err)
	}
	if err := container.Provide(newDebugHandler, dig.Name("debug_handler")); err != nil {
		return fmt.Errorf("provide debug handler: %w", err)
	}
	return nil
}

func newTrackingHandler(m *tracking.Manager, hub *geolocation.PushHub, logger logx.Logger) *handlers.TrackingHandler {
	svc := handlers.NewTrackingService(m)
	if hub == nil {
		return handlers.NewTrackingHandler(logger, svc, nil)
	}
	return handlers.NewTrackingHandler(logger, svc, hub)
}

type rateLimitIn struct {
	dig.In
	Config  *config.Config
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Reg     *prometheus.Registry
}

func newRateLimitMiddleware(in rateLimitIn) (*ratelimit.Middleware, error) {
	if err := in.Reg.Register(in.Counter); err != nil {
		return nil, fmt.Errorf("register rate limit counter: %w", err)
	}
	return ratelimit.New(in.Logger, in.Counter, newRateLimiter(in.Config.RateLimit)).WithKey(userKey), nil
}

// newRateLimiter disables limiting when the limit is zero.
func newRateLimiter(rl config.RateLimit) ratelimit.Limiter {
	if rl.Limit == 0 {
		return ratelimit.NewNopLimiter()
	}
	return ratelimit.NewTokenBucketPerWindow(ratelimit.RealClock{}, rl.Limit, rl.Window, rl.TTL, rl.MaxBuckets)
}

// userKey buckets authenticated requests per user.
func userKey(r *http.Request) string {
	who, ok := auth.IdentityFrom(r.Context())
	if !ok {
		return ""
	}
	return "user:" + who.UserID
}

func newMetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(prometheus.Gatherers{reg, prometheus.DefaultGatherer}, promhttp.HandlerOpts{})
}

// newDebugHandler returns nil when the profiler is disabled.
func newDebugHandler(cfg *config.Config) http.Handler {
	if !cfg.Debug.Enabled {
		return nil
	}
	return debug.Handler(debug.Config{User: cfg.Debug.User, Pass: cfg.Debug.Pass})
}

type routerIn struct {
	dig.In
	Config    *config.Config
	Logger    logx.Logger
	Base      *handlers.Handlers
	Tracking  *handlers.TrackingHandler
	Orders    *handlers.OrdersHandler
	Auth      *auth.Manager
	RateLimit *ratelimit.Middleware
	Metrics   http.Handler `name:"metrics_handler"`
	Debug     http.Handler `name:"debug_handler"`
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Logger:       in.Logger,
		Base:         in.Base,
		Tracking:     in.Tracking,
		Orders:       in.Orders,
		Authenticate: in.Auth.Middleware,
		RateLimit:    in.RateLimit.Handler(),
		Metrics:      in.Metrics,
		Debug:        in.Debug,
	})
}

func newOrderStatusConsumer(cfg *config.Config, p *orders.Processor, logger logx.Logger) (*kafka.Consumer, error) {
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, makeOrdersKafka(p, cfg.OperationTimeout))
}
