package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"near2door-tracker/internal/logx"
	"near2door-tracker/internal/session"
	"near2door-tracker/internal/tracking"
	"near2door-tracker/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the HTTP server and the order status consumer.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the service using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	logger := loggerFrom(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		panic(err)
	}
}

func loggerFrom(container *dig.Container) logx.Logger {
	var logger logx.Logger = logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type runIn struct {
	dig.In
	Ctx      context.Context
	Server   *http.Server
	Logger   logx.Logger
	Tracking *tracking.Manager
	Session  *session.Context
	Consumer *kafka.Consumer `optional:"true"`
	Redis    *redis.Client   `optional:"true"`
	MQTT     mqtt.Client     `optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

func appRun(in runIn) error {
	if err := in.Ctx.Err(); err != nil {
		return err
	}

	serveErr := startServer(in.Server, in.Logger)

	var wg sync.WaitGroup
	consumerCtx, stopConsumer := context.WithCancel(in.Ctx)
	defer stopConsumer()
	startConsumer(consumerCtx, &wg, in.Consumer, in.Logger)

	var err error
	select {
	case <-in.Ctx.Done():
		in.Logger.Info("shutting down near2door-tracker")
	case err = <-serveErr:
		in.Logger.Error("http server failed", logx.Err(err))
	}

	stopConsumer()
	gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
	wg.Wait()
	closeResources(in)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func startServer(server *http.Server, logger logx.Logger) <-chan error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("near2door-tracker listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	return errc
}

func startConsumer(ctx context.Context, wg *sync.WaitGroup, consumer *kafka.Consumer, logger logx.Logger) {
	if consumer == nil {
		logger.Info("kafka not configured, order status events disabled")
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("order status consumer started")
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("order status consumer stopped", logx.Err(err))
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in runIn) {
	in.Tracking.Shutdown()
	if in.Consumer != nil {
		if err := in.Consumer.Close(); err != nil {
			in.Logger.Error("kafka close error", logx.Err(err))
		}
	}
	if in.MQTT != nil {
		in.MQTT.Disconnect(250)
	}
	if in.Redis != nil {
		if err := in.Redis.Close(); err != nil {
			in.Logger.Error("redis close error", logx.Err(err))
		}
	}
	in.Session.Clear()
}
