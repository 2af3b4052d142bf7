package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"clinicdesk/internal/clinic"
	clinicmetrics "clinicdesk/internal/clinic/metrics"
	"clinicdesk/internal/clinic/service"
	httpapi "clinicdesk/internal/http"
	"clinicdesk/internal/platform/config"
	"clinicdesk/internal/platform/httpserver"
	"clinicdesk/internal/platform/logger"
	"clinicdesk/internal/platform/metrics"
	"clinicdesk/internal/platform/redis"
	"clinicdesk/internal/realtime/hub"
	"clinicdesk/internal/realtime/relay"
)

// main wires the store, service, push hub and optional relay behind one
// router and owns the process lifecycle.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	hubOpts := []hub.Option{
		hub.WithLogger(log),
		hub.WithMetrics(hub.NewMetrics(reg)),
		hub.WithMaxConnections(cfg.Hub.MaxConnections),
		hub.WithQueueSize(cfg.Hub.QueueSize),
	}
	health := map[string]httpapi.HealthCheck{}
	var eventRelay *relay.Redis
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("close redis", "error", err)
			}
		}()
		eventRelay = relay.New(rdb.Client, cfg.Redis.Channel, relay.WithLogger(log))
		hubOpts = append(hubOpts, hub.WithRelay(eventRelay))
		health["redis"] = rdb.Health
		log.Info("event relay enabled", "channel", cfg.Redis.Channel, "instance_id", eventRelay.InstanceID())
	}
	pushHub := hub.New(hubOpts...)

	svc := clinic.NewService(clinic.NewStore(cfg.Seed), pushHub,
		service.WithLogger(log),
		service.WithMetrics(clinicmetrics.New(reg)),
	)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   log,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Modules:  []httpapi.Registrar{clinic.NewHandler(svc, pushHub, log)},
		Health:   health,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting clinicdesk", "addr", cfg.Addr, "seed", cfg.Seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	if eventRelay != nil {
		g.Go(func() error {
			return eventRelay.Run(gctx, pushHub)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		// Shutdown does not wait for hijacked websocket connections.
		pushHub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
