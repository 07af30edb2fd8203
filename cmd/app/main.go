package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/osse101/EcoQuest_Go/internal/bootstrap"
	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/config"
	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/scheduler"
	"github.com/osse101/EcoQuest_Go/internal/server"
	"github.com/osse101/EcoQuest_Go/internal/sse"
	"github.com/osse101/EcoQuest_Go/internal/worker"
)

// Background job pool sizing. Cleanup is the only periodic job.
const (
	jobWorkers   = 2
	jobQueueSize = 16
)

// @title EcoQuest API
// @version 1.0
// @description Recycling progression and daily missions
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	bootstrap.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.InitializeStores(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize stores", "error", err)
		os.Exit(1)
	}

	catalog, err := bootstrap.LoadCatalog(cfg.CatalogDir)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		_ = stores.Close()
		os.Exit(1)
	}

	bus := event.NewMemoryBus()
	svcs := bootstrap.InitializeServices(stores, catalog, bus, clock.NewRealClock(), cfg)

	hub := sse.NewHub()
	hub.Start()

	bridge := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:     bus,
		StatsService: svcs.Stats,
		Hub:          hub,
		Registerer:   prometheus.DefaultRegisterer,
	})

	pool := worker.NewPool(jobWorkers, jobQueueSize)
	pool.Start(ctx)

	cleanup := worker.NewCleanupJob(svcs.Missions, svcs.Recycling)
	sched := scheduler.New(pool)
	sched.ScheduleNow("local-cleanup", cfg.CleanupInterval, cleanup)

	// Retention is day based, so prune again right after the local midnight
	midnight := worker.NewMidnightWorker(cleanup, cfg.Location)
	midnight.Start()

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		Version:        cfg.Version,
		TrustedProxies: cfg.TrustedProxies,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, server.Services{
		Stats:     svcs.Stats,
		Missions:  svcs.Missions,
		Daily:     svcs.Daily,
		Recycling: svcs.Recycling,
		Hub:       hub,
		Readiness: stores.Readiness,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:         srv,
		Scheduler:      sched,
		MidnightWorker: midnight,
		Pool:           pool,
		Bridge:         bridge,
		Hub:            hub,
		Stores:         stores,
	})
}
