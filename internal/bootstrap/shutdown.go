package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/EcoQuest_Go/internal/scheduler"
	"github.com/osse101/EcoQuest_Go/internal/server"
	"github.com/osse101/EcoQuest_Go/internal/sse"
	"github.com/osse101/EcoQuest_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server         *server.Server
	Scheduler      *scheduler.Scheduler
	MidnightWorker *worker.MidnightWorker
	Pool           *worker.Pool
	Bridge         *sse.Subscriber
	Hub            *sse.Hub
	Stores         *Stores
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Timers and the job pool (let in-flight cleanup finish)
// 3. SSE bridge and hub, then the stores everything above wrote to
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.MidnightWorker != nil {
		if err := c.MidnightWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgWorkerShutdownFailed, "error", err)
		}
	}
	if c.Pool != nil {
		c.Pool.Stop()
	}

	if c.Bridge != nil {
		c.Bridge.Unsubscribe()
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.Stores != nil {
		if err := c.Stores.Close(); err != nil {
			slog.Error(LogMsgStoreCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
