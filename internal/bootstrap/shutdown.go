package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/PulseHub_Go/internal/database"
	"github.com/osse101/PulseHub_Go/internal/scheduler"
	"github.com/osse101/PulseHub_Go/internal/server"
	"github.com/osse101/PulseHub_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server    *server.Server
	Scheduler *scheduler.Scheduler
	Workers   *worker.Pool
	Resolver  io.Closer
	DBPool    database.Pool
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler (no new retention jobs)
// 3. Worker pool (flush queued threat log writes)
// 4. Discord REST session and database pool
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		slog.Info(LogMsgStoppingScheduler)
		components.Scheduler.Stop()
	}

	// Queued writes still need the database, so the pool closes after the workers
	if components.Workers != nil {
		slog.Info(LogMsgDrainingWorkers)
		stopWithContext(ctx, components.Workers.Stop)
	}

	if components.Resolver != nil {
		if err := components.Resolver.Close(); err != nil {
			slog.Error(LogMsgResolverCloseFailed, "error", err)
		}
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}

// stopWithContext runs stop but gives up waiting once ctx is done
func stopWithContext(ctx context.Context, stop func()) {
	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("Shutdown deadline reached before workers drained", "error", ctx.Err())
	}
}
