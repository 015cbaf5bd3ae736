package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/PulseHub_Go/internal/account"
	"github.com/osse101/PulseHub_Go/internal/authgate"
	"github.com/osse101/PulseHub_Go/internal/bansync"
	"github.com/osse101/PulseHub_Go/internal/bootstrap"
	"github.com/osse101/PulseHub_Go/internal/config"
	"github.com/osse101/PulseHub_Go/internal/database"
	"github.com/osse101/PulseHub_Go/internal/discord"
	"github.com/osse101/PulseHub_Go/internal/handler"
	"github.com/osse101/PulseHub_Go/internal/linkcode"
	"github.com/osse101/PulseHub_Go/internal/linking"
	"github.com/osse101/PulseHub_Go/internal/scheduler"
	"github.com/osse101/PulseHub_Go/internal/server"
	"github.com/osse101/PulseHub_Go/internal/session"
	"github.com/osse101/PulseHub_Go/internal/threatlog"
	"github.com/osse101/PulseHub_Go/internal/web"
	"github.com/osse101/PulseHub_Go/internal/worker"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("PulseHub exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	connString := cfg.GetDBConnString()
	if err := database.Migrate(ctx, connString); err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, database.PoolConfig{
		ConnString:      connString,
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return err
	}

	repos := bootstrap.NewRepositories(pool, cfg.StoreTimeout)

	// Background writes for the threat log
	workers := worker.NewPool(bootstrap.ThreatWorkers, bootstrap.ThreatQueueSize, bootstrap.ThreatJobTimeout)
	workers.Start()
	threats := threatlog.NewService(repos.Threats, workers)

	sched := scheduler.New(workers)
	sched.Schedule("threat_log_cleanup", threatlog.CleanupInterval, threatlog.NewCleanupJob(threats, cfg.ThreatLogRetentionDays))

	// Ban reasons come from the guild audit log when a bot token is configured
	var (
		resolver    bansync.ReasonResolver
		resolverRef *discord.AuditReasonResolver
	)
	if cfg.DiscordToken != "" {
		resolverRef, err = discord.NewAuditReasonResolver(cfg.DiscordToken, cfg.DiscordGuildID)
		if err != nil {
			return err
		}
		resolver = resolverRef
	}

	accounts := account.NewService(repos.Accounts, linkcode.NewGenerator(repos.Accounts))
	linker := linking.NewService(repos.Accounts)
	bans := bansync.NewService(repos.Accounts, resolver, cfg.BanReasonLookupTimeout, cfg.DefaultBanReason)

	pages, err := web.NewRenderer()
	if err != nil {
		return err
	}
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	webHandlers := handler.NewWebHandlers(accounts, sessions, pages, threats, cfg.DiscordInviteURL)
	gate := authgate.NewGate(accounts, sessions, threats, webHandlers.RenderBanPage)

	srv := server.NewServer(server.Options{
		Port:              cfg.Port,
		Version:           cfg.Version,
		Environment:       cfg.Environment,
		APIKey:            cfg.APIKey,
		TrustedProxies:    cfg.TrustedProxies,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}, server.Services{
		DBPool:   pool,
		Accounts: accounts,
		Linking:  linker,
		BanSync:  bans,
		Threats:  threats,
		Gate:     gate,
		Web:      webHandlers,
	})

	components := bootstrap.ShutdownComponents{
		Server:    srv,
		Scheduler: sched,
		Workers:   workers,
		DBPool:    pool,
	}
	if resolverRef != nil {
		components.Resolver = resolverRef
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case err, ok := <-serverErr:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	bootstrap.GracefulShutdown(shutdownCtx, components)

	return runErr
}
