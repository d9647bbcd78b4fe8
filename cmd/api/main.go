package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/analytics"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth"
	authrepo "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/repository"
	apphttp "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/http"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/http/router"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/notify"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/session"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/scheduler"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/config"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/db"
	pevents "github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/events"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := pevents.NewInMemoryBus(log)

	sessionStore, sessionHealth := initSessionStore(cfg, log)

	leadNotifier, closeNotifier := initLeadNotifier(cfg, log)
	if closeNotifier != nil {
		defer closeNotifier()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, val, log)
	leadsModule := leads.NewModule(pool, eventBus, val, log)
	analyticsModule := analytics.NewModule(pool)

	assessmentsModule, err := assessments.NewModule(pool, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize assessments module", "error", err)
		panic("failed to initialize assessments module: " + err.Error())
	}
	if clips := assessmentsModule.Clips(); clips != nil {
		if err := withRetry(ctx, log, "ensure voice assets bucket", 5, 2*time.Second, func() error {
			return clips.EnsureBucketExists(ctx)
		}); err != nil {
			log.Error("failed to ensure voice assets bucket", "error", err)
			panic("failed to ensure voice assets bucket: " + err.Error())
		}
		log.Info("voice asset storage initialized", "bucket", cfg.GetMinioBucketVoiceAssets())
	}

	playerModule := player.NewModule(
		assessmentsModule.Service(),
		sessionStore,
		leadsModule.Service(),
		assessmentsModule.Resolver(),
		eventBus,
		cfg.GetVoiceFallbackEnabled(),
		val,
		log,
	)

	// Owner notifications ride the event bus into the task queue; the worker
	// binary drains it.
	notifySubscriber := notify.NewLeadNotificationSubscriber(
		leadsModule.Service(),
		assessmentsModule.Service(),
		authrepo.New(pool),
		leadNotifier,
		log,
	)
	notifySubscriber.Register(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:        cfg,
		Logger:        log,
		Health:        db.NewPoolAdapter(pool),
		SessionHealth: sessionHealth,
		EventBus:      eventBus,
		Modules: []apphttp.Module{
			authModule,
			assessmentsModule,
			playerModule,
			leadsModule,
			analyticsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initSessionStore prefers Redis so traversals survive restarts; the memory
// store keeps single-instance deployments working without it.
func initSessionStore(cfg *config.Config, log *logger.Logger) (session.Store, apphttp.HealthChecker) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; respondent sessions are in-memory only")
		return session.NewMemoryStore(cfg.GetSessionTTL()), nil
	}

	store, err := session.NewRedisStore(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure(), cfg.GetSessionTTL())
	if err != nil {
		log.Error("failed to initialize redis session store", "error", err)
		panic("failed to initialize redis session store: " + err.Error())
	}
	log.Info("redis session store initialized")
	return store, store
}

func initLeadNotifier(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.LeadNotifier, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; lead notifications disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize lead notifier client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
