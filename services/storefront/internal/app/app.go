package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/tracing"
	"github.com/utafrali/storefront/services/storefront/internal/catalog"
	"github.com/utafrali/storefront/services/storefront/internal/config"
	"github.com/utafrali/storefront/services/storefront/internal/event"
	handler "github.com/utafrali/storefront/services/storefront/internal/handler/http"
	"github.com/utafrali/storefront/services/storefront/internal/notify"
	"github.com/utafrali/storefront/services/storefront/internal/service"
	"github.com/utafrali/storefront/services/storefront/internal/session"
	"github.com/utafrali/storefront/services/storefront/internal/storage"
	"github.com/utafrali/storefront/services/storefront/internal/storage/breaker"
	"github.com/utafrali/storefront/services/storefront/internal/storage/memory"
	pgstorage "github.com/utafrali/storefront/services/storefront/internal/storage/postgres"
	redisstorage "github.com/utafrali/storefront/services/storefront/internal/storage/redis"
)

const sessionSweepInterval = time.Minute

// initTracer is replaced in tests.
var initTracer = tracing.InitTracer

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	sessions   *session.Registry
	httpServer *http.Server

	stopTracing tracing.ShutdownFunc
	background  context.Context
	stop        context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	stopTracing, err := initTracer(ctx, tracing.Config{
		ServiceName:  "storefront-service",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.OTelSampleRate,
		Enabled:      cfg.OTelEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.stopTracing = stopTracing

	// Load the product catalog.
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		a.stopTracingOnError(ctx)
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		slog.Int("products", cat.Len()),
		slog.String("path", cfg.CatalogPath),
	)

	// Open the durable backend behind a circuit breaker.
	backend, err := a.openStorage(ctx)
	if err != nil {
		a.closeClients()
		a.stopTracingOnError(ctx)
		return nil, err
	}
	guarded := breaker.New(backend, breaker.DefaultConfig(cfg.StorageBackend), logger)

	// Initialize the event publisher.
	var publisher event.Publisher = event.NopPublisher{}
	if cfg.EventsEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = a.producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	a.background, a.stop = context.WithCancel(context.Background())
	a.sessions = session.NewRegistry(session.Options{
		Storage: guarded,
		Notify: notify.Options{
			MobileBreakpoint: cfg.ToastMobileBreakpoint,
			AnchorOffset:     cfg.ToastAnchorOffset,
		},
		Logger:  logger,
		IdleTTL: cfg.SessionIdleTTL(),
	})
	svc := service.New(cat, a.sessions, event.NewProducer(publisher, logger), logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("storage", guarded.Ping)
	healthHandler.Register("catalog", func(context.Context) error {
		if cat.Len() == 0 {
			return errors.New("catalog is empty")
		}
		return nil
	})
	if a.producer != nil {
		healthHandler.Register("kafka", a.producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(a.background, svc, healthHandler, logger, handler.RouterConfig{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

// openStorage connects the configured backend.
func (a *App) openStorage(ctx context.Context) (storage.Storage, error) {
	cfg := a.cfg
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		return redisstorage.New(rdb, cfg.StateTTLDuration()), nil

	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(ctx, database.DefaultPostgresConfig(cfg.PostgresDSN), a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		st := pgstorage.New(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure state schema: %w", err)
		}
		a.logger.Info("connected to PostgreSQL")
		return st, nil

	default:
		a.logger.Warn("using in-memory storage; state is lost on restart")
		return memory.New(), nil
	}
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.httpServer.Handler }

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.sessions.Run(a.background, sessionSweepInterval)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Stop the sweeper and rate limiter cleanup, then drop pending timers.
	a.stop()
	a.sessions.Close()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	a.closeClients()

	if err := a.stopTracing(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

// stopTracingOnError flushes the tracer when NewApp gives up part way.
func (a *App) stopTracingOnError(ctx context.Context) {
	if err := a.stopTracing(ctx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}
}

func (a *App) closeClients() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
