package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"hrcore/internal/domain/address"
	"hrcore/internal/domain/banking"
	"hrcore/internal/domain/emergency"
	"hrcore/internal/domain/identity"
	"hrcore/internal/domain/onboarding"
	"hrcore/internal/platform/clock"
	"hrcore/internal/platform/config"
	"hrcore/internal/platform/crypto"
	"hrcore/internal/platform/db"
	"hrcore/internal/platform/lock"
	"hrcore/internal/platform/metrics"
	"hrcore/internal/storage/memory"
	"hrcore/internal/storage/postgres"
	onboardinghandler "hrcore/internal/transport/http/handlers/onboarding"
	"hrcore/internal/transport/http/middleware"
	"hrcore/migrations"
)

// Store is everything the record services persist through.
type Store interface {
	onboarding.EmployeeStore
	address.StoreAPI
	emergency.StoreAPI
	identity.StoreAPI
	banking.StoreAPI
}

// Check reports whether a dependency is ready to serve.
type Check func(ctx context.Context) error

type App struct {
	Config config.Config
	Router http.Handler

	closers []func()
}

// New wires storage, locking and the HTTP router from cfg. Without
// DATABASE_URL records live in memory; without REDIS_ADDR locks are
// in-process.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}
	checks := map[string]Check{}

	reg := prometheus.NewRegistry()
	var m *metrics.Collector
	if cfg.MetricsEnabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	sealer, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	var store Store
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		app.closers = append(app.closers, pool.Close)
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, migrationSource(cfg)); err != nil {
				app.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		checks["database"] = pool.Ping
		store = postgres.NewStore(pool, sealer)
	} else {
		slog.Warn("DATABASE_URL not set; records are kept in memory")
		store = memory.New()
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		app.closers = append(app.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		locker = lock.NewRedisLocker(client, cfg.LockTTL)
	}

	handler := NewHandler(store, locker, clock.System{}, m)
	app.Router = NewRouter(cfg, handler, reg, m, checks)
	return app, nil
}

func migrationSource(cfg config.Config) fs.FS {
	if cfg.MigrationsDir != "" {
		return os.DirFS(cfg.MigrationsDir)
	}
	return migrations.FS
}

// NewHandler builds the record services over one store and locker.
func NewHandler(store Store, locker lock.Locker, clk clock.Clock, m *metrics.Collector) *onboardinghandler.Handler {
	addresses := address.NewService(store, locker, clk, m)
	contacts := emergency.NewService(store, locker, clk, m)
	documents := identity.NewService(store, locker, clk, m)
	accounts := banking.NewService(store, locker, clk, m)
	orchestrator := onboarding.NewService(onboarding.Deps{
		Employees: store,
		Addresses: addresses,
		Contacts:  contacts,
		Documents: documents,
		Accounts:  accounts,
		Locker:    locker,
		Clock:     clk,
		Metrics:   m,
	})
	return onboardinghandler.NewHandler(orchestrator, addresses, contacts, documents, accounts)
}

func NewRouter(cfg config.Config, h *onboardinghandler.Handler, reg *prometheus.Registry, m *metrics.Collector, checks map[string]Check) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(m))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, check := range checks {
			if err := check(ctx); err != nil {
				slog.Warn("readiness check failed", "check", name, "err", err)
				http.Error(w, name+" not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))
		h.RegisterRoutes(r)
	})
	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("hrcore server listening", "addr", a.Config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the database pool and Redis client.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
