package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/todohub/internal/auth"
	"github.com/geocoder89/todohub/internal/cache"
	"github.com/geocoder89/todohub/internal/config"
	"github.com/geocoder89/todohub/internal/db"
	httpx "github.com/geocoder89/todohub/internal/http"
	"github.com/geocoder89/todohub/internal/http/handlers"
	"github.com/geocoder89/todohub/internal/notifications"
	"github.com/geocoder89/todohub/internal/observability"
	"github.com/geocoder89/todohub/internal/repo/memory"
	"github.com/geocoder89/todohub/internal/repo/postgres"
	"github.com/geocoder89/todohub/internal/service"
	"github.com/geocoder89/todohub/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		Enabled:     cfg.OTELEnabled,
		Endpoint:    cfg.OTELEndpoint,
		Environment: cfg.Env,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	readiness := map[string]handlers.Pinger{}

	// storage
	var (
		userStore service.UserStore
		todoStore service.TodoStore
	)

	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		userStore = memory.NewUsersRepo()
		todoStore = memory.NewTodosRepo()
	default:
		if cfg.MigrateOnStart {
			if err := db.Migrate(cfg.DBURL); err != nil {
				log.Error("migrations failed", "err", err)
				os.Exit(1)
			}
			log.Info("migrations applied")
		}

		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		readiness["db"] = pool
		userStore = postgres.NewUsersRepo(pool, prom)
		todoStore = postgres.NewTodosRepo(pool, prom)
	}

	// user lookup cache
	var cacheStore cache.Store = cache.NewMemory(cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
			Prefix:   observability.ServiceName + ":",
		})
		if err != nil {
			log.Warn("redis unavailable, falling back to in-process cache", "addr", cfg.RedisAddr, "err", err)
		} else {
			defer rdb.Close()
			cacheStore = rdb
			readiness["redis"] = rdb
		}
	}
	userStore = cache.NewCachedUsers(userStore, cacheStore, prom)

	users := service.NewUserService(userStore)

	seedCtx, cancelSeed := config.WithTimeout(10 * time.Second)
	if err := db.SeedUsers(seedCtx, users, cfg); err != nil {
		log.Error("seed failed", "err", err)
	}
	cancelSeed()

	// activation mails go through a bounded pool so register never waits on the notifier
	jobs := worker.NewPool(cfg.NotifyWorkers)
	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(log),
		notifications.ProtectedNotifierConfig{},
	)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn())

	var shuttingDown atomic.Bool

	router := httpx.NewRouter(httpx.Deps{
		Env:                    cfg.Env,
		Auth:                   service.NewAuthService(users, tokens, notifier, jobs, prom),
		Profiles:               users,
		Todos:                  service.NewTodoService(todoStore),
		Tokens:                 tokens,
		JWTExpiresIn:           tokens.ExpiresIn(),
		Prom:                   prom,
		Gatherer:               reg,
		ReadinessDeps:          readiness,
		IsShuttingDown:         shuttingDown.Load,
		CORSAllowedOrigins:     cfg.CORSAllowedOrigins,
		AuthRateLimitPerMinute: cfg.AuthRateLimitPerMinute,
		UserRateLimitPerMinute: cfg.UserRateLimitPerMinute,
		MaxBodyBytes:           cfg.MaxBodyBytes,
		TracingEnabled:         cfg.OTELEnabled,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shuttingDown.Store(true)
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
		if err := jobs.Stop(ctx); err != nil {
			log.Error("notification workers did not drain", "err", err)
		}
		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
