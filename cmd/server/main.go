// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"showup/internal/confirmation"
	eventmetrics "showup/internal/event/metrics"
	"showup/internal/event/store"
	jwttoken "showup/internal/jwt_token"
	"showup/internal/notifications"
	"showup/internal/notifications/kafka"
	"showup/internal/platform/config"
	"showup/internal/platform/httpserver"
	"showup/internal/platform/logger"
	platformmetrics "showup/internal/platform/metrics"
	"showup/internal/platform/middleware"
	"showup/internal/platform/ratelimit"
	platformredis "showup/internal/platform/redis"
	"showup/internal/registry"
	"showup/internal/rsvp"
	"showup/internal/settlement"
	httptransport "showup/internal/transport/http"
	"showup/internal/treasury"
	"showup/migrations"
	id "showup/pkg/domain"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registryID, err := parseRegistryID(cfg.RegistryID)
	if err != nil {
		log.Error("invalid registry id", "error", err)
		return err
	}

	// Persistence: PostgreSQL when configured, memory otherwise.
	var (
		eventStore store.Store
		funds      treasury.Treasury
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			return err
		}
		defer db.Close()
		if err := migrations.Apply(ctx, db); err != nil {
			log.Error("failed to apply migrations", "error", err)
			return err
		}

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to create pgx pool", "error", err)
			return err
		}
		defer pool.Close()

		eventStore = store.NewPostgres(db)
		funds = treasury.NewPostgres(pool)
		log.Info("using postgres persistence")
	} else {
		eventStore = store.NewInMemory()
		funds = treasury.NewInMemory()
		log.Info("using in-memory persistence")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		eventStore = store.NewCached(eventStore, redisClient.Client, log)
		log.Info("event record cache enabled")
	}

	// Notifications: Kafka when configured, memory otherwise. Either way
	// services publish through the async worker.
	var sink notifications.Publisher = notifications.NewMemory()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := kafka.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			return err
		}
		defer kafkaPub.Close()
		sink = kafkaPub
		log.Info("kafka notifications enabled", "brokers", cfg.Kafka.Brokers)
	}
	worker := notifications.NewWorker(sink, log)

	domainMetrics := eventmetrics.New()
	httpMetrics := platformmetrics.New()

	registrySvc := registry.New(eventStore, registryID,
		registry.WithLogger(log),
		registry.WithMetrics(domainMetrics),
		registry.WithNotifier(worker),
	)
	rsvpSvc := rsvp.New(eventStore, funds,
		rsvp.WithLogger(log),
		rsvp.WithMetrics(domainMetrics),
		rsvp.WithNotifier(worker),
	)
	confirmationSvc := confirmation.New(eventStore, funds,
		confirmation.WithLogger(log),
		confirmation.WithMetrics(domainMetrics),
		confirmation.WithNotifier(worker),
	)
	settlementSvc := settlement.New(eventStore, funds,
		settlement.WithLogger(log),
		settlement.WithMetrics(domainMetrics),
		settlement.WithNotifier(worker),
		settlement.WithGracePeriod(cfg.GracePeriod),
	)

	var routerOpts []httptransport.RouterOption
	if cfg.RateLimit.Requests > 0 {
		var limits ratelimit.Store = ratelimit.NewInMemory()
		if redisClient != nil {
			// Shared counters so every replica enforces the same budget.
			limits = ratelimit.NewRedis(redisClient.Client)
		}
		throttler := middleware.NewThrottler(limits, cfg.RateLimit.Requests, cfg.RateLimit.Window, log)
		routerOpts = append(routerOpts, httptransport.WithThrottler(throttler))
		log.Info("rate limiting enabled", "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window)
	}

	jwtService := jwttoken.New(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	handler := httptransport.NewHandler(log, registrySvc, rsvpSvc, confirmationSvc, settlementSvc)
	router := httptransport.NewRouter(handler, jwttoken.NewAdapter(jwtService), httpMetrics, log, routerOpts...)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting showup", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		return err
	}
	log.Info("shutdown complete")
	return nil
}

// parseRegistryID resolves the deployment's registry namespace. An empty
// value falls back to the nil-namespace registry, which is fine for a single
// deployment but should be set when several registries share a database.
func parseRegistryID(raw string) (id.RegistryID, error) {
	if raw == "" {
		return id.RegistryID(uuid.Nil), nil
	}
	return id.ParseRegistryID(raw)
}
