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

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/app"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/catalog"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/documents"
	jobmetrics "github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/jobs"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/platform/db"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	registry := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(registry)

	bookingRepo := booking.NewRepository(pool)
	calculator := booking.NewCostCalculator(catalog.NewRepository(pool))
	bookingService := booking.NewService(bookingRepo, calculator, logger, metrics)

	documentRepo := documents.NewRepository(pool)
	migrator := documents.NewMigrator(documentRepo, bookingRepo, logger, metrics).
		WithChunkSize(cfg.DocumentChunkSize)

	recomputeJob := jobs.NewBookingRecomputeJob(bookingService, logger)
	migrateJob := jobs.NewDocumentsMigrateJob(migrator, logger)

	nightlyRecompute, err := jobs.NewBookingRecomputeTask("all", cfg.BookingChunkSize)
	if err != nil {
		logger.Error("build recompute task", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBookingRecompute, Handler: recomputeJob.Handle},
			{Type: jobs.TaskDocumentsMigrate, Handler: migrateJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: nightlyRecompute, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		_ = inspector.Close()
	}()

	router := chi.NewRouter()
	router.Route("/jobs", jobs.NewHandler(inspector, logger).MountRoutes)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.WorkerAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("worker ops endpoint listening", slog.String("addr", cfg.WorkerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
