// Package main is the entrypoint for the CleanSched API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/priyankverma/cleansched/internal/api"
	"github.com/priyankverma/cleansched/internal/api/handler"
	mw "github.com/priyankverma/cleansched/internal/api/middleware"
	"github.com/priyankverma/cleansched/internal/api/response"
	"github.com/priyankverma/cleansched/internal/billing"
	"github.com/priyankverma/cleansched/internal/cache"
	"github.com/priyankverma/cleansched/internal/config"
	"github.com/priyankverma/cleansched/internal/holiday"
	"github.com/priyankverma/cleansched/internal/notify"
	"github.com/priyankverma/cleansched/internal/schedule"
	"github.com/priyankverma/cleansched/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "holiday_country", cfg.HolidayFeed.CountryCode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store
	pgStore := store.NewPostgresStore(pool)

	// 6. Holiday source: HTTP feed behind the Redis cache
	feed := holiday.NewFeedClient(cfg.HolidayFeed.BaseURL, cfg.HolidayFeed.CountryCode, cfg.HolidayFeed.Timeout)
	holidaySource := holiday.NewCachedSource(feed, redisCache, cfg.HolidayFeed.CountryCode, holiday.DefaultTTL, time.Now)

	// 7. Notifier: webhook when configured, no-op otherwise
	var notifier notify.Notifier = notify.NoopNotifier{}
	var paymentNotifier billing.PaymentNotifier = notify.NoopNotifier{}
	if cfg.Notifier.WebhookURL != "" {
		webhook := notify.NewWebhookNotifier(cfg.Notifier.WebhookURL, cfg.Notifier.Timeout)
		notifier = webhook
		paymentNotifier = webhook
		slog.Info("webhook notifier enabled", "url", cfg.Notifier.WebhookURL)
	}
	dispatcher := notify.NewDispatcher(notifier)

	// 8. Domain services
	seriesSvc := schedule.NewSeriesService(pgStore)
	calendarSvc := schedule.NewCalendarService(pgStore, holidaySource)
	bulkSvc := schedule.NewBulkService(pgStore)
	swapSvc := schedule.NewSwapService(pgStore)
	reminderSvc := billing.NewReminderService(pgStore, paymentNotifier)

	// 9. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler:       healthHandler(pgStore, redisCache),
		CreateSeriesHandler: handler.NewCreateSeriesHandler(seriesSvc),
		CalendarHandler:     handler.NewCalendarHandler(calendarSvc),
		BulkHandler:         handler.NewBulkHandler(bulkSvc),
		ResolveSwapHandler:  handler.NewResolveSwapHandler(swapSvc, dispatcher),
		RunRemindersHandler: handler.NewRunRemindersHandler(reminderSvc),
	}

	router := api.NewRouter(deps)

	// 10. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
