package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/pvehvila/spotprice-aggregation/internal/api/http"
	"github.com/pvehvila/spotprice-aggregation/internal/config"
	"github.com/pvehvila/spotprice-aggregation/internal/diag"
	"github.com/pvehvila/spotprice-aggregation/internal/scheduler"
	"github.com/pvehvila/spotprice-aggregation/internal/spot"
	"github.com/pvehvila/spotprice-aggregation/internal/spot/sources"
	"github.com/pvehvila/spotprice-aggregation/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound feed calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Diagnostic sink: bounded ring buffer in front of the process log.
	recorder := diag.NewRecorder(cfg.TraceCapacity, diag.LogReporter{})

	// Upstream feeds with resilience (backoff + circuit breaker), wrapped
	// in TTL memoization so repeated series requests stay cheap.
	rolling := &store.CachedRolling{
		Source: sources.NewRollingFeed(httpClient, cfg.RollingFeedURL, cfg.Timezone),
		TTL:    cfg.SeriesCacheTTL,
	}
	daily := &store.CachedDay{
		Source:   sources.NewDayFeed(httpClient, cfg.DayFeedURLTemplate, cfg.Timezone),
		TTL:      cfg.SeriesCacheTTL,
		EmptyTTL: cfg.EmptyCacheTTL,
		MaxDays:  7,
	}

	// Core service reconciling the feeds into canonical series.
	service := spot.NewService(rolling, daily, cfg.Timezone, cfg.WindowSlots, cfg.AxisStepCents, recorder)

	// Scheduler that keeps today's and tomorrow's series warm.
	sched := scheduler.New(cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "spotprice-aggregation",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "spotprice-aggregation",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, recorder)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
