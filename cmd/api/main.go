package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/advice"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/amqp"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/config"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/handler"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/middleware"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/repository/cache"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/repository/postgres"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/repository/storage"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/service"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Migrations applied")
	}

	// Connect to database
	pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Connected to database")

	// Initialize repositories
	incomeRepo := postgres.NewIncomeRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	adviceRepo := postgres.NewAdviceRepository(pool)

	provider := advice.NewProvider(cfg.Advice, log.Logger)
	log.Info().Strs("backends", provider.BackendNames()).Msg("Advice provider ready")

	trendCache := newTrendCache(cfg)

	var archive domain.ReportArchive
	if cfg.S3.Enabled() {
		s3Archive, err := storage.NewS3ReportArchive(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize report archive")
		}
		archive = s3Archive
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Report archive enabled")
	}

	// Events go to websocket subscribers and, when configured, the broker
	hub := websocket.NewHub()
	publishers := websocket.MultiPublisher{hub}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to message broker")
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("Publishing events to broker")
	}

	// Initialize services
	reportService := service.NewReportService(incomeRepo, expenseRepo, budgetRepo, reportRepo, provider)
	reportService.SetTrendCache(trendCache, cfg.TrendCacheTTL, cfg.HistoricalTrendCacheTTL)
	if archive != nil {
		reportService.SetArchive(archive, cfg.ArchiveURLExpiry)
	}
	reportService.SetEventPublisher(publishers)

	dashboardService := service.NewDashboardService(incomeRepo, expenseRepo, budgetRepo, categoryRepo)

	insightService := service.NewInsightService(incomeRepo, expenseRepo, adviceRepo, provider, cfg.AdviceHealthFloor)
	insightService.SetEventPublisher(publishers)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.InsightsRatePerMinute, cfg.InsightsRateBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reportService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	budgetHandler := handler.NewBudgetHandler(dashboardService)
	insightHandler := handler.NewInsightHandler(insightService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.OwnerHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":           "ok",
			"adviceBackends":   provider.BackendNames(),
			"websocketClients": hub.TotalClientCount(),
		})
	})

	// Register API routes
	handler.RegisterRoutes(e, rateLimiter, reportHandler, dashboardHandler, budgetHandler, insightHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newTrendCache prefers Redis so trend series are shared across instances
func newTrendCache(cfg *config.Config) domain.TrendCache {
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		log.Info().Msg("Using redis trend cache")
		return cache.NewRedisTrendCache(client)
	}

	memory, err := cache.NewMemoryTrendCache(cfg.TrendCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create trend cache")
	}
	log.Info().Int64("max_entries", cfg.TrendCacheSize).Msg("Using in-memory trend cache")
	return memory
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("owner_id", req.Header.Get(middleware.OwnerHeader)).
				Msg("request")

			return nil
		}
	}
}
