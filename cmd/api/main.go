package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/artemisa-labs/website-api/cmd/mainconfig"
	"github.com/artemisa-labs/website-api/internal/api/router"
	appconfig "github.com/artemisa-labs/website-api/internal/config"
	httpmiddleware "github.com/artemisa-labs/website-api/internal/http/middleware"
	"github.com/artemisa-labs/website-api/internal/leads"
	"github.com/artemisa-labs/website-api/internal/notify"
	"github.com/artemisa-labs/website-api/internal/observability/metrics"
	"github.com/artemisa-labs/website-api/internal/pricing"
	"github.com/artemisa-labs/website-api/pkg/logging"
)

func main() {
	// Best effort: local development reads .env, deployments set real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting website API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store", cfg.LeadStoreBackend,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	leadMetrics := metrics.NewLeadMetrics(registry)

	ctx := context.Background()

	// Lead storage backend
	var (
		repo    leads.Repository
		statsDB *sql.DB
	)
	switch cfg.LeadStoreBackend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = leads.NewPostgresRepository(pool)

		// The stats endpoint reads through database/sql.
		statsDB, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open stats connection", "error", err)
			os.Exit(1)
		}
		defer statsDB.Close()
	case "memory":
		logger.Warn("using in-memory lead store; data is lost on restart")
		repo = leads.NewInMemoryRepository()
	default:
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		dynamoClient := dynamodb.NewFromConfig(awsCfg)
		repo = leads.NewDynamoRepository(dynamoClient, cfg.LeadsTable, cfg.RequestsTable, logger)
	}

	// Rate limiter backend
	var limiter leads.RateLimiter
	switch cfg.RateLimitBackend {
	case "redis":
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		limiter = httpmiddleware.NewRedisSlidingWindowLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow, logger)
	default:
		limiter = httpmiddleware.NewSlidingWindowLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	// Sales notification channel
	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			os.Exit(1)
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	case "sendgrid":
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	default:
		sender = notify.NewStubEmailSender(logger)
	}
	var recipients []string
	if cfg.SalesEmail != "" {
		recipients = []string{cfg.SalesEmail}
	}
	notifier := notify.NewService(sender, recipients, logger)

	captureService := leads.NewCaptureService(repo, limiter, notifier, leadMetrics, logger, cfg.DefaultLanguage, cfg.SalesRecipientID)

	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(captureService, repo, logger),
		PricingHandler:     pricing.NewHandler(logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		DB:                 statsDB,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
