package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evrodrive/leadgate/cmd/mainconfig"
	"github.com/evrodrive/leadgate/internal/api/router"
	"github.com/evrodrive/leadgate/internal/app/bootstrap"
	appconfig "github.com/evrodrive/leadgate/internal/config"
	"github.com/evrodrive/leadgate/internal/leads"
	"github.com/evrodrive/leadgate/internal/notify"
	"github.com/evrodrive/leadgate/internal/observability/metrics"
	"github.com/evrodrive/leadgate/internal/recaptcha"
	"github.com/evrodrive/leadgate/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadgate API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"recaptcha_enabled", cfg.RecaptchaEnabled,
	)

	ctx := context.Background()

	var awsCfg *aws.Config
	if bootstrap.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		awsCfg = &loaded
	}

	repo, cleanup, err := bootstrap.Repository(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to initialize lead storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	verifier := recaptcha.New(recaptcha.Config{
		Enabled:   cfg.RecaptchaEnabled,
		Secret:    cfg.RecaptchaSecret,
		Threshold: cfg.RecaptchaThreshold,
	}, recaptcha.WithLogger(logger))

	alerter := notify.NewLeadAlerter(bootstrap.EmailSender(cfg, awsCfg, logger), cfg.NotifyTo, logger)

	registry := prometheus.NewRegistry()
	leadMetrics := metrics.NewLeadMetrics(registry)

	service := leads.NewService(leads.ServiceConfig{
		Repository:     repo,
		Verifier:       verifier,
		RequireCaptcha: cfg.RecaptchaEnabled,
		Notifier:       alerter,
		Metrics:        leadMetrics,
		Logger:         logger,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(service, leadMetrics, logger),
		AdminHandler:       leads.NewAdminHandler(repo, logger),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		AdminAllowedDomain: cfg.AdminAllowedDomain,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

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
