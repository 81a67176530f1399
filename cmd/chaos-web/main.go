package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hargabyte/chaos-web/internal/api"
	"github.com/hargabyte/chaos-web/internal/arena"
	"github.com/hargabyte/chaos-web/internal/config"
	"github.com/hargabyte/chaos-web/internal/observability"
	"github.com/hargabyte/chaos-web/internal/vault"
	"github.com/hargabyte/chaos-web/pkg/sdk"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using the environment")
	}

	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Memory API client, instrumented
	metrics := observability.NewCollector(observability.Namespace)
	client, err := sdk.NewClient(cfg.APIBaseURL,
		sdk.WithTransport(metrics.InstrumentTransport(http.DefaultTransport)),
		sdk.WithTimeout(cfg.APITimeout),
	)
	if err != nil {
		logger.Fatal("Failed to create API client", zap.Error(err))
	}

	// 3. View arena
	views := arena.New(cfg.ViewTTL, arena.WithMaxViews(cfg.MaxViews))

	// 4. Pages
	h := &api.Handler{
		Client:        client,
		Views:         views,
		Metrics:       metrics,
		Log:           logger,
		SecureCookies: cfg.SecureCookies || cfg.TLSSelfSigned,
	}
	router, err := api.NewRouter(h)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. Optional self-signed TLS for local HTTPS
	if cfg.TLSSelfSigned {
		cert, err := vault.GenerateSelfSignedCert()
		if err != nil {
			logger.Fatal("Failed to generate TLS certificate", zap.Error(err))
		}
		srv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	}

	go func() {
		logger.Info("CHAOS portal listening",
			zap.String("address", srv.Addr),
			zap.String("environment", string(cfg.Env)),
			zap.String("api", client.BaseURL()),
			zap.Bool("tls", cfg.TLSSelfSigned),
		)
		var err error
		if cfg.TLSSelfSigned {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 6. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received, draining requests")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	views.Close()
	logger.Info("Shutdown complete")
}
