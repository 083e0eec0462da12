package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/eddiefleurent/option_screener/internal/api"
	"github.com/eddiefleurent/option_screener/internal/config"
	"github.com/eddiefleurent/option_screener/internal/screener"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithFields(logrus.Fields{
		"addr":         cfg.Addr(),
		"auth_enabled": cfg.AuthEnabled(),
	}).Info("Starting option screening service")

	// Initialize screening engine
	engineCfg := screener.DefaultConfig()
	engineCfg.DistinctSingleLegTags = cfg.Screener.DistinctTags()
	engine := screener.New(engineCfg, log.New(os.Stdout, "[screener] ", log.LstdFlags))

	srv := api.NewServer(cfg, engine, logger)

	// Start server in goroutine so signals can interrupt it
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for interrupt signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Server forced to shutdown")
		}
	}

	logger.Info("Server stopped")
}

// newLogger builds a logrus logger honoring the configured level and format.
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Environment.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Environment.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
