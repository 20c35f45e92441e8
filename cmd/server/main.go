package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/sebenza/mailstore/internal/api"
	"github.com/sebenza/mailstore/internal/config"
	"github.com/sebenza/mailstore/internal/imapsource"
	"github.com/sebenza/mailstore/internal/outbound"
	"github.com/sebenza/mailstore/internal/storage"
	"github.com/sebenza/mailstore/internal/store"
)

var (
	version     = "dev"
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("mailstore version %s\n", version)
		os.Exit(0)
	}
	// Set up logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	// Set log level
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting mailstore server")

	// Initialize the persistence backend
	backend, err := openBackend(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open storage backend")
	}
	defer backend.Close()

	st := store.New(backend, logger)

	// Optional IMAP ingestion and SMTP sending, only when accounts
	// are configured
	var syncer *imapsource.Syncer
	var mailer *outbound.Mailer
	if len(cfg.Accounts) > 0 {
		syncer = imapsource.NewSyncer(cfg, st, logger)
		defer syncer.Close()

		if account := cfg.GetDefaultAccount(); account != nil && account.SMTPHost != "" {
			mailer = outbound.NewMailer(account, st, logger)
		}
	}

	server := api.NewServer(cfg, st, syncer, mailer, logger)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Run server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
	case err := <-errChan:
		logger.WithError(err).Error("Server error")
	}

	logger.Info("Shutting down mailstore server")
}

func openBackend(cfg *config.Config, logger *logrus.Logger) (storage.Backend, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		return storage.NewSQLite(cfg.StorePath, logger)
	default:
		return storage.NewBolt(cfg.StorePath, logger)
	}
}
