package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JIDAIN/bill/internal/cache"
	"github.com/JIDAIN/bill/internal/config"
	apphttp "github.com/JIDAIN/bill/internal/http"
	"github.com/JIDAIN/bill/internal/log"
	"github.com/JIDAIN/bill/internal/session"
	"github.com/JIDAIN/bill/internal/source"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	sessions := session.NewManager(logger, cfg.Schema(), cfg.TrendCategories, cfg.ParseCacheSize, cfg.ParseCacheTTL)

	janitor := cache.NewJanitor()
	janitor.Register(sessions.ParseCache())
	janitor.Start(cfg.CacheSweepEvery)
	defer janitor.Stop()

	var sheetsSource source.RowSource
	if cfg.SourceBackend == "sheets" {
		src, err := source.NewSheets(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets source", log.FieldError, err.Error(), log.FieldBackend, cfg.SourceBackend)
			os.Exit(1)
		}
		sheetsSource = src
		logger.Info("Initialized Google Sheets source", log.FieldBackend, cfg.SourceBackend)
	}

	srv := apphttp.NewServer(":"+cfg.Port, sessions, logger, sheetsSource)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown, "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting bill dashboard server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		log.FieldBackend, cfg.SourceBackend,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
