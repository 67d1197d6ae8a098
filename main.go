package main

import (
	"context"
	"encoding/json"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"time"

	"signalAnalytics/config"
	"signalAnalytics/internal/adapters/binanceclient"
	"signalAnalytics/internal/adapters/logger"
	"signalAnalytics/internal/adapters/sqlite"
	"signalAnalytics/internal/app"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogFile,
	})
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize execution repository")
		log.Fatalf("FATAL: Failed to initialize execution repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing execution repository")
		}
	}()

	// 4. Initialize Price Source (Binance Adapter)
	priceSource, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance price source")
		log.Fatalf("FATAL: Failed to initialize Binance price source: %v", err)
	}

	// Connectivity check up front. Reports still run without it: open
	// positions just come back unpriced.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	if err := priceSource.Ping(pingCtx); err != nil {
		appLogger.Warn(pingCtx, "Exchange unreachable; open positions will not be marked to market", map[string]interface{}{"error": err.Error()})
	}
	cancelPing()

	// 5. Initialize Report Service
	service, err := app.NewReportService(cfg, appLogger, repo, priceSource)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize report service")
		log.Fatalf("FATAL: Failed to initialize report service: %v", err)
	}

	ctx := context.Background()

	// 6. Build reports: the configured provider, or every provider in the log.
	providers := []string{cfg.ReportProvider}
	if cfg.ReportProvider == "" {
		providers, err = repo.ListProviders(ctx)
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to list providers")
			log.Fatalf("FATAL: Failed to list providers: %v", err)
		}
		if len(providers) == 0 {
			appLogger.Warn(ctx, "Execution log is empty; nothing to report")
			return
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	for _, provider := range providers {
		report, err := service.ProviderReport(ctx, provider, 0, cfg.ReportPeriod)
		if err != nil {
			appLogger.Error(ctx, err, "Report generation failed", map[string]interface{}{"provider": provider})
			continue
		}
		if err := encoder.Encode(report); err != nil {
			appLogger.Error(ctx, err, "Failed to encode report", map[string]interface{}{"provider": provider})
		}
	}

	appLogger.Info(ctx, "Report run finished")
}
