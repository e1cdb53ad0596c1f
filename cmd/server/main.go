package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/assetpro/assetpro-backend/internal/adapter/httpapi"
	"github.com/assetpro/assetpro-backend/internal/adapter/quote/finnhub"
	"github.com/assetpro/assetpro-backend/internal/adapter/repository/postgres"
	"github.com/assetpro/assetpro-backend/internal/config"
	"github.com/assetpro/assetpro-backend/internal/usecase/history"
	"github.com/assetpro/assetpro-backend/internal/usecase/portfolio"
	"github.com/assetpro/assetpro-backend/internal/usecase/pricing"
	"github.com/assetpro/assetpro-backend/internal/usecase/trade"
	"github.com/assetpro/assetpro-backend/pkg/logger"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	defer log.Sync()

	// 2. Database and repositories
	db, err := postgres.NewDB(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	assetRepo := postgres.NewAssetRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	// 3. History recorder (debounced daily snapshots)
	recorder := history.NewRecorder(assetRepo, historyRepo)
	if threshold, err := decimal.NewFromString(cfg.History.NoiseThreshold); err == nil {
		recorder.Threshold = threshold
	} else {
		log.Warnw("invalid history.noise_threshold, keeping default", "value", cfg.History.NoiseThreshold)
	}
	recorder.SettleDelay = time.Duration(cfg.History.SettleDelaySeconds) * time.Second
	defer recorder.Close()

	// 4. Services
	fxRate, err := decimal.NewFromString(cfg.Quote.FXRate)
	if err != nil {
		log.Fatalw("invalid quote.fx_rate", "value", cfg.Quote.FXRate, "error", err)
	}
	normalizer := pricing.NewNormalizer(cfg.Quote.LocalSuffixes, fxRate)
	quotes := finnhub.NewClient(cfg.Quote.BaseURL, time.Duration(cfg.Quote.TimeoutSeconds)*time.Second)

	portfolioService := portfolio.NewService(assetRepo, historyRepo, recorder)
	tradeService := trade.NewTradeService(assetRepo, recorder)
	pricingService := pricing.NewPricingService(assetRepo, settingsRepo, quotes, normalizer, recorder, log)

	// 5. Daily snapshot job, so quiet days still appear in the trend
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.History.DailyCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := recorder.Record(ctx); err != nil {
			log.Errorw("daily snapshot failed", "error", err)
		}
	}); err != nil {
		log.Fatalw("invalid history.daily_cron expression", "expr", cfg.History.DailyCron, "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 6. HTTP server
	server := httpapi.NewServer(portfolioService, tradeService, pricingService, settingsRepo, log)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(cfg.Server.APIToken),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Infow("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("HTTP server failed", "error", err)
		}
	}()

	waitForShutdown(httpServer, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and drains in-flight requests
func waitForShutdown(httpServer *http.Server, log *logger.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Infow("received signal, shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorw("shutdown error", "error", err)
	}
	log.Infow("HTTP server stopped")
}
