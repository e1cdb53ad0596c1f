package pricing

import (
	"context"
	"fmt"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/assetpro/assetpro-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// SnapshotRecorder is notified after a refresh touched any asset
type SnapshotRecorder interface {
	Touch()
}

// RefreshReport summarizes one price-refresh pass
type RefreshReport struct {
	Updated int // assets whose price and amount were written
	Skipped int // assets without a ticker or not quantity-tracked
	Failed  int // quote fetch or persistence failures, refresh continued
}

// PricingService refreshes current prices from the quote source
type PricingService struct {
	AssetRepo    domain.AssetRepository
	SettingsRepo domain.SettingsRepository
	Quotes       domain.QuoteSource
	Normalizer   Normalizer
	Recorder     SnapshotRecorder
	Logger       *logger.Logger
}

// NewPricingService creates a new PricingService instance
func NewPricingService(
	assetRepo domain.AssetRepository,
	settingsRepo domain.SettingsRepository,
	quotes domain.QuoteSource,
	normalizer Normalizer,
	recorder SnapshotRecorder,
	log *logger.Logger,
) *PricingService {
	return &PricingService{
		AssetRepo:    assetRepo,
		SettingsRepo: settingsRepo,
		Quotes:       quotes,
		Normalizer:   normalizer,
		Recorder:     recorder,
		Logger:       log,
	}
}

// RefreshPrices re-quotes every tickered Stock/Crypto asset and writes the
// normalized price and re-marked amount back to the store.
// Without a configured API key the refresh is a no-op that returns
// ErrMissingAPIKey so the caller can explain the degradation to the user.
// A failure on one asset skips it and the refresh continues.
func (s *PricingService) RefreshPrices(ctx context.Context) (*RefreshReport, error) {
	settings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.QuoteAPIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	assets, err := s.AssetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	report := &RefreshReport{}
	for _, asset := range assets {
		if !asset.Category.TracksQuantity() || asset.Ticker == "" {
			report.Skipped++
			continue
		}

		raw, err := s.Quotes.Quote(ctx, asset.Ticker, settings.QuoteAPIKey)
		if err != nil {
			s.Logger.Warnw("quote fetch failed", "asset", asset.Name, "ticker", asset.Ticker, "error", err)
			report.Failed++
			continue
		}

		price := s.Normalizer.Normalize(asset.Ticker, raw)

		// A zero quantity still gets a marked amount of one unit's worth
		qty := asset.QuantityOrZero()
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}

		asset.CurrentPrice = &price
		asset.Amount = price.Mul(qty).Floor()

		if err := s.AssetRepo.Update(ctx, asset); err != nil {
			s.Logger.Warnw("price update failed", "asset", asset.Name, "error", err)
			report.Failed++
			continue
		}
		report.Updated++
	}

	if report.Updated > 0 && s.Recorder != nil {
		s.Recorder.Touch()
	}

	return report, nil
}

// VerifyAPIKey probes the quote source with a well-known symbol and reports
// whether the credential works
func (s *PricingService) VerifyAPIKey(ctx context.Context, apiKey string) bool {
	if apiKey == "" {
		return false
	}
	price, err := s.Quotes.Quote(ctx, "AAPL", apiKey)
	return err == nil && price.IsPositive()
}
