package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/assetpro/assetpro-backend/internal/usecase/returns"
	"github.com/assetpro/assetpro-backend/internal/usecase/treemap"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotRecorder is notified after asset creation/deletion so the history
// layer re-evaluates the daily snapshot.
type SnapshotRecorder interface {
	Touch()
}

// AssetRow is one asset's line in the portfolio summary
type AssetRow struct {
	Asset         *domain.Asset
	ReturnPercent decimal.Decimal
	ReturnAmount  decimal.Decimal
	Weight        decimal.Decimal // share of total value, percent
}

// Summary is the dashboard view: totals plus per-asset rows sorted by
// value descending
type Summary struct {
	Totals Totals
	Assets []AssetRow
}

// CreateAssetRequest is the command to register a new asset.
// Quantity and Ticker only apply to Stock/Crypto; the initial cost basis
// equals the entered amount.
type CreateAssetRequest struct {
	Name     string
	Category domain.AssetCategory
	Amount   decimal.Decimal
	Ticker   string
	Quantity decimal.Decimal // zero when not quantity-tracked
}

// Service handles portfolio-level read models and asset lifecycle
type Service struct {
	AssetRepo   domain.AssetRepository
	HistoryRepo domain.HistoryRepository
	Recorder    SnapshotRecorder
	Now         func() time.Time
}

// NewService creates a new portfolio Service instance
func NewService(assetRepo domain.AssetRepository, historyRepo domain.HistoryRepository, recorder SnapshotRecorder) *Service {
	return &Service{
		AssetRepo:   assetRepo,
		HistoryRepo: historyRepo,
		Recorder:    recorder,
		Now:         time.Now,
	}
}

// Summary computes the portfolio totals and per-asset return rows from the
// current asset collection
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	assets, err := s.AssetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	totals := Aggregate(assets)

	rows := make([]AssetRow, 0, len(assets))
	for _, asset := range assets {
		weight := decimal.Zero
		if totals.TotalValue.IsPositive() {
			weight = asset.Amount.Div(totals.TotalValue).Mul(decimal.NewFromInt(100))
		}
		rows = append(rows, AssetRow{
			Asset:         asset,
			ReturnPercent: returns.Percent(asset.Amount, asset.PurchaseAmount),
			ReturnAmount:  returns.Amount(asset.Amount, asset.PurchaseAmount),
			Weight:        weight,
		})
	}

	return &Summary{Totals: totals, Assets: rows}, nil
}

// Treemap lays out the current assets in the full container, colored by
// return under the given theme
func (s *Service) Treemap(ctx context.Context, theme domain.ColorTheme) ([]treemap.PlacedRectangle, error) {
	assets, err := s.AssetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	items := make([]treemap.Item, 0, len(assets))
	for _, asset := range assets {
		items = append(items, treemap.Item{
			AssetID:       asset.ID,
			Value:         asset.Amount,
			ReturnPercent: returns.Percent(asset.Amount, asset.PurchaseAmount),
		})
	}

	return treemap.Layout(items, treemap.FullContainer, theme), nil
}

// History lists all daily snapshots sorted by date ascending
func (s *Service) History(ctx context.Context) ([]*domain.HistorySnapshot, error) {
	return s.HistoryRepo.List(ctx)
}

// CreateAsset registers a new asset.
// Logic: amount and cost basis both start at the entered purchase amount;
// for quantity-tracked categories with a positive quantity the per-unit
// price is derived as amount/quantity.
func (s *Service) CreateAsset(ctx context.Context, req CreateAssetRequest) (*domain.Asset, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("asset amount must be positive")
	}

	asset := &domain.Asset{
		ID:             uuid.New(),
		Name:           req.Name,
		Category:       req.Category,
		Amount:         req.Amount,
		PurchaseAmount: req.Amount,
		Ticker:         req.Ticker,
		Date:           domain.Day(s.Now()),
	}

	if req.Category.TracksQuantity() && req.Quantity.IsPositive() {
		qty := req.Quantity
		price := req.Amount.Div(qty)
		asset.Quantity = &qty
		asset.CurrentPrice = &price
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.AssetRepo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	s.touch()
	return asset, nil
}

// DeleteAsset removes an asset entirely
func (s *Service) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	if err := s.AssetRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Service) touch() {
	if s.Recorder != nil {
		s.Recorder.Touch()
	}
}
