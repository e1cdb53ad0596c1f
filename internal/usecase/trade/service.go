package trade

import (
	"context"
	"fmt"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotRecorder is notified after every successful mutation so the
// history layer can schedule a (debounced) snapshot re-evaluation.
type SnapshotRecorder interface {
	Touch()
}

// BuyRequest is the command to buy qty units of an asset at a unit price
type BuyRequest struct {
	AssetID   uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
}

// SellRequest is the command to sell qty units of an asset at a unit price
type SellRequest struct {
	AssetID   uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
}

// TradeService applies buy/sell commands to stored assets
type TradeService struct {
	AssetRepo domain.AssetRepository
	Recorder  SnapshotRecorder
}

// NewTradeService creates a new TradeService instance
func NewTradeService(assetRepo domain.AssetRepository, recorder SnapshotRecorder) *TradeService {
	return &TradeService{
		AssetRepo: assetRepo,
		Recorder:  recorder,
	}
}

// Buy applies a buy command to an asset and persists the updated position
// Returns the updated asset
func (s *TradeService) Buy(ctx context.Context, req BuyRequest) (*domain.Asset, error) {
	asset, err := s.AssetRepo.GetByID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	// Unit trades only make sense for categories that track quantity
	if !asset.Category.TracksQuantity() {
		return nil, domain.ErrInvalidTrade
	}

	result, err := ApplyBuy(Position{
		Quantity:  asset.QuantityOrZero(),
		CostBasis: asset.PurchaseAmount,
	}, req.UnitPrice, req.Quantity)
	if err != nil {
		return nil, err
	}

	applyResult(asset, result)

	if err := s.AssetRepo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to persist buy: %w", err)
	}

	s.touch()
	return asset, nil
}

// Sell applies a sell command to an asset.
// A partial sell persists the reduced position and returns (asset, false).
// A full liquidation deletes the asset record and returns (nil, true) —
// the engine never writes back a zero-quantity asset.
func (s *TradeService) Sell(ctx context.Context, req SellRequest) (*domain.Asset, bool, error) {
	asset, err := s.AssetRepo.GetByID(ctx, req.AssetID)
	if err != nil {
		return nil, false, err
	}

	if !asset.Category.TracksQuantity() {
		return nil, false, domain.ErrInvalidTrade
	}

	result, err := ApplySell(Position{
		Quantity:  asset.QuantityOrZero(),
		CostBasis: asset.PurchaseAmount,
	}, req.UnitPrice, req.Quantity)
	if err != nil {
		return nil, false, err
	}

	if result.Liquidated {
		if err := s.AssetRepo.Delete(ctx, asset.ID); err != nil {
			return nil, false, fmt.Errorf("failed to remove liquidated asset: %w", err)
		}
		s.touch()
		return nil, true, nil
	}

	applyResult(asset, result)

	if err := s.AssetRepo.Update(ctx, asset); err != nil {
		return nil, false, fmt.Errorf("failed to persist sell: %w", err)
	}

	s.touch()
	return asset, false, nil
}

// applyResult copies the computed replacement state onto the asset record
func applyResult(asset *domain.Asset, result Result) {
	qty := result.Quantity
	price := result.CurrentPrice
	asset.Quantity = &qty
	asset.CurrentPrice = &price
	asset.PurchaseAmount = result.CostBasis
	asset.Amount = result.Amount
}

func (s *TradeService) touch() {
	if s.Recorder != nil {
		s.Recorder.Touch()
	}
}
