package trade

import (
	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Position is the accounting view of an asset that the pure trade functions
// operate on: the held quantity and the cost basis attributed to it.
type Position struct {
	Quantity  decimal.Decimal // 0 for a position that has never traded
	CostBasis decimal.Decimal
}

// Result is the replacement state computed from a trade.
// When Liquidated is true the sell consumed the whole position: the caller
// must remove the asset record instead of applying the numeric fields
// (which are left at zero — no partially constructed "empty" position).
type Result struct {
	Quantity     decimal.Decimal
	CostBasis    decimal.Decimal
	CurrentPrice decimal.Decimal
	Amount       decimal.Decimal
	Liquidated   bool
}

// ApplyBuy applies a buy of qty units at unitPrice to a position.
// Logic:
//  1. newQuantity = oldQuantity + qty
//  2. newCostBasis = oldCostBasis + unitPrice * qty (monotonically non-decreasing)
//  3. The trade price becomes the new mark: currentPrice = unitPrice
//  4. amount = unitPrice * newQuantity
//
// Pure: no side effects, persistence is the caller's job.
func ApplyBuy(pos Position, unitPrice, qty decimal.Decimal) (Result, error) {
	if unitPrice.LessThanOrEqual(decimal.Zero) || qty.LessThanOrEqual(decimal.Zero) {
		return Result{}, domain.ErrInvalidTrade
	}

	newQty := pos.Quantity.Add(qty)

	return Result{
		Quantity:     newQty,
		CostBasis:    pos.CostBasis.Add(unitPrice.Mul(qty)),
		CurrentPrice: unitPrice,
		Amount:       unitPrice.Mul(newQty),
	}, nil
}

// ApplySell applies a sell of qty units at unitPrice to a position.
// Selling the full held quantity (or more) liquidates the position and the
// result carries only the Liquidated flag.
// A partial sell reduces the cost basis proportionally (average-cost method):
//  1. ratio = qty / oldQuantity
//  2. newCostBasis = oldCostBasis * (1 - ratio)
//  3. newQuantity = oldQuantity - qty
//  4. amount = unitPrice * newQuantity (marks to the trade price, not the
//     prior market quote)
//
// The realized gain/loss (unitPrice*qty - oldCostBasis*ratio) is implied but
// not surfaced; only the updated unrealized basis is.
func ApplySell(pos Position, unitPrice, qty decimal.Decimal) (Result, error) {
	if unitPrice.LessThanOrEqual(decimal.Zero) || qty.LessThanOrEqual(decimal.Zero) {
		return Result{}, domain.ErrInvalidTrade
	}

	if qty.GreaterThanOrEqual(pos.Quantity) {
		return Result{Liquidated: true}, nil
	}

	ratio := qty.Div(pos.Quantity)
	newQty := pos.Quantity.Sub(qty)

	return Result{
		Quantity:     newQty,
		CostBasis:    pos.CostBasis.Mul(decimal.NewFromInt(1).Sub(ratio)),
		CurrentPrice: unitPrice,
		Amount:       unitPrice.Mul(newQty),
	}, nil
}
