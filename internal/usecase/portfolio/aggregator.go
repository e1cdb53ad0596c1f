package portfolio

import (
	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/assetpro/assetpro-backend/internal/usecase/returns"
	"github.com/shopspring/decimal"
)

// Totals is the portfolio-level aggregate: current value, cost basis, and
// the unrealized return computed over the totals.
type Totals struct {
	TotalValue     decimal.Decimal
	TotalCostBasis decimal.Decimal
	ReturnPercent  decimal.Decimal
	ReturnAmount   decimal.Decimal
}

// Aggregate sums asset values and cost bases into portfolio totals.
// Logic: TotalValue = sum of Amount, TotalCostBasis = sum of PurchaseAmount,
// returns via the same guarded formulas as per-asset metrics.
// An empty collection yields all zeros with no division error.
// No hidden state: recomputed from the collection on every call.
func Aggregate(assets []*domain.Asset) Totals {
	totalValue := decimal.Zero
	totalCost := decimal.Zero

	for _, asset := range assets {
		totalValue = totalValue.Add(asset.Amount)
		totalCost = totalCost.Add(asset.PurchaseAmount)
	}

	return Totals{
		TotalValue:     totalValue,
		TotalCostBasis: totalCost,
		ReturnPercent:  returns.Percent(totalValue, totalCost),
		ReturnAmount:   returns.Amount(totalValue, totalCost),
	}
}
