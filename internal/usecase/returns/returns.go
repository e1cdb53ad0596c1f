package returns

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent calculates the unrealized return percentage for a holding.
// Logic: (amount - costBasis) / costBasis * 100
// A zero or negative cost basis yields 0, never a division error: Cash
// typically has costBasis == amount (0%), and a freshly created asset with
// no recorded cost must not render as NaN/Inf.
func Percent(amount, costBasis decimal.Decimal) decimal.Decimal {
	if costBasis.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return amount.Sub(costBasis).Div(costBasis).Mul(hundred)
}

// Amount calculates the unrealized return as an absolute currency amount
func Amount(amount, costBasis decimal.Decimal) decimal.Decimal {
	return amount.Sub(costBasis)
}
