package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalizer converts a quote-source price into local currency.
// Symbols carrying one of the local market suffixes are already quoted in
// local currency; everything else is assumed foreign-quoted and multiplied
// by the fixed FX rate. Both the suffix set and the rate are policy
// constants carried in configuration, not derived.
type Normalizer struct {
	LocalSuffixes []string // e.g. ".KS", ".KQ"
	FXRate        decimal.Decimal
}

// NewNormalizer creates a Normalizer with the given policy
func NewNormalizer(localSuffixes []string, fxRate decimal.Decimal) Normalizer {
	return Normalizer{LocalSuffixes: localSuffixes, FXRate: fxRate}
}

// Normalize converts a raw per-unit quote for ticker to a local-currency
// price, floored to a whole unit.
func (n Normalizer) Normalize(ticker string, price decimal.Decimal) decimal.Decimal {
	if !n.isLocal(ticker) {
		price = price.Mul(n.FXRate)
	}
	return price.Floor()
}

func (n Normalizer) isLocal(ticker string) bool {
	upper := strings.ToUpper(ticker)
	for _, suffix := range n.LocalSuffixes {
		if strings.HasSuffix(upper, strings.ToUpper(suffix)) {
			return true
		}
	}
	return false
}
