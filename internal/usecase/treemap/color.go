package treemap

import (
	"fmt"
	"math"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// neutralColor is the tile color for an exactly break-even holding
const neutralColor = "#e5e7eb"

// Color maps a return percentage to a tile color under the given theme.
// The return magnitude controls lightness deflection, clamped so deep
// gains/losses stay readable; the sign picks the hue bucket. The two themes
// invert the gain/loss hue assignment: global uses green for gains and red
// for losses, korea uses red for gains and blue for losses.
func Color(returnPercent decimal.Decimal, theme domain.ColorTheme) string {
	ret, _ := returnPercent.Float64()
	if ret == 0 {
		return neutralColor
	}

	intensity := math.Min(math.Abs(ret)*5, 50) + 10

	if theme == domain.ThemeKorea {
		if ret > 0 {
			return hsl(0, 70, 95-intensity)
		}
		return hsl(220, 70, 95-intensity)
	}

	if ret > 0 {
		return hsl(142, 60, 90-intensity)
	}
	return hsl(0, 70, 95-intensity)
}

func hsl(hue, saturation int, lightness float64) string {
	return fmt.Sprintf("hsl(%d, %d%%, %s%%)", hue, saturation, trimFloat(lightness))
}

// trimFloat renders a float without a trailing ".0" so whole lightness
// values stay compact
func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
