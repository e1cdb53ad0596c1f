package treemap

import (
	"sort"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one asset's contribution to the map: its current value drives the
// area, its return percentage drives the color.
type Item struct {
	AssetID       uuid.UUID
	Value         decimal.Decimal
	ReturnPercent decimal.Decimal
}

// Rect is a rectangle in container-percentage units (0-100)
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FullContainer is the whole 100x100 percent container
var FullContainer = Rect{X: 0, Y: 0, Width: 100, Height: 100}

// PlacedRectangle is one asset's placed tile: position and size as
// percentages of the container, plus its return color.
type PlacedRectangle struct {
	AssetID uuid.UUID
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Color   string
}

// Layout partitions rect among items proportionally to their value using a
// recursive binary slice-and-dice (a simplified squarified treemap).
// Logic:
//  1. Sort items by value descending, stable on ties (original order), so
//     repeated calls with identical input produce identical placement
//  2. Split into two halves by count (first half gets ceil(n/2) items)
//  3. Split the rectangle along its longer axis, sized by the halves' value
//     shares, and recurse
//
// Guarantees: one output rectangle per input item, and the outputs exactly
// partition rect (no overlap, no gap, up to floating-point rounding).
func Layout(items []Item, rect Rect, theme domain.ColorTheme) []PlacedRectangle {
	if len(items) == 0 {
		return nil
	}

	// Work on a copy: callers keep their slice order
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value.GreaterThan(sorted[j].Value)
	})

	placed := make([]PlacedRectangle, 0, len(items))
	slice(sorted, rect, theme, &placed)
	return placed
}

func slice(items []Item, rect Rect, theme domain.ColorTheme, out *[]PlacedRectangle) {
	if len(items) == 0 {
		return
	}

	if len(items) == 1 {
		item := items[0]
		*out = append(*out, PlacedRectangle{
			AssetID: item.AssetID,
			X:       rect.X,
			Y:       rect.Y,
			Width:   rect.Width,
			Height:  rect.Height,
			Color:   Color(item.ReturnPercent, theme),
		})
		return
	}

	mid := (len(items) + 1) / 2
	groupA := items[:mid]
	groupB := items[mid:]

	ratio := valueShare(groupA, groupB)

	if rect.Width > rect.Height {
		widthA := rect.Width * ratio
		slice(groupA, Rect{rect.X, rect.Y, widthA, rect.Height}, theme, out)
		slice(groupB, Rect{rect.X + widthA, rect.Y, rect.Width - widthA, rect.Height}, theme, out)
	} else {
		heightA := rect.Height * ratio
		slice(groupA, Rect{rect.X, rect.Y, rect.Width, heightA}, theme, out)
		slice(groupB, Rect{rect.X, rect.Y + heightA, rect.Width, rect.Height - heightA}, theme, out)
	}
}

// valueShare returns groupA's share of the combined value.
// A zero combined value (all items worthless) would divide by zero; the
// defined fallback is an even split so every item still gets a tile.
func valueShare(groupA, groupB []Item) float64 {
	sumA := decimal.Zero
	for _, it := range groupA {
		sumA = sumA.Add(it.Value)
	}
	sumB := decimal.Zero
	for _, it := range groupB {
		sumB = sumB.Add(it.Value)
	}

	total := sumA.Add(sumB)
	if total.IsZero() {
		return 0.5
	}

	share, _ := sumA.Div(total).Float64()
	return share
}
