package httpapi

import (
	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/assetpro/assetpro-backend/internal/usecase/portfolio"
	"github.com/assetpro/assetpro-backend/internal/usecase/treemap"
)

// Decimal fields travel as strings to keep exact values on the wire,
// the same convention the repositories use toward Postgres.

type createAssetRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	Ticker   string `json:"ticker"`
	Quantity string `json:"quantity"`
}

type tradeRequest struct {
	UnitPrice string `json:"unit_price" binding:"required"`
	Quantity  string `json:"quantity" binding:"required"`
}

type settingsRequest struct {
	QuoteAPIKey string `json:"quote_api_key"`
	Theme       string `json:"theme" binding:"required"`
}

type verifyKeyRequest struct {
	QuoteAPIKey string `json:"quote_api_key" binding:"required"`
}

type assetResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Amount         string `json:"amount"`
	PurchaseAmount string `json:"purchase_amount"`
	Quantity       string `json:"quantity,omitempty"`
	CurrentPrice   string `json:"current_price,omitempty"`
	Ticker         string `json:"ticker,omitempty"`
	Date           string `json:"date"`
}

type assetRowResponse struct {
	assetResponse
	ReturnPercent string `json:"return_percent"`
	ReturnAmount  string `json:"return_amount"`
	Weight        string `json:"weight"`
}

type summaryResponse struct {
	TotalValue     string             `json:"total_value"`
	TotalCostBasis string             `json:"total_cost_basis"`
	ReturnPercent  string             `json:"return_percent"`
	ReturnAmount   string             `json:"return_amount"`
	Assets         []assetRowResponse `json:"assets"`
}

type placedRectangleResponse struct {
	AssetID string  `json:"asset_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
}

type snapshotResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	TotalValue string `json:"total_value"`
}

func toAssetResponse(asset *domain.Asset) assetResponse {
	resp := assetResponse{
		ID:             asset.ID.String(),
		Name:           asset.Name,
		Category:       string(asset.Category),
		Amount:         asset.Amount.String(),
		PurchaseAmount: asset.PurchaseAmount.String(),
		Ticker:         asset.Ticker,
		Date:           asset.Date.Format("2006-01-02"),
	}
	if asset.Quantity != nil {
		resp.Quantity = asset.Quantity.String()
	}
	if asset.CurrentPrice != nil {
		resp.CurrentPrice = asset.CurrentPrice.String()
	}
	return resp
}

func toSummaryResponse(summary *portfolio.Summary) summaryResponse {
	rows := make([]assetRowResponse, 0, len(summary.Assets))
	for _, row := range summary.Assets {
		rows = append(rows, assetRowResponse{
			assetResponse: toAssetResponse(row.Asset),
			ReturnPercent: row.ReturnPercent.String(),
			ReturnAmount:  row.ReturnAmount.String(),
			Weight:        row.Weight.String(),
		})
	}
	return summaryResponse{
		TotalValue:     summary.Totals.TotalValue.String(),
		TotalCostBasis: summary.Totals.TotalCostBasis.String(),
		ReturnPercent:  summary.Totals.ReturnPercent.String(),
		ReturnAmount:   summary.Totals.ReturnAmount.String(),
		Assets:         rows,
	}
}

func toTreemapResponse(placed []treemap.PlacedRectangle) []placedRectangleResponse {
	out := make([]placedRectangleResponse, 0, len(placed))
	for _, p := range placed {
		out = append(out, placedRectangleResponse{
			AssetID: p.AssetID.String(),
			X:       p.X,
			Y:       p.Y,
			Width:   p.Width,
			Height:  p.Height,
			Color:   p.Color,
		})
	}
	return out
}

func toSnapshotResponses(snapshots []*domain.HistorySnapshot) []snapshotResponse {
	out := make([]snapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, snapshotResponse{
			ID:         s.ID.String(),
			Date:       s.Date.Format("2006-01-02"),
			TotalValue: s.TotalValue.String(),
		})
	}
	return out
}
