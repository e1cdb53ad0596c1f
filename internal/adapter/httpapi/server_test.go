package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/assetpro/assetpro-backend/internal/usecase/portfolio"
	"github.com/assetpro/assetpro-backend/internal/usecase/pricing"
	"github.com/assetpro/assetpro-backend/internal/usecase/trade"
	"github.com/assetpro/assetpro-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryAssetRepo is an in-memory AssetRepository for handler tests
type memoryAssetRepo struct {
	mu     sync.Mutex
	assets map[uuid.UUID]*domain.Asset
}

func newMemoryAssetRepo() *memoryAssetRepo {
	return &memoryAssetRepo{assets: make(map[uuid.UUID]*domain.Asset)}
}

func (r *memoryAssetRepo) List(ctx context.Context) ([]*domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	return out, nil
}

func (r *memoryAssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memoryAssetRepo) Create(ctx context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *asset
	r.assets[asset.ID] = &copied
	return nil
}

func (r *memoryAssetRepo) Update(ctx context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[asset.ID]; !ok {
		return domain.ErrAssetNotFound
	}
	copied := *asset
	r.assets[asset.ID] = &copied
	return nil
}

func (r *memoryAssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[id]; !ok {
		return domain.ErrAssetNotFound
	}
	delete(r.assets, id)
	return nil
}

// memoryHistoryRepo is an in-memory HistoryRepository for handler tests
type memoryHistoryRepo struct {
	mu        sync.Mutex
	snapshots []*domain.HistorySnapshot
}

func (r *memoryHistoryRepo) List(ctx context.Context) ([]*domain.HistorySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]*domain.HistorySnapshot(nil), r.snapshots...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memoryHistoryRepo) GetByDay(ctx context.Context, day time.Time) (*domain.HistorySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.snapshots {
		if s.Date.Equal(domain.Day(day)) {
			return s, nil
		}
	}
	return nil, domain.ErrSnapshotNotFound
}

func (r *memoryHistoryRepo) Insert(ctx context.Context, snapshot *domain.HistorySnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

func (r *memoryHistoryRepo) UpdateValue(ctx context.Context, id uuid.UUID, totalValue decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.snapshots {
		if s.ID == id {
			s.TotalValue = totalValue
			return nil
		}
	}
	return domain.ErrSnapshotNotFound
}

// memorySettingsRepo is an in-memory SettingsRepository for handler tests
type memorySettingsRepo struct {
	mu       sync.Mutex
	settings *domain.Settings
}

func (r *memorySettingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return domain.DefaultSettings(), nil
	}
	return *r.settings, nil
}

func (r *memorySettingsRepo) Save(ctx context.Context, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = &settings
	return nil
}

// staticQuotes serves fixed prices per symbol
type staticQuotes struct {
	prices map[string]decimal.Decimal
}

func (q *staticQuotes) Quote(ctx context.Context, symbol, apiKey string) (decimal.Decimal, error) {
	price, ok := q.prices[symbol]
	if !ok {
		return decimal.Zero, domain.ErrQuoteUnavailable
	}
	return price, nil
}

const testToken = "test-token"

type testEnv struct {
	router   *gin.Engine
	assets   *memoryAssetRepo
	history  *memoryHistoryRepo
	settings *memorySettingsRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	assets := newMemoryAssetRepo()
	history := &memoryHistoryRepo{}
	settings := &memorySettingsRepo{}
	quotes := &staticQuotes{prices: map[string]decimal.Decimal{
		"AAPL":      decimal.NewFromInt(150),
		"005930.KS": decimal.NewFromInt(70000),
	}}

	log := logger.NewNop()
	portfolioService := portfolio.NewService(assets, history, nil)
	tradeService := trade.NewTradeService(assets, nil)
	pricingService := pricing.NewPricingService(
		assets, settings, quotes,
		pricing.NewNormalizer([]string{".KS", ".KQ"}, decimal.NewFromInt(1400)),
		nil, log,
	)

	server := NewServer(portfolioService, tradeService, pricingService, settings, log)
	return &testEnv{
		router:   server.Router(testToken),
		assets:   assets,
		history:  history,
		settings: settings,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthzNeedsNoAuth(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAndListAssets(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/assets", gin.H{
		"name":     "Samsung Electronics",
		"category": "Stock",
		"amount":   "700000",
		"ticker":   "005930.KS",
		"quantity": "10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created assetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "700000", created.Amount)
	assert.Equal(t, "700000", created.PurchaseAmount)
	assert.Equal(t, "70000", created.CurrentPrice)

	w = env.do(t, http.MethodGet, "/api/v1/portfolio", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary summaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "700000", summary.TotalValue)
	require.Len(t, summary.Assets, 1)
	assert.Equal(t, "100", summary.Assets[0].Weight)
}

func TestCreateAsset_RejectsUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/assets", gin.H{
		"name":     "Thing",
		"category": "Yacht",
		"amount":   "100",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuyAndSellFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/assets", gin.H{
		"name":     "Samsung Electronics",
		"category": "Stock",
		"amount":   "1000",
		"ticker":   "005930.KS",
		"quantity": "10",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created assetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Partial sell: 4 of 10 @ 150
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/sell", created.ID), gin.H{
		"unit_price": "150",
		"quantity":   "4",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sellResp struct {
		Liquidated bool          `json:"liquidated"`
		Asset      assetResponse `json:"asset"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sellResp))
	assert.False(t, sellResp.Liquidated)
	assert.Equal(t, "6", sellResp.Asset.Quantity)
	assert.Equal(t, "600", sellResp.Asset.PurchaseAmount)
	assert.Equal(t, "900", sellResp.Asset.Amount)

	// Sell the rest: liquidation removes the asset
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/sell", created.ID), gin.H{
		"unit_price": "150",
		"quantity":   "6",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sellResp))
	assert.True(t, sellResp.Liquidated)

	w = env.do(t, http.MethodGet, "/api/v1/portfolio", nil)
	var summary summaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Empty(t, summary.Assets)
}

func TestBuy_InvalidTradeRejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/assets", gin.H{
		"name":     "Bitcoin",
		"category": "Crypto",
		"amount":   "1000",
		"quantity": "1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created assetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", created.ID), gin.H{
		"unit_price": "-5",
		"quantity":   "1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTrade_UnknownAssetIs404(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", uuid.New()), gin.H{
		"unit_price": "100",
		"quantity":   "1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshPrices_WithoutKeyIsExplainedNoOp(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/prices/refresh", nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, w.Body.String(), "quote API key")
}

func TestRefreshPrices_UpdatesAssets(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/v1/settings", gin.H{
		"quote_api_key": "key-123",
		"theme":         "global",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/assets", gin.H{
		"name":     "Samsung Electronics",
		"category": "Stock",
		"amount":   "600000",
		"ticker":   "005930.KS",
		"quantity": "10",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/prices/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":1`)

	w = env.do(t, http.MethodGet, "/api/v1/portfolio", nil)
	var summary summaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "700000", summary.TotalValue)
}

func TestTreemapEndpoint(t *testing.T) {
	env := newTestEnv(t)

	for i, amount := range []string{"600", "400"} {
		w := env.do(t, http.MethodPost, "/api/v1/assets", gin.H{
			"name":     fmt.Sprintf("Asset %d", i),
			"category": "Other",
			"amount":   amount,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/portfolio/treemap?theme=korea", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Theme      string                    `json:"theme"`
		Rectangles []placedRectangleResponse `json:"rectangles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "korea", resp.Theme)
	require.Len(t, resp.Rectangles, 2)

	area := 0.0
	for _, r := range resp.Rectangles {
		area += r.Width * r.Height
	}
	assert.InDelta(t, 10000.0, area, 1e-3)
}

func TestSettingsRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_api_key":false`)

	w = env.do(t, http.MethodPut, "/api/v1/settings", gin.H{
		"quote_api_key": "key-123",
		"theme":         "korea",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/settings", nil)
	assert.Contains(t, w.Body.String(), `"theme":"korea"`)
	assert.Contains(t, w.Body.String(), `"has_api_key":true`)
	// The key itself is never echoed back
	assert.NotContains(t, w.Body.String(), "key-123")
}

func TestVerifyKeyEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/settings/verify-key", gin.H{
		"quote_api_key": "anything",
	})
	require.Equal(t, http.StatusOK, w.Code)
	// The static quote source answers for AAPL, so any key verifies
	assert.Contains(t, w.Body.String(), `"valid":true`)
}

func TestHistoryEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.history.snapshots = []*domain.HistorySnapshot{
		{ID: uuid.New(), Date: domain.Day(time.Now().AddDate(0, 0, -1)), TotalValue: decimal.NewFromInt(95000)},
		{ID: uuid.New(), Date: domain.Day(time.Now()), TotalValue: decimal.NewFromInt(100000)},
	}

	w := env.do(t, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Snapshots []snapshotResponse `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Snapshots, 2)
	assert.Equal(t, "95000", resp.Snapshots[0].TotalValue, "sorted ascending by date")
}
