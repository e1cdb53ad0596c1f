package httpapi

import (
	"errors"
	"net/http"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/assetpro/assetpro-backend/internal/usecase/portfolio"
	"github.com/assetpro/assetpro-backend/internal/usecase/pricing"
	"github.com/assetpro/assetpro-backend/internal/usecase/trade"
	"github.com/assetpro/assetpro-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Server exposes the portfolio engine over HTTP
type Server struct {
	PortfolioService *portfolio.Service
	TradeService     *trade.TradeService
	PricingService   *pricing.PricingService
	SettingsRepo     domain.SettingsRepository
	Logger           *logger.Logger
}

// NewServer creates a new HTTP server instance
func NewServer(
	portfolioService *portfolio.Service,
	tradeService *trade.TradeService,
	pricingService *pricing.PricingService,
	settingsRepo domain.SettingsRepository,
	log *logger.Logger,
) *Server {
	return &Server{
		PortfolioService: portfolioService,
		TradeService:     tradeService,
		PricingService:   pricingService,
		SettingsRepo:     settingsRepo,
		Logger:           log,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router(apiToken string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(AuthMiddleware(apiToken))
	{
		api.GET("/portfolio", s.getPortfolio)
		api.GET("/portfolio/treemap", s.getTreemap)
		api.POST("/assets", s.createAsset)
		api.DELETE("/assets/:id", s.deleteAsset)
		api.POST("/assets/:id/buy", s.buy)
		api.POST("/assets/:id/sell", s.sell)
		api.POST("/prices/refresh", s.refreshPrices)
		api.GET("/history", s.getHistory)
		api.GET("/settings", s.getSettings)
		api.PUT("/settings", s.putSettings)
		api.POST("/settings/verify-key", s.verifyKey)
	}

	return router
}

// getPortfolio handles GET /portfolio
func (s *Server) getPortfolio(c *gin.Context) {
	summary, err := s.PortfolioService.Summary(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// getTreemap handles GET /portfolio/treemap.
// The theme defaults to the saved settings and can be overridden with
// ?theme=global|korea.
func (s *Server) getTreemap(c *gin.Context) {
	theme, ok := s.resolveTheme(c)
	if !ok {
		return
	}

	placed, err := s.PortfolioService.Treemap(c.Request.Context(), theme)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": string(theme), "rectangles": toTreemapResponse(placed)})
}

// createAsset handles POST /assets
func (s *Server) createAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := domain.AssetCategory(req.Category)
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown asset category"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format"})
		return
	}

	quantity := decimal.Zero
	if req.Quantity != "" {
		if quantity, err = decimal.NewFromString(req.Quantity); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity format"})
			return
		}
	}

	asset, err := s.PortfolioService.CreateAsset(c.Request.Context(), portfolio.CreateAssetRequest{
		Name:     req.Name,
		Category: category,
		Amount:   amount,
		Ticker:   req.Ticker,
		Quantity: quantity,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toAssetResponse(asset))
}

// deleteAsset handles DELETE /assets/:id
func (s *Server) deleteAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.PortfolioService.DeleteAsset(c.Request.Context(), id); err != nil {
		s.domainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// buy handles POST /assets/:id/buy
func (s *Server) buy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	price, qty, ok := parseTrade(c)
	if !ok {
		return
	}

	asset, err := s.TradeService.Buy(c.Request.Context(), trade.BuyRequest{
		AssetID:   id,
		UnitPrice: price,
		Quantity:  qty,
	})
	if err != nil {
		s.domainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAssetResponse(asset))
}

// sell handles POST /assets/:id/sell.
// A full liquidation removes the asset and reports it.
func (s *Server) sell(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	price, qty, ok := parseTrade(c)
	if !ok {
		return
	}

	asset, liquidated, err := s.TradeService.Sell(c.Request.Context(), trade.SellRequest{
		AssetID:   id,
		UnitPrice: price,
		Quantity:  qty,
	})
	if err != nil {
		s.domainError(c, err)
		return
	}

	if liquidated {
		c.JSON(http.StatusOK, gin.H{"liquidated": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liquidated": false, "asset": toAssetResponse(asset)})
}

// refreshPrices handles POST /prices/refresh
func (s *Server) refreshPrices(c *gin.Context) {
	report, err := s.PricingService.RefreshPrices(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrMissingAPIKey) {
			// Degraded, not broken: tell the user what to do
			c.JSON(http.StatusPreconditionFailed, gin.H{
				"error": "quote API key is not configured; set it in settings to enable price refresh",
			})
			return
		}
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updated": report.Updated,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	})
}

// getHistory handles GET /history
func (s *Server) getHistory(c *gin.Context) {
	snapshots, err := s.PortfolioService.History(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": toSnapshotResponses(snapshots)})
}

// getSettings handles GET /settings. The API key is never echoed back,
// only whether one is set.
func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.SettingsRepo.Get(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"theme":       string(settings.Theme),
		"has_api_key": settings.QuoteAPIKey != "",
	})
}

// putSettings handles PUT /settings
func (s *Server) putSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	theme := domain.ColorTheme(req.Theme)
	if !theme.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be global or korea"})
		return
	}

	settings := domain.Settings{QuoteAPIKey: req.QuoteAPIKey, Theme: theme}
	if err := s.SettingsRepo.Save(c.Request.Context(), settings); err != nil {
		s.serverError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// verifyKey handles POST /settings/verify-key
func (s *Server) verifyKey(c *gin.Context) {
	var req verifyKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid := s.PricingService.VerifyAPIKey(c.Request.Context(), req.QuoteAPIKey)
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// resolveTheme picks the treemap theme from the query or saved settings
func (s *Server) resolveTheme(c *gin.Context) (domain.ColorTheme, bool) {
	if q := c.Query("theme"); q != "" {
		theme := domain.ColorTheme(q)
		if !theme.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be global or korea"})
			return "", false
		}
		return theme, true
	}

	settings, err := s.SettingsRepo.Get(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return "", false
	}
	return settings.Theme, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseTrade(c *gin.Context) (decimal.Decimal, decimal.Decimal, bool) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return decimal.Zero, decimal.Zero, false
	}

	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit_price format"})
		return decimal.Zero, decimal.Zero, false
	}

	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity format"})
		return decimal.Zero, decimal.Zero, false
	}

	return price, qty, true
}

// domainError maps domain failures to client-facing status codes
func (s *Server) domainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
	case errors.Is(err, domain.ErrInvalidTrade):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.serverError(c, err)
	}
}

func (s *Server) serverError(c *gin.Context, err error) {
	s.Logger.Errorw("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
