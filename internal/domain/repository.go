package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetRepository defines the interface for asset persistence operations.
// Writes are whole-record and last-write-wins: the engine computes a full
// replacement from a presumed-current snapshot and cannot detect a stale
// read, so callers needing stronger guarantees must serialize writes per
// asset ID.
type AssetRepository interface {
	// List retrieves all assets, sorted by current value descending
	List(ctx context.Context) ([]*Asset, error)

	// GetByID retrieves an asset by its ID
	// Returns ErrAssetNotFound if no such asset exists
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// Create persists a new asset
	Create(ctx context.Context, asset *Asset) error

	// Update replaces the mutable numeric fields of an existing asset
	Update(ctx context.Context, asset *Asset) error

	// Delete removes an asset entirely (user deletion or full liquidation)
	Delete(ctx context.Context, id uuid.UUID) error
}

// HistoryRepository defines the interface for daily snapshot persistence.
// The store guarantees at most one snapshot per calendar day.
type HistoryRepository interface {
	// List retrieves all snapshots sorted by date ascending
	List(ctx context.Context) ([]*HistorySnapshot, error)

	// GetByDay retrieves the snapshot for the given calendar day
	// Returns ErrSnapshotNotFound if none exists
	GetByDay(ctx context.Context, day time.Time) (*HistorySnapshot, error)

	// Insert creates a new snapshot
	Insert(ctx context.Context, snapshot *HistorySnapshot) error

	// UpdateValue overwrites the total value of an existing snapshot
	UpdateValue(ctx context.Context, id uuid.UUID, totalValue decimal.Decimal) error
}

// SettingsRepository persists the quote credential and theme selection
type SettingsRepository interface {
	// Get retrieves the saved settings, or DefaultSettings if none exist
	Get(ctx context.Context) (Settings, error)

	// Save persists the settings
	Save(ctx context.Context, settings Settings) error
}

// QuoteSource retrieves a per-unit market price for a ticker symbol.
// Prices come back in the quote source's own currency; normalization to
// local currency is the pricing usecase's job.
type QuoteSource interface {
	// Quote returns the current per-unit price for the symbol
	// Returns ErrQuoteUnavailable when the source has no usable price
	Quote(ctx context.Context, symbol, apiKey string) (decimal.Decimal, error)
}
