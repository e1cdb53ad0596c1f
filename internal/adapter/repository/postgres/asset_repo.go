package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

// List retrieves all assets, sorted by current value descending
func (r *assetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	query := `
		SELECT id, name, category, amount, purchase_amount, quantity, current_price, ticker, date
		FROM assets
		ORDER BY amount DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}

	return assets, nil
}

// GetByID retrieves an asset by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `
		SELECT id, name, category, amount, purchase_amount, quantity, current_price, ticker, date
		FROM assets
		WHERE id = $1
	`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}

	return asset, nil
}

// Create persists a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, name, category, amount, purchase_amount, quantity, current_price, ticker, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		string(asset.Category),
		asset.Amount.String(),
		asset.PurchaseAmount.String(),
		decimalPtrString(asset.Quantity),
		decimalPtrString(asset.CurrentPrice),
		nullString(asset.Ticker),
		asset.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	return nil
}

// Update replaces the mutable numeric fields of an existing asset.
// Name, category, ticker and date are fixed at creation; only the fields
// the engine mutates are written back.
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET amount = $2, purchase_amount = $3, quantity = $4, current_price = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Amount.String(),
		asset.PurchaseAmount.String(),
		decimalPtrString(asset.Quantity),
		decimalPtrString(asset.CurrentPrice),
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrAssetNotFound
	}

	return nil
}

// Delete removes an asset entirely
func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrAssetNotFound
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	var category string
	var amountStr, purchaseStr string
	var quantityStr, priceStr, ticker sql.NullString

	err := row.Scan(
		&asset.ID,
		&asset.Name,
		&category,
		&amountStr,
		&purchaseStr,
		&quantityStr,
		&priceStr,
		&ticker,
		&asset.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan asset: %w", err)
	}

	asset.Category = domain.AssetCategory(category)

	if asset.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	if asset.PurchaseAmount, err = decimal.NewFromString(purchaseStr); err != nil {
		return nil, fmt.Errorf("failed to parse purchase_amount: %w", err)
	}

	if quantityStr.Valid {
		qty, err := decimal.NewFromString(quantityStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse quantity: %w", err)
		}
		asset.Quantity = &qty
	}

	if priceStr.Valid {
		price, err := decimal.NewFromString(priceStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current_price: %w", err)
		}
		asset.CurrentPrice = &price
	}

	if ticker.Valid {
		asset.Ticker = ticker.String
	}

	return &asset, nil
}

func decimalPtrString(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
