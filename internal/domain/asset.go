package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetCategory represents the type of asset in the portfolio
type AssetCategory string

const (
	CategoryCash       AssetCategory = "Cash"
	CategoryStock      AssetCategory = "Stock"
	CategoryRealEstate AssetCategory = "RealEstate"
	CategoryCrypto     AssetCategory = "Crypto"
	CategoryOther      AssetCategory = "Other"
)

// TracksQuantity reports whether assets of this category carry a unit
// quantity and per-unit price (Stock and Crypto do; the rest are valued
// as a lump sum).
func (c AssetCategory) TracksQuantity() bool {
	return c == CategoryStock || c == CategoryCrypto
}

// Valid reports whether the category is one of the known values
func (c AssetCategory) Valid() bool {
	switch c {
	case CategoryCash, CategoryStock, CategoryRealEstate, CategoryCrypto, CategoryOther:
		return true
	}
	return false
}

// Asset represents a single holding in the shared portfolio.
// Amount is the current market value. PurchaseAmount is the cost basis of
// the currently held quantity (weighted-average method), NOT lifetime spend:
// a partial sell reduces it proportionally.
type Asset struct {
	ID             uuid.UUID
	Name           string
	Category       AssetCategory // fixed at creation
	Amount         decimal.Decimal
	PurchaseAmount decimal.Decimal
	Quantity       *decimal.Decimal // nil unless Category.TracksQuantity()
	CurrentPrice   *decimal.Decimal // last known per-unit price
	Ticker         string           // optional symbol for price lookups
	Date           time.Time        // creation stamp, immutable
}

// Validate ensures the asset adheres to domain rules
// Returns an error if validation fails
func (a *Asset) Validate() error {
	if a.Name == "" {
		return errors.New("asset name cannot be empty")
	}

	if !a.Category.Valid() {
		return errors.New("unknown asset category")
	}

	if a.Amount.IsNegative() {
		return errors.New("asset amount cannot be negative")
	}

	if a.PurchaseAmount.IsNegative() {
		return errors.New("asset purchase amount cannot be negative")
	}

	// Quantity, when present, must be positive and only appears on
	// quantity-tracked categories
	if a.Quantity != nil {
		if !a.Category.TracksQuantity() {
			return errors.New("quantity is only valid for Stock and Crypto assets")
		}
		if a.Quantity.LessThanOrEqual(decimal.Zero) {
			return errors.New("asset quantity must be positive")
		}
	}

	if a.CurrentPrice != nil && a.CurrentPrice.IsNegative() {
		return errors.New("asset current price cannot be negative")
	}

	return nil
}

// QuantityOrZero returns the held quantity, treating an absent quantity as 0
func (a *Asset) QuantityOrZero() decimal.Decimal {
	if a.Quantity == nil {
		return decimal.Zero
	}
	return *a.Quantity
}
