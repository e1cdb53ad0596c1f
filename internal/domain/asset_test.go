package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestAsset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		asset   Asset
		wantErr bool
		errMsg  string
	}{
		{
			name: "Cash asset without quantity should pass",
			asset: Asset{
				ID:             uuid.New(),
				Name:           "Emergency Fund",
				Category:       CategoryCash,
				Amount:         decimal.NewFromInt(5000000),
				PurchaseAmount: decimal.NewFromInt(5000000),
				Date:           time.Now(),
			},
			wantErr: false,
		},
		{
			name: "Stock asset with quantity and price should pass",
			asset: Asset{
				ID:             uuid.New(),
				Name:           "Samsung Electronics",
				Category:       CategoryStock,
				Amount:         decimal.NewFromInt(700000),
				PurchaseAmount: decimal.NewFromInt(650000),
				Quantity:       decimalPtr("10"),
				CurrentPrice:   decimalPtr("70000"),
				Ticker:         "005930.KS",
				Date:           time.Now(),
			},
			wantErr: false,
		},
		{
			name: "Empty name should fail",
			asset: Asset{
				ID:       uuid.New(),
				Category: CategoryCash,
				Amount:   decimal.NewFromInt(100),
			},
			wantErr: true,
			errMsg:  "asset name cannot be empty",
		},
		{
			name: "Unknown category should fail",
			asset: Asset{
				ID:       uuid.New(),
				Name:     "Mystery",
				Category: AssetCategory("Bond"),
				Amount:   decimal.NewFromInt(100),
			},
			wantErr: true,
			errMsg:  "unknown asset category",
		},
		{
			name: "Negative amount should fail",
			asset: Asset{
				ID:       uuid.New(),
				Name:     "Broken",
				Category: CategoryOther,
				Amount:   decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "asset amount cannot be negative",
		},
		{
			name: "Negative purchase amount should fail",
			asset: Asset{
				ID:             uuid.New(),
				Name:           "Broken",
				Category:       CategoryOther,
				Amount:         decimal.NewFromInt(100),
				PurchaseAmount: decimal.NewFromInt(-100),
			},
			wantErr: true,
			errMsg:  "asset purchase amount cannot be negative",
		},
		{
			name: "Quantity on a lump-sum category should fail",
			asset: Asset{
				ID:             uuid.New(),
				Name:           "Apartment",
				Category:       CategoryRealEstate,
				Amount:         decimal.NewFromInt(900000000),
				PurchaseAmount: decimal.NewFromInt(850000000),
				Quantity:       decimalPtr("1"),
			},
			wantErr: true,
			errMsg:  "quantity is only valid for Stock and Crypto assets",
		},
		{
			name: "Zero quantity should fail",
			asset: Asset{
				ID:             uuid.New(),
				Name:           "Bitcoin",
				Category:       CategoryCrypto,
				Amount:         decimal.Zero,
				PurchaseAmount: decimal.Zero,
				Quantity:       decimalPtr("0"),
			},
			wantErr: true,
			errMsg:  "asset quantity must be positive",
		},
		{
			name: "Negative current price should fail",
			asset: Asset{
				ID:             uuid.New(),
				Name:           "Apple",
				Category:       CategoryStock,
				Amount:         decimal.NewFromInt(100),
				PurchaseAmount: decimal.NewFromInt(100),
				Quantity:       decimalPtr("1"),
				CurrentPrice:   decimalPtr("-100"),
			},
			wantErr: true,
			errMsg:  "asset current price cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssetCategory_TracksQuantity(t *testing.T) {
	assert.True(t, CategoryStock.TracksQuantity())
	assert.True(t, CategoryCrypto.TracksQuantity())
	assert.False(t, CategoryCash.TracksQuantity())
	assert.False(t, CategoryRealEstate.TracksQuantity())
	assert.False(t, CategoryOther.TracksQuantity())
}

func TestAsset_QuantityOrZero(t *testing.T) {
	withQty := Asset{Quantity: decimalPtr("3.5")}
	assert.True(t, withQty.QuantityOrZero().Equal(decimal.RequireFromString("3.5")))

	withoutQty := Asset{}
	assert.True(t, withoutQty.QuantityOrZero().IsZero())
}

func TestDay_TruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	stamp := time.Date(2025, 3, 14, 23, 45, 12, 0, loc)

	day := Day(stamp)

	assert.Equal(t, time.UTC, day.Location())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, 0, day.Minute())
	// 23:45 KST is 14:45 UTC, still March 14th
	assert.Equal(t, 14, day.Day())
}
