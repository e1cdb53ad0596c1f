package history

import (
	"time"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultNoiseThreshold is the absolute value change below which an existing
// same-day snapshot is left untouched, avoiding write amplification from
// sub-threshold quote fluctuations.
var DefaultNoiseThreshold = decimal.NewFromInt(100)

// ActionKind discriminates the reconciliation outcomes
type ActionKind int

const (
	// ActionNoOp leaves the existing snapshot untouched
	ActionNoOp ActionKind = iota
	// ActionInsert creates the first snapshot for the day
	ActionInsert
	// ActionUpdate overwrites the existing snapshot's total value
	ActionUpdate
)

// Action is the persistence decision for a daily snapshot
type Action struct {
	Kind       ActionKind
	SnapshotID uuid.UUID // set for ActionUpdate
	Date       time.Time // set for ActionInsert (calendar day)
	TotalValue decimal.Decimal
}

// Reconcile decides whether a new daily total should be inserted, should
// replace today's existing snapshot, or should be ignored.
// Logic:
//  1. No snapshot for today -> Insert, regardless of magnitude
//  2. Existing snapshot differs by more than threshold -> Update
//  3. Otherwise -> NoOp
//
// Stateless given its inputs; debouncing repeated calls is the caller's job.
func Reconcile(today time.Time, totalValue decimal.Decimal, existing *domain.HistorySnapshot, threshold decimal.Decimal) Action {
	if existing == nil {
		return Action{
			Kind:       ActionInsert,
			Date:       domain.Day(today),
			TotalValue: totalValue,
		}
	}

	if existing.TotalValue.Sub(totalValue).Abs().GreaterThan(threshold) {
		return Action{
			Kind:       ActionUpdate,
			SnapshotID: existing.ID,
			TotalValue: totalValue,
		}
	}

	return Action{Kind: ActionNoOp}
}
