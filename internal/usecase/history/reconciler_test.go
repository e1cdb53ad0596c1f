package history

import (
	"testing"
	"time"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestReconcile_NoSnapshotInserts(t *testing.T) {
	today := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

	action := Reconcile(today, d(100000), nil, DefaultNoiseThreshold)

	assert.Equal(t, ActionInsert, action.Kind)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), action.Date, "insert uses calendar-day granularity")
	assert.True(t, action.TotalValue.Equal(d(100000)))
}

func TestReconcile_InsertRegardlessOfMagnitude(t *testing.T) {
	// First snapshot of the day is written even for a tiny total
	action := Reconcile(time.Now(), d(1), nil, DefaultNoiseThreshold)
	assert.Equal(t, ActionInsert, action.Kind)
}

func TestReconcile_SubThresholdIsNoOp(t *testing.T) {
	existing := &domain.HistorySnapshot{
		ID:         uuid.New(),
		Date:       domain.Day(time.Now()),
		TotalValue: d(100000),
	}

	// diff 50 <= 100 -> NoOp
	action := Reconcile(time.Now(), d(100050), existing, DefaultNoiseThreshold)
	assert.Equal(t, ActionNoOp, action.Kind)
}

func TestReconcile_ExactThresholdIsNoOp(t *testing.T) {
	existing := &domain.HistorySnapshot{ID: uuid.New(), TotalValue: d(100000)}

	// diff exactly 100 is not "more than" the threshold
	action := Reconcile(time.Now(), d(100100), existing, DefaultNoiseThreshold)
	assert.Equal(t, ActionNoOp, action.Kind)
}

func TestReconcile_AboveThresholdUpdates(t *testing.T) {
	existing := &domain.HistorySnapshot{
		ID:         uuid.New(),
		Date:       domain.Day(time.Now()),
		TotalValue: d(100000),
	}

	// diff 200 > 100 -> Update
	action := Reconcile(time.Now(), d(100200), existing, DefaultNoiseThreshold)

	assert.Equal(t, ActionUpdate, action.Kind)
	assert.Equal(t, existing.ID, action.SnapshotID)
	assert.True(t, action.TotalValue.Equal(d(100200)))
}

func TestReconcile_DropBelowThresholdUpdates(t *testing.T) {
	// The threshold is absolute: a drop counts the same as a rise
	existing := &domain.HistorySnapshot{ID: uuid.New(), TotalValue: d(100000)}

	action := Reconcile(time.Now(), d(99000), existing, DefaultNoiseThreshold)
	assert.Equal(t, ActionUpdate, action.Kind)
}
