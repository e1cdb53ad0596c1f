package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSettleDelay is how long the recorder waits after the last asset
// mutation before evaluating a snapshot, so a burst of trades or a price
// refresh across many assets produces at most one write.
const DefaultSettleDelay = 3 * time.Second

// Recorder turns asset mutations into debounced daily snapshot writes.
// Touch schedules an evaluation after the settle delay, restarting the timer
// on every call; Record evaluates immediately.
type Recorder struct {
	AssetRepo   domain.AssetRepository
	HistoryRepo domain.HistoryRepository
	Threshold   decimal.Decimal
	SettleDelay time.Duration
	Now         func() time.Time

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewRecorder creates a new Recorder with the default threshold and delay
func NewRecorder(assetRepo domain.AssetRepository, historyRepo domain.HistoryRepository) *Recorder {
	return &Recorder{
		AssetRepo:   assetRepo,
		HistoryRepo: historyRepo,
		Threshold:   DefaultNoiseThreshold,
		SettleDelay: DefaultSettleDelay,
		Now:         time.Now,
	}
}

// Touch restarts the settle timer. The snapshot is evaluated once the
// portfolio has been quiet for the settle delay.
func (r *Recorder) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.SettleDelay, func() {
		// Detached from any request; evaluation gets its own context
		_ = r.Record(context.Background())
	})
}

// Record evaluates and persists today's snapshot immediately.
// An empty portfolio records nothing.
func (r *Recorder) Record(ctx context.Context) error {
	assets, err := r.AssetRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list assets for snapshot: %w", err)
	}

	if len(assets) == 0 {
		return nil
	}

	totalValue := decimal.Zero
	for _, asset := range assets {
		totalValue = totalValue.Add(asset.Amount)
	}

	today := domain.Day(r.Now())

	existing, err := r.HistoryRepo.GetByDay(ctx, today)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			return fmt.Errorf("failed to load today's snapshot: %w", err)
		}
		existing = nil
	}

	action := Reconcile(today, totalValue, existing, r.Threshold)

	switch action.Kind {
	case ActionInsert:
		snapshot := &domain.HistorySnapshot{
			ID:         uuid.New(),
			Date:       action.Date,
			TotalValue: action.TotalValue,
		}
		if err := r.HistoryRepo.Insert(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}

	case ActionUpdate:
		if err := r.HistoryRepo.UpdateValue(ctx, action.SnapshotID, action.TotalValue); err != nil {
			return fmt.Errorf("failed to update snapshot: %w", err)
		}
	}

	return nil
}

// Close cancels any pending evaluation. Further Touch calls are ignored.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
