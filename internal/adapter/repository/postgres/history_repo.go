package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// historyRepository implements domain.HistoryRepository.
// The snapshot_date column carries a UNIQUE constraint, so the at-most-one-
// snapshot-per-day invariant holds even against concurrent writers.
type historyRepository struct {
	db *DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) domain.HistoryRepository {
	return &historyRepository{db: db}
}

// List retrieves all snapshots sorted by date ascending
func (r *historyRepository) List(ctx context.Context) ([]*domain.HistorySnapshot, error) {
	query := `
		SELECT id, snapshot_date, total_value
		FROM history_snapshots
		ORDER BY snapshot_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list history snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.HistorySnapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history snapshots: %w", err)
	}

	return snapshots, nil
}

// GetByDay retrieves the snapshot for the given calendar day
func (r *historyRepository) GetByDay(ctx context.Context, day time.Time) (*domain.HistorySnapshot, error) {
	query := `
		SELECT id, snapshot_date, total_value
		FROM history_snapshots
		WHERE snapshot_date = $1
	`

	snapshot, err := scanSnapshot(r.db.QueryRowContext(ctx, query, domain.Day(day)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}

	return snapshot, nil
}

// Insert creates a new snapshot
func (r *historyRepository) Insert(ctx context.Context, snapshot *domain.HistorySnapshot) error {
	query := `
		INSERT INTO history_snapshots (id, snapshot_date, total_value)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		domain.Day(snapshot.Date),
		snapshot.TotalValue.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history snapshot: %w", err)
	}

	return nil
}

// UpdateValue overwrites the total value of an existing snapshot
func (r *historyRepository) UpdateValue(ctx context.Context, id uuid.UUID, totalValue decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE history_snapshots SET total_value = $2 WHERE id = $1`,
		id, totalValue.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update history snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrSnapshotNotFound
	}

	return nil
}

func scanSnapshot(row rowScanner) (*domain.HistorySnapshot, error) {
	var snapshot domain.HistorySnapshot
	var totalStr string

	err := row.Scan(&snapshot.ID, &snapshot.Date, &totalStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history snapshot: %w", err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total_value: %w", err)
	}
	snapshot.TotalValue = total

	return &snapshot, nil
}
