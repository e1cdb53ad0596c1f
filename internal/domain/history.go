package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorySnapshot represents the total portfolio value recorded for one
// calendar day. At most one snapshot per day is authoritative; the engine
// must never create a second.
type HistorySnapshot struct {
	ID         uuid.UUID
	Date       time.Time // calendar day granularity, normalized via Day()
	TotalValue decimal.Decimal
}

// Day truncates a timestamp to calendar-day granularity in UTC.
// All snapshot dates pass through here so that "same day" comparisons
// are exact.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
