package domain

import "errors"

var (
	// ErrInvalidTrade rejects a buy/sell with a non-positive unit price or
	// quantity, or a unit trade against a category that does not track
	// quantity. Nothing is mutated when this is returned.
	ErrInvalidTrade = errors.New("invalid trade: unit price and quantity must be positive")

	// ErrAssetNotFound is returned when no asset exists for the given ID
	ErrAssetNotFound = errors.New("asset not found")

	// ErrSnapshotNotFound is returned when no history snapshot exists for
	// the requested day
	ErrSnapshotNotFound = errors.New("history snapshot not found")

	// ErrMissingAPIKey means no quote-source credential is configured.
	// Price refresh must surface this as an explanation, never a crash.
	ErrMissingAPIKey = errors.New("quote API key is not configured")

	// ErrQuoteUnavailable means the quote source returned no usable price
	// for a symbol
	ErrQuoteUnavailable = errors.New("quote unavailable for symbol")
)
