package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/assetpro/assetpro-backend/internal/domain"
)

// settingsRepository implements domain.SettingsRepository.
// Settings live in a single-row table; absence of the row means nothing has
// been saved yet and defaults apply.
type settingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) domain.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the saved settings, or DefaultSettings if none exist
func (r *settingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	query := `
		SELECT quote_api_key, theme
		FROM settings
		WHERE id = 1
	`

	var settings domain.Settings
	var theme string

	err := r.db.QueryRowContext(ctx, query).Scan(&settings.QuoteAPIKey, &theme)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	settings.Theme = domain.ColorTheme(theme)
	if !settings.Theme.Valid() {
		settings.Theme = domain.ThemeGlobal
	}

	return settings, nil
}

// Save persists the settings (insert-or-update on the single row)
func (r *settingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	query := `
		INSERT INTO settings (id, quote_api_key, theme)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET quote_api_key = $1, theme = $2
	`

	_, err := r.db.ExecContext(ctx, query, settings.QuoteAPIKey, string(settings.Theme))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
