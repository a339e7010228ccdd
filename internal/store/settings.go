package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/costeo/internal/settings"
)

// Settings returns the stored settings, or the defaults when none were saved.
func (s *Store) Settings(ctx context.Context) (settings.Settings, error) {
	var out settings.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT currency, decimals, glovo_commission
		FROM settings
		WHERE id = 1
	`).Scan(&out.Currency, &out.Decimals, &out.GlovoCommission)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("query settings: %w", err)
	}
	return out, nil
}

// SaveSettings validates and upserts the settings singleton.
func (s *Store) SaveSettings(ctx context.Context, in settings.Settings) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, currency, decimals, glovo_commission, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			currency = excluded.currency,
			decimals = excluded.decimals,
			glovo_commission = excluded.glovo_commission,
			updated_at = CURRENT_TIMESTAMP
	`, in.Currency, in.Decimals, in.GlovoCommission); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
