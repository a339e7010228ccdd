package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/settings"
)

// baseIngredients are the zero-priced entries a new installation starts
// with. Zero prices show up as warnings until real prices are entered.
var baseIngredients = []struct {
	name string
	unit ledger.Unit
}{
	{"MASA", ledger.UnitUd},
	{"TOMATE", ledger.UnitKg},
	{"MOZZARELLA", ledger.UnitKg},
	{"ACEITE DE OLIVA", ledger.UnitL},
}

// Config contains the values required by startup seed.
type Config struct {
	// Ingredients enables the base ingredient list. Settings are always
	// seeded.
	Ingredients bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureSettings(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if cfg.Ingredients {
		if err := ensureIngredients(ctx, tx, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSettings(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM settings WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check settings existence: %w", err)
	}
	if exists {
		return nil
	}

	def := settings.Default()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (id, currency, decimals, glovo_commission)
		VALUES (1, ?, ?, ?)
	`, def.Currency, def.Decimals, def.GlovoCommission); err != nil {
		return fmt.Errorf("insert settings singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

// ensureIngredients fills an empty ledger only. Once any ingredient exists
// the list belongs to the user, so deleted base entries stay deleted.
func ensureIngredients(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&count); err != nil {
		return fmt.Errorf("count ingredients: %w", err)
	}
	if count > 0 {
		return nil
	}

	for position, base := range baseIngredients {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ingredients (id, position, name, unit, price_per_unit, default_sale_price, show_in_sales)
			VALUES (?, ?, ?, ?, 0, 0, 0)
		`, uuid.NewString(), position, base.name, string(base.unit)); err != nil {
			return fmt.Errorf("insert ingredient %s: %w", base.name, err)
		}
		stats.Inserts++
	}
	return nil
}
