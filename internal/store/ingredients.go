package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/costeo/internal/ledger"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ledger loads every ingredient in storage order.
func (s *Store) Ledger(ctx context.Context) (ledger.Ledger, error) {
	return loadLedger(ctx, s.db)
}

func loadLedger(ctx context.Context, q queryer) (ledger.Ledger, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, unit, price_per_unit, default_sale_price, show_in_sales
		FROM ingredients
		ORDER BY position, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	out := make(ledger.Ledger, 0)
	for rows.Next() {
		var (
			ing  ledger.Ingredient
			unit string
			show int
		)
		if err := rows.Scan(&ing.ID, &ing.Name, &unit, &ing.PricePerUnit, &ing.DefaultSalePrice, &show); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ing.Unit = ledger.Unit(unit)
		ing.ShowInSales = show == 1
		out = append(out, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return out, nil
}

// Ingredient loads one entry by ID.
func (s *Store) Ingredient(ctx context.Context, id string) (ledger.Ingredient, error) {
	l, err := s.Ledger(ctx)
	if err != nil {
		return ledger.Ingredient{}, err
	}
	for _, ing := range l {
		if ing.ID == id {
			return ing, nil
		}
	}
	return ledger.Ingredient{}, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
}

// AddIngredient appends an entry to the ledger. Names are unique without
// regard to case.
func (s *Store) AddIngredient(ctx context.Context, ing ledger.Ingredient) (ledger.Ingredient, error) {
	var created ledger.Ingredient
	err := s.inTx(ctx, "add ingredient", func(tx *sql.Tx) error {
		current, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		next, err := current.Add(ing)
		if err != nil {
			return err
		}
		created = next[len(next)-1]

		var position int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM ingredients`).Scan(&position); err != nil {
			return fmt.Errorf("query next ingredient position: %w", err)
		}
		return insertIngredient(ctx, tx, created, position)
	})
	if err != nil {
		return ledger.Ingredient{}, err
	}
	return created, nil
}

// UpdateIngredient overwrites name, unit, prices and visibility of an entry.
func (s *Store) UpdateIngredient(ctx context.Context, ing ledger.Ingredient) (ledger.Ingredient, error) {
	ing.Name = ledger.NormalizeName(ing.Name)
	ing.Unit = ledger.NormalizeUnit(ing.Unit)
	err := s.inTx(ctx, "update ingredient", func(tx *sql.Tx) error {
		current, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		idx := -1
		for i := range current {
			if current[i].ID == ing.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("ingredient %s: %w", ing.ID, ErrNotFound)
		}
		current[idx] = ing
		if err := current.Validate(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE ingredients
			SET name = ?, unit = ?, price_per_unit = ?, default_sale_price = ?, show_in_sales = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, ing.Name, string(ing.Unit), ing.PricePerUnit, ing.DefaultSalePrice, boolToInt(ing.ShowInSales), ing.ID); err != nil {
			return fmt.Errorf("update ingredient: %w", err)
		}
		return nil
	})
	if err != nil {
		return ledger.Ingredient{}, err
	}
	return ing, nil
}

// ToggleIngredientVisibility flips whether an ingredient can be sold on its
// own and returns the updated entry.
func (s *Store) ToggleIngredientVisibility(ctx context.Context, id string) (ledger.Ingredient, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ingredients
		SET show_in_sales = 1 - show_in_sales, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return ledger.Ingredient{}, fmt.Errorf("toggle ingredient visibility: %w", err)
	}
	if err := checkAffected(res, "toggle ingredient "+id); err != nil {
		return ledger.Ingredient{}, err
	}
	return s.Ingredient(ctx, id)
}

// DeleteIngredient removes an entry. Recipes that name it keep the reference
// and cost it as missing.
func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return checkAffected(res, "delete ingredient "+id)
}

// ImportIngredients merges imported rows into the stored ledger in one
// transaction.
func (s *Store) ImportIngredients(ctx context.Context, imported []ledger.Ingredient) (ledger.MergeStats, error) {
	var stats ledger.MergeStats
	err := s.inTx(ctx, "import ingredients", func(tx *sql.Tx) error {
		current, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		merged, ms := current.Merge(imported)
		if err := merged.Validate(); err != nil {
			return err
		}
		stats = ms
		return replaceLedger(ctx, tx, merged)
	})
	if err != nil {
		return ledger.MergeStats{}, err
	}
	return stats, nil
}

// ReplaceLedger swaps the stored ledger for l, keeping l's order. Names and
// units are normalised and missing IDs assigned before anything is written.
func (s *Store) ReplaceLedger(ctx context.Context, l ledger.Ledger) (ledger.Ledger, error) {
	out := make(ledger.Ledger, len(l))
	for i, ing := range l {
		ing.Name = ledger.NormalizeName(ing.Name)
		ing.Unit = ledger.NormalizeUnit(ing.Unit)
		if ing.ID == "" {
			ing.ID = uuid.NewString()
		}
		out[i] = ing
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	err := s.inTx(ctx, "replace ledger", func(tx *sql.Tx) error {
		return replaceLedger(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func replaceLedger(ctx context.Context, tx *sql.Tx, l ledger.Ledger) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients`); err != nil {
		return fmt.Errorf("clear ingredients: %w", err)
	}
	for i, ing := range l {
		if err := insertIngredient(ctx, tx, ing, i); err != nil {
			return err
		}
	}
	return nil
}

func insertIngredient(ctx context.Context, tx *sql.Tx, ing ledger.Ingredient, position int) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ingredients (id, position, name, unit, price_per_unit, default_sale_price, show_in_sales)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ing.ID, position, ing.Name, string(ing.Unit), ing.PricePerUnit, ing.DefaultSalePrice, boolToInt(ing.ShowInSales)); err != nil {
		return fmt.Errorf("insert ingredient %s: %w", ing.Name, err)
	}
	return nil
}
