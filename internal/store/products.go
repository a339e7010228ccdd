package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/stats"
)

// ErrInvalidProduct is returned for products without a name or with a
// negative price or amount.
var ErrInvalidProduct = errors.New("invalid product")

const productColumns = `id, number, name, recipe, sale_price, is_active`

// Products lists every product, active or not, by number.
func (s *Store) Products(ctx context.Context) ([]stats.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY number, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := make([]stats.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// Product loads one product by ID.
func (s *Store) Product(ctx context.Context, id string) (stats.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return p, err
}

// CreateProduct stores a new product. A zero Number takes the next free one.
func (s *Store) CreateProduct(ctx context.Context, p stats.Product) (stats.Product, error) {
	if err := validateProduct(p); err != nil {
		return stats.Product{}, err
	}
	recipe, err := encodeRecipe(p.Ingredients)
	if err != nil {
		return stats.Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err = s.inTx(ctx, "create product", func(tx *sql.Tx) error {
		if p.Number == 0 {
			if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(number), 0) + 1 FROM products`).Scan(&p.Number); err != nil {
				return fmt.Errorf("query next product number: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, number, name, recipe, sale_price, is_active)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.ID, p.Number, p.Name, recipe, p.SalePrice, boolToInt(p.IsActive)); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return nil
	})
	if err != nil {
		return stats.Product{}, err
	}
	return p, nil
}

// UpdateProduct overwrites a product by ID.
func (s *Store) UpdateProduct(ctx context.Context, p stats.Product) (stats.Product, error) {
	if err := validateProduct(p); err != nil {
		return stats.Product{}, err
	}
	recipe, err := encodeRecipe(p.Ingredients)
	if err != nil {
		return stats.Product{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET number = ?, name = ?, recipe = ?, sale_price = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Number, p.Name, recipe, p.SalePrice, boolToInt(p.IsActive), p.ID)
	if err != nil {
		return stats.Product{}, fmt.Errorf("update product: %w", err)
	}
	if err := checkAffected(res, "update product "+p.ID); err != nil {
		return stats.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes a product. Past tickets keep their own copy of the
// recipe and are unaffected.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return checkAffected(res, "delete product "+id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (stats.Product, error) {
	var (
		p      stats.Product
		recipe string
		active int
	)
	if err := row.Scan(&p.ID, &p.Number, &p.Name, &recipe, &p.SalePrice, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return stats.Product{}, err
		}
		return stats.Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.IsActive = active == 1
	if err := json.Unmarshal([]byte(recipe), &p.Ingredients); err != nil {
		return stats.Product{}, fmt.Errorf("decode recipe of %s: %w", p.ID, err)
	}
	return p, nil
}

func encodeRecipe(lines []ledger.RecipeLine) (string, error) {
	if lines == nil {
		lines = []ledger.RecipeLine{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode recipe: %w", err)
	}
	return string(b), nil
}

func validateProduct(p stats.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidProduct)
	}
	if p.SalePrice < 0 {
		return fmt.Errorf("%s: sale price must be >= 0: %w", p.Name, ErrInvalidProduct)
	}
	for _, line := range p.Ingredients {
		if strings.TrimSpace(line.IngredientName) == "" || line.Amount < 0 {
			return fmt.Errorf("%s: recipe lines need a name and an amount >= 0: %w", p.Name, ErrInvalidProduct)
		}
	}
	return nil
}
