// Package ledger holds the ingredient price list that every costing and
// reporting computation reads from.
//
// Products and tickets reference ingredients by name only, so a lookup that
// finds nothing is an ordinary outcome and is returned as such.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrDuplicateName is returned when an ingredient name already exists in the
// ledger under case-insensitive comparison.
var ErrDuplicateName = errors.New("ingredient name already exists")

// ErrInvalidIngredient is returned for entries with an empty name or a
// negative price.
var ErrInvalidIngredient = errors.New("invalid ingredient")

// Unit is the purchase unit of an ingredient.
type Unit string

const (
	UnitKg Unit = "Kg"
	UnitL  Unit = "L"
	UnitUd Unit = "Ud"
)

// ParseUnit maps free text to a Unit by substring: anything containing "L"
// is litres, anything containing "UD" is units, everything else is kilograms.
func ParseUnit(raw string) Unit {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(upper, "L"):
		return UnitL
	case strings.Contains(upper, "UD"):
		return UnitUd
	default:
		return UnitKg
	}
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	return u == UnitKg || u == UnitL || u == UnitUd
}

// NormalizeUnit keeps known units and maps anything else through ParseUnit.
func NormalizeUnit(u Unit) Unit {
	if u.Valid() {
		return u
	}
	return ParseUnit(string(u))
}

// Ingredient is one priced entry of the ledger.
type Ingredient struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Unit             Unit    `json:"unit"`
	PricePerUnit     float64 `json:"pricePerUnit"`
	DefaultSalePrice float64 `json:"defaultSalePrice"`
	ShowInSales      bool    `json:"showInSales"`
}

// RecipeLine is one ingredient/amount pair of a bill of materials. Amount is
// read in the line's own unit; no conversion against the ledger unit is done.
type RecipeLine struct {
	IngredientName string  `json:"name"`
	Amount         float64 `json:"amount"`
	Unit           Unit    `json:"unit"`
}

// NewIngredient builds an entry with a fresh ID and a normalised name.
func NewIngredient(name string, unit Unit, price, salePrice float64, showInSales bool) Ingredient {
	return Ingredient{
		ID:               uuid.NewString(),
		Name:             NormalizeName(name),
		Unit:             unit,
		PricePerUnit:     price,
		DefaultSalePrice: salePrice,
		ShowInSales:      showInSales,
	}
}

// NormalizeName trims and upper-cases an ingredient name for storage.
func NormalizeName(name string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(name))
}

// SameName reports whether two names refer to the same ingredient. Both
// sides go through NormalizeName, so a name always matches the spelling it
// was stored from (straße and STRASSE are the same ingredient).
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// Ledger is the ordered ingredient price list. Storage order is preserved by
// every operation.
type Ledger []Ingredient

// IndexOf returns the position of the first entry matching name, or -1.
func (l Ledger) IndexOf(name string) int {
	for i := range l {
		if SameName(l[i].Name, name) {
			return i
		}
	}
	return -1
}

// FindByName looks an ingredient up by case-insensitive name.
func (l Ledger) FindByName(name string) (Ingredient, bool) {
	idx := l.IndexOf(name)
	if idx < 0 {
		return Ingredient{}, false
	}
	return l[idx], true
}

// Add returns a copy of the ledger with ing appended. Name and unit are
// normalised and an ID is assigned when missing.
func (l Ledger) Add(ing Ingredient) (Ledger, error) {
	ing.Name = NormalizeName(ing.Name)
	ing.Unit = NormalizeUnit(ing.Unit)
	if err := validate(ing); err != nil {
		return l, err
	}
	if l.IndexOf(ing.Name) >= 0 {
		return l, fmt.Errorf("add %q: %w", ing.Name, ErrDuplicateName)
	}
	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	out := make(Ledger, len(l), len(l)+1)
	copy(out, l)
	return append(out, ing), nil
}

// MergeStats counts what a Merge did.
type MergeStats struct {
	Updated int
	Added   int
}

// Merge folds imported entries into a copy of the ledger. An entry whose name
// matches an existing one overwrites its price, unit, default sale price and
// visibility; the existing ID and spelling are kept. Unseen names are
// appended. Later imported rows win over earlier ones with the same name.
func (l Ledger) Merge(imported []Ingredient) (Ledger, MergeStats) {
	merged := make(Ledger, len(l), len(l)+len(imported))
	copy(merged, l)

	var stats MergeStats
	for _, item := range imported {
		if idx := merged.IndexOf(item.Name); idx >= 0 {
			merged[idx].PricePerUnit = item.PricePerUnit
			merged[idx].Unit = NormalizeUnit(item.Unit)
			merged[idx].DefaultSalePrice = item.DefaultSalePrice
			merged[idx].ShowInSales = item.ShowInSales
			stats.Updated++
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.Name = NormalizeName(item.Name)
		item.Unit = NormalizeUnit(item.Unit)
		merged = append(merged, item)
		stats.Added++
	}
	return merged, stats
}

// Validate checks every entry and the case-insensitive uniqueness of names.
func (l Ledger) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for _, ing := range l {
		if err := validate(ing); err != nil {
			return err
		}
		key := NormalizeName(ing.Name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("validate %q: %w", ing.Name, ErrDuplicateName)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func validate(ing Ingredient) error {
	if strings.TrimSpace(ing.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidIngredient)
	}
	if ing.PricePerUnit < 0 || ing.DefaultSalePrice < 0 {
		return fmt.Errorf("%s: prices must be >= 0: %w", ing.Name, ErrInvalidIngredient)
	}
	return nil
}
