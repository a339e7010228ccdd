package reports

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/pricing"
	"github.com/Simplici0/costeo/internal/settings"
	"github.com/Simplici0/costeo/internal/stats"
)

var (
	// ErrEmptyTicket is returned when a sale has no lines.
	ErrEmptyTicket = errors.New("ticket has no items")
	// ErrNotSellable is returned for unknown or inactive products and for
	// ingredients not flagged for direct sale.
	ErrNotSellable = errors.New("item is not sellable")
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// SaleLine is one line of a sale being rung up. Exactly one of ProductID or
// Extra (an ingredient sold on its own, such as a drink) is set.
type SaleLine struct {
	ProductID string `json:"productId,omitempty"`
	Extra     string `json:"extra,omitempty"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// BuildTicket prices a sale against the current products, ledger and
// settings. Recipes are copied onto the items so later recipe edits do not
// rewrite history. The ticket number is left for the store to assign.
//
// An unpriced product still books its cost, so its profit is the negative
// cost rather than the zero an undefined margin reports.
func BuildTicket(lines []SaleLine, products []stats.Product, l ledger.Ledger, s settings.Settings, isGlovo bool, at time.Time) (Ticket, error) {
	if len(lines) == 0 {
		return Ticket{}, ErrEmptyTicket
	}

	channel := pricing.ChannelDirect
	if isGlovo {
		channel = pricing.ChannelMarketplace
	}
	mode := s.Mode(channel)

	t := Ticket{
		ID:      uuid.NewString(),
		Date:    at,
		IsGlovo: isGlovo,
		Items:   make([]TicketItem, 0, len(lines)),
	}

	for _, line := range lines {
		if line.Quantity < 1 {
			return Ticket{}, fmt.Errorf("line %q: %w", line.ProductID+line.Extra, ErrInvalidQuantity)
		}

		name, recipe, salePrice, err := resolve(line, products, l)
		if err != nil {
			return Ticket{}, err
		}

		cost := pricing.Cost(recipe, l).Total
		margin := pricing.Margin(salePrice, cost, mode)
		profit := margin.Profit
		if !margin.Priced {
			profit = -cost
		}

		qty := float64(line.Quantity)
		t.TotalVenta += salePrice * qty
		t.TotalCosto += cost * qty
		t.TotalProfit += profit * qty
		t.Items = append(t.Items, TicketItem{
			Name:        name,
			Quantity:    line.Quantity,
			Ingredients: recipe,
		})
	}

	return t, nil
}

func resolve(line SaleLine, products []stats.Product, l ledger.Ledger) (string, []ledger.RecipeLine, float64, error) {
	switch {
	case line.ProductID != "" && line.Extra != "":
		return "", nil, 0, fmt.Errorf("line sets both product and extra: %w", ErrNotSellable)
	case line.ProductID != "":
		for _, p := range products {
			if p.ID != line.ProductID {
				continue
			}
			if !p.IsActive {
				return "", nil, 0, fmt.Errorf("product %q is inactive: %w", p.Name, ErrNotSellable)
			}
			recipe := make([]ledger.RecipeLine, len(p.Ingredients))
			copy(recipe, p.Ingredients)
			return p.Name, recipe, p.SalePrice, nil
		}
		return "", nil, 0, fmt.Errorf("product %q: %w", line.ProductID, ErrNotSellable)
	case line.Extra != "":
		ing, ok := l.FindByName(line.Extra)
		if !ok || !ing.ShowInSales {
			return "", nil, 0, fmt.Errorf("extra %q: %w", line.Extra, ErrNotSellable)
		}
		recipe := []ledger.RecipeLine{{IngredientName: ing.Name, Amount: 1, Unit: ing.Unit}}
		return ing.Name, recipe, ing.DefaultSalePrice, nil
	default:
		return "", nil, 0, fmt.Errorf("line names no product: %w", ErrNotSellable)
	}
}
