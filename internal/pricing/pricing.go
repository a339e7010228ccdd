package pricing

import "github.com/Simplici0/costeo/internal/ledger"

// VATDivisor extracts the 10% VAT included in a sale price.
const VATDivisor = 1.10

// Channel selects how a sale is settled.
type Channel int

const (
	// ChannelDirect is a sale at the counter: no commission.
	ChannelDirect Channel = iota
	// ChannelMarketplace is a sale through a delivery marketplace (Glovo)
	// that keeps a commission on the gross sale price.
	ChannelMarketplace
)

// String returns the wire name of the channel.
func (c Channel) String() string {
	if c == ChannelMarketplace {
		return "glovo"
	}
	return "direct"
}

// ParseChannel accepts "glovo"/"marketplace"; anything else is direct.
func ParseChannel(raw string) Channel {
	switch raw {
	case "glovo", "marketplace":
		return ChannelMarketplace
	default:
		return ChannelDirect
	}
}

// Mode is the channel plus the commission it applies.
type Mode struct {
	Channel           Channel
	CommissionPercent float64
}

// Direct returns the counter-sale mode.
func Direct() Mode {
	return Mode{Channel: ChannelDirect}
}

// Marketplace returns the marketplace mode with the given commission (0-100).
func Marketplace(commissionPercent float64) Mode {
	return Mode{Channel: ChannelMarketplace, CommissionPercent: commissionPercent}
}

// LineStatus tells how a recipe line was priced.
type LineStatus string

const (
	LinePriced    LineStatus = "priced"
	LineMissing   LineStatus = "missing"
	LineZeroPrice LineStatus = "zero_price"
)

// LineCost is the costing of a single recipe line.
type LineCost struct {
	Name      string      `json:"name"`
	Amount    float64     `json:"amount"`
	Unit      ledger.Unit `json:"unit"`
	UnitPrice float64     `json:"unitPrice"`
	Cost      float64     `json:"cost"`
	Status    LineStatus  `json:"status"`
}

// CostResult is the production cost of a recipe.
type CostResult struct {
	Total                 float64    `json:"total"`
	HasMissingOrZeroPrice bool       `json:"hasMissingOrZeroPrice"`
	Lines                 []LineCost `json:"lines"`
}

// Cost prices a recipe against the ledger. Lines whose ingredient is missing
// or priced at zero add nothing to the total and raise the data-quality flag.
func Cost(recipe []ledger.RecipeLine, l ledger.Ledger) CostResult {
	result := CostResult{Lines: make([]LineCost, 0, len(recipe))}
	for _, line := range recipe {
		lc := LineCost{Name: line.IngredientName, Amount: line.Amount, Unit: line.Unit}

		ing, ok := l.FindByName(line.IngredientName)
		switch {
		case !ok:
			lc.Status = LineMissing
		case ing.PricePerUnit == 0:
			lc.Status = LineZeroPrice
		default:
			lc.Status = LinePriced
			lc.UnitPrice = ing.PricePerUnit
			lc.Cost = line.Amount * ing.PricePerUnit
		}
		if lc.Status != LinePriced {
			result.HasMissingOrZeroPrice = true
		}

		result.Total += lc.Cost
		result.Lines = append(result.Lines, lc)
	}
	return result
}

// MarginResult is the profitability of a product at a given sale price.
type MarginResult struct {
	BasePrice     float64 `json:"basePrice"`
	Commission    float64 `json:"commission"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"marginPercent"`
	// Priced is false when no sale price is set; every amount is then zero
	// and must be shown as "no price", not as a 0% margin.
	Priced bool `json:"priced"`
}

// Margin computes profit and margin from a VAT-inclusive sale price.
//
// The marketplace commission is charged on the gross (VAT-inclusive) price
// while the margin is measured against the VAT-free base price.
func Margin(salePriceWithTax, cost float64, mode Mode) MarginResult {
	if salePriceWithTax <= 0 {
		return MarginResult{}
	}

	basePrice := salePriceWithTax / VATDivisor
	commission := 0.0
	if mode.Channel == ChannelMarketplace {
		commission = salePriceWithTax * mode.CommissionPercent / 100.0
	}
	profit := basePrice - commission - cost

	return MarginResult{
		BasePrice:     basePrice,
		Commission:    commission,
		Profit:        profit,
		MarginPercent: profit / basePrice * 100.0,
		Priced:        true,
	}
}
