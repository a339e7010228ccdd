package pricing

import (
	"math"
	"testing"

	"github.com/Simplici0/costeo/internal/ledger"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func testLedger() ledger.Ledger {
	return ledger.Ledger{
		{ID: "1", Name: "HARINA", Unit: ledger.UnitKg, PricePerUnit: 1.2},
		{ID: "2", Name: "MOZZARELLA", Unit: ledger.UnitKg, PricePerUnit: 8},
		{ID: "3", Name: "ALBAHACA", Unit: ledger.UnitKg, PricePerUnit: 0},
	}
}

func TestCost_SumsPricedLines(t *testing.T) {
	recipe := []ledger.RecipeLine{
		{IngredientName: "harina", Amount: 0.25, Unit: ledger.UnitKg},
		{IngredientName: "Mozzarella", Amount: 0.125, Unit: ledger.UnitKg},
	}

	result := Cost(recipe, testLedger())

	nearlyEqual(t, "total", result.Total, 0.3+1.0)
	if result.HasMissingOrZeroPrice {
		t.Fatalf("expected no data-quality flag")
	}
	if len(result.Lines) != 2 || result.Lines[1].Status != LinePriced {
		t.Fatalf("unexpected lines: %+v", result.Lines)
	}
}

func TestCost_MissingIngredientContributesZero(t *testing.T) {
	recipe := []ledger.RecipeLine{
		{IngredientName: "HARINA", Amount: 1},
		{IngredientName: "TRUFA", Amount: 0.05},
	}

	result := Cost(recipe, testLedger())

	nearlyEqual(t, "total", result.Total, 1.2)
	nearlyEqual(t, "missing line cost", result.Lines[1].Cost, 0)
	if !result.HasMissingOrZeroPrice {
		t.Fatalf("expected missing ingredient to raise the flag")
	}
	if result.Lines[1].Status != LineMissing {
		t.Fatalf("status = %q, want %q", result.Lines[1].Status, LineMissing)
	}
}

func TestCost_ZeroPriceRaisesFlag(t *testing.T) {
	result := Cost([]ledger.RecipeLine{{IngredientName: "albahaca", Amount: 0.01}}, testLedger())

	nearlyEqual(t, "total", result.Total, 0)
	if !result.HasMissingOrZeroPrice {
		t.Fatalf("expected zero price to raise the flag")
	}
	if result.Lines[0].Status != LineZeroPrice {
		t.Fatalf("status = %q, want %q", result.Lines[0].Status, LineZeroPrice)
	}
}

func TestCost_IgnoresUnitMismatch(t *testing.T) {
	result := Cost([]ledger.RecipeLine{{IngredientName: "HARINA", Amount: 2, Unit: ledger.UnitUd}}, testLedger())

	nearlyEqual(t, "total", result.Total, 2.4)
}

func TestMargin_Direct(t *testing.T) {
	result := Margin(11, 4, Direct())

	nearlyEqual(t, "basePrice", result.BasePrice, 10)
	nearlyEqual(t, "commission", result.Commission, 0)
	nearlyEqual(t, "profit", result.Profit, 6)
	nearlyEqual(t, "marginPercent", result.MarginPercent, 60)
	if !result.Priced {
		t.Fatalf("expected priced result")
	}
}

func TestMargin_MarketplaceChargesCommissionOnGross(t *testing.T) {
	result := Margin(11, 4, Marketplace(30))

	nearlyEqual(t, "basePrice", result.BasePrice, 10)
	nearlyEqual(t, "commission", result.Commission, 3.3)
	nearlyEqual(t, "profit", result.Profit, 2.7)
	nearlyEqual(t, "marginPercent", result.MarginPercent, 27)
}

func TestMargin_ZeroSalePriceIsUndefined(t *testing.T) {
	for _, mode := range []Mode{Direct(), Marketplace(25)} {
		result := Margin(0, 7.5, mode)

		nearlyEqual(t, "profit", result.Profit, 0)
		nearlyEqual(t, "marginPercent", result.MarginPercent, 0)
		nearlyEqual(t, "basePrice", result.BasePrice, 0)
		if result.Priced {
			t.Fatalf("expected unpriced sentinel for mode %+v", mode)
		}
	}
}

func TestMargin_MarketplaceWithZeroCommissionEqualsDirect(t *testing.T) {
	for _, price := range []float64{0.5, 9.9, 12, 23.45} {
		direct := Margin(price, 3.1, Direct())
		market := Margin(price, 3.1, Marketplace(0))

		nearlyEqual(t, "profit", market.Profit, direct.Profit)
		nearlyEqual(t, "marginPercent", market.MarginPercent, direct.MarginPercent)
		nearlyEqual(t, "basePrice", market.BasePrice, direct.BasePrice)
	}
}

func TestMargin_NegativeProfitIsValid(t *testing.T) {
	result := Margin(5.5, 8, Direct())

	nearlyEqual(t, "profit", result.Profit, -3)
	nearlyEqual(t, "marginPercent", result.MarginPercent, -60)
}

func TestParseChannel(t *testing.T) {
	if ParseChannel("glovo") != ChannelMarketplace || ParseChannel("marketplace") != ChannelMarketplace {
		t.Fatalf("expected marketplace aliases to parse")
	}
	if ParseChannel("") != ChannelDirect || ParseChannel("direct") != ChannelDirect {
		t.Fatalf("expected direct fallback")
	}
	if ChannelMarketplace.String() != "glovo" {
		t.Fatalf("String() = %q", ChannelMarketplace.String())
	}
}
