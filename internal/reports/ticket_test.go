package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/settings"
	"github.com/Simplici0/costeo/internal/stats"
)

func posLedger() ledger.Ledger {
	l := sampleLedger()
	return append(l,
		ledger.Ingredient{ID: "3", Name: "CERVEZA", Unit: ledger.UnitUd, PricePerUnit: 0.6, DefaultSalePrice: 3.3, ShowInSales: true},
		ledger.Ingredient{ID: "4", Name: "AGUA", Unit: ledger.UnitUd, PricePerUnit: 0.2, DefaultSalePrice: 1.5},
	)
}

func posProducts() []stats.Product {
	return []stats.Product{
		{ID: "p1", Name: "Margherita", SalePrice: 11, IsActive: true, Ingredients: []ledger.RecipeLine{
			{IngredientName: "MASA", Amount: 2, Unit: ledger.UnitUd},
			{IngredientName: "MOZZARELLA", Amount: 0.1, Unit: ledger.UnitKg},
		}},
		{ID: "p2", Name: "Sin precio", IsActive: true, Ingredients: []ledger.RecipeLine{
			{IngredientName: "MOZZARELLA", Amount: 0.2, Unit: ledger.UnitKg},
		}},
		{ID: "p3", Name: "Retirada", SalePrice: 9, IsActive: false},
	}
}

func TestBuildTicketDirect(t *testing.T) {
	ticket, err := BuildTicket([]SaleLine{
		{ProductID: "p1", Quantity: 2},
		{Extra: "cerveza", Quantity: 1},
	}, posProducts(), posLedger(), settings.Default(), false, reference)
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, reference, ticket.Date)
	assert.False(t, ticket.IsGlovo)
	require.Len(t, ticket.Items, 2)
	assert.Equal(t, "Margherita", ticket.Items[0].Name)
	assert.Equal(t, "CERVEZA", ticket.Items[1].Name)

	// margherita cost 2: base 10, profit 8; beer cost 0.6: base 3, profit 2.4
	assert.InDelta(t, 25.3, ticket.TotalVenta, 1e-9)
	assert.InDelta(t, 4.6, ticket.TotalCosto, 1e-9)
	assert.InDelta(t, 18.4, ticket.TotalProfit, 1e-9)
}

func TestBuildTicketMarketplaceChargesCommission(t *testing.T) {
	ticket, err := BuildTicket([]SaleLine{{ProductID: "p1", Quantity: 1}},
		posProducts(), posLedger(), settings.Default(), true, reference)
	require.NoError(t, err)

	assert.True(t, ticket.IsGlovo)
	// 10 - 3.3 - 2
	assert.InDelta(t, 4.7, ticket.TotalProfit, 1e-9)
}

func TestBuildTicketUnpricedProductBooksCost(t *testing.T) {
	ticket, err := BuildTicket([]SaleLine{{ProductID: "p2", Quantity: 3}},
		posProducts(), posLedger(), settings.Default(), false, reference)
	require.NoError(t, err)

	assert.Zero(t, ticket.TotalVenta)
	assert.InDelta(t, 6, ticket.TotalCosto, 1e-9)
	assert.InDelta(t, -6, ticket.TotalProfit, 1e-9)
}

func TestBuildTicketSnapshotsRecipe(t *testing.T) {
	products := posProducts()
	ticket, err := BuildTicket([]SaleLine{{ProductID: "p1", Quantity: 1}},
		products, posLedger(), settings.Default(), false, reference)
	require.NoError(t, err)

	products[0].Ingredients[0].Amount = 99
	assert.Equal(t, 2.0, ticket.Items[0].Ingredients[0].Amount)
}

func TestBuildTicketRejects(t *testing.T) {
	cases := map[string]struct {
		lines []SaleLine
		want  error
	}{
		"empty":          {nil, ErrEmptyTicket},
		"zero quantity":  {[]SaleLine{{ProductID: "p1"}}, ErrInvalidQuantity},
		"unknown":        {[]SaleLine{{ProductID: "nope", Quantity: 1}}, ErrNotSellable},
		"inactive":       {[]SaleLine{{ProductID: "p3", Quantity: 1}}, ErrNotSellable},
		"hidden extra":   {[]SaleLine{{Extra: "agua", Quantity: 1}}, ErrNotSellable},
		"missing extra":  {[]SaleLine{{Extra: "vino", Quantity: 1}}, ErrNotSellable},
		"both":           {[]SaleLine{{ProductID: "p1", Extra: "cerveza", Quantity: 1}}, ErrNotSellable},
		"neither is set": {[]SaleLine{{Quantity: 1}}, ErrNotSellable},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildTicket(tc.lines, posProducts(), posLedger(), settings.Default(), false, reference)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuiltTicketFeedsAggregation(t *testing.T) {
	ticket, err := BuildTicket([]SaleLine{{ProductID: "p1", Quantity: 2}},
		posProducts(), posLedger(), settings.Default(), false, reference)
	require.NoError(t, err)

	ps := Aggregate([]Ticket{ticket}, PeriodDaily, reference, posLedger())
	assert.Equal(t, 2, ps.UnitsSold("margherita"))
	masa, ok := ps.Usage("MASA")
	require.True(t, ok)
	assert.InDelta(t, 4, masa.Amount, 1e-9)
}
