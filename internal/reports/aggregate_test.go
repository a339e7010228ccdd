package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/costeo/internal/ledger"
)

var reference = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func at(layout string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", layout)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParsePeriod(t *testing.T) {
	for raw, want := range map[string]Period{
		"":         PeriodDaily,
		"daily":    PeriodDaily,
		" Weekly ": PeriodWeekly,
		"MONTHLY":  PeriodMonthly,
		"annual":   PeriodAnnual,
	} {
		got, err := ParsePeriod(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePeriod("quarterly")
	require.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestInPeriodWeeklyIsRollingWindow(t *testing.T) {
	// 7 days and 1 hour before the reference
	assert.False(t, InPeriod(at("2024-06-08T11:00"), PeriodWeekly, reference))
	// 6 days and 23 hours before the reference
	assert.True(t, InPeriod(at("2024-06-08T13:00"), PeriodWeekly, reference))
	// exactly 7×24h is outside
	assert.False(t, InPeriod(at("2024-06-08T12:00"), PeriodWeekly, reference))
	// future tickets are kept
	assert.True(t, InPeriod(at("2024-06-20T09:00"), PeriodWeekly, reference))
}

func TestInPeriodCalendarWindows(t *testing.T) {
	assert.True(t, InPeriod(at("2024-06-15T00:01"), PeriodDaily, reference))
	assert.False(t, InPeriod(at("2024-06-14T23:59"), PeriodDaily, reference))

	assert.True(t, InPeriod(at("2024-06-01T00:00"), PeriodMonthly, reference))
	assert.False(t, InPeriod(at("2023-06-15T12:00"), PeriodMonthly, reference))
	assert.False(t, InPeriod(at("2024-05-31T23:00"), PeriodMonthly, reference))

	assert.True(t, InPeriod(at("2024-01-01T00:00"), PeriodAnnual, reference))
	assert.False(t, InPeriod(at("2023-12-31T23:59"), PeriodAnnual, reference))
}

func TestInPeriodUsesReferenceLocation(t *testing.T) {
	madrid := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2024, 6, 15, 1, 0, 0, 0, madrid)

	// 23:30 UTC on the 14th is 01:30 on the 15th in Madrid
	assert.True(t, InPeriod(time.Date(2024, 6, 14, 23, 30, 0, 0, time.UTC), PeriodDaily, now))
}

func sampleLedger() ledger.Ledger {
	return ledger.Ledger{
		{ID: "1", Name: "MASA", Unit: ledger.UnitUd, PricePerUnit: 0.5},
		{ID: "2", Name: "MOZZARELLA", Unit: ledger.UnitKg, PricePerUnit: 10},
	}
}

func sampleTickets() []Ticket {
	margherita := []ledger.RecipeLine{
		{IngredientName: "MASA", Amount: 1, Unit: ledger.UnitUd},
		{IngredientName: "mozzarella", Amount: 0.1, Unit: ledger.UnitKg},
		{IngredientName: "ALBAHACA", Amount: 0.01, Unit: ledger.UnitKg},
	}
	return []Ticket{
		{
			ID: "t1", TicketNumber: 1, Date: at("2024-06-15T10:00"),
			Items:      []TicketItem{{Name: "Margherita", Quantity: 2, Ingredients: margherita}},
			TotalVenta: 20, TotalCosto: 4, TotalProfit: 14,
		},
		{
			ID: "t2", TicketNumber: 2, Date: at("2024-06-14T21:00"), IsGlovo: true,
			Items:      []TicketItem{{Name: "MARGHERITA", Quantity: 1, Ingredients: margherita}, {Name: "Cerveza", Quantity: 3}},
			TotalVenta: 19, TotalCosto: 3, TotalProfit: 9,
		},
		{
			ID: "t3", TicketNumber: 3, Date: at("2024-06-15T11:00"),
			Items:      []TicketItem{{Name: "Cerveza", Quantity: 1}},
			TotalVenta: 3, TotalCosto: 1, TotalProfit: 1.7,
		},
		{
			ID: "old", TicketNumber: 0, Date: at("2024-05-01T12:00"),
			Items:      []TicketItem{{Name: "Margherita", Quantity: 50, Ingredients: margherita}},
			TotalVenta: 500, TotalCosto: 100, TotalProfit: 300,
		},
	}
}

func TestAggregateTotalsAndCounts(t *testing.T) {
	stats := Aggregate(sampleTickets(), PeriodWeekly, reference, sampleLedger())

	assert.Equal(t, 3, stats.TicketCount)
	assert.InDelta(t, 42, stats.TotalVenta, 1e-9)
	assert.InDelta(t, 8, stats.TotalCosto, 1e-9)
	assert.InDelta(t, 24.7, stats.TotalProfit, 1e-9)
	assert.Equal(t, 1, stats.GlovoCount)
	assert.Equal(t, 2, stats.NormalCount)
}

func TestAggregateMergesProductNamesCaseInsensitively(t *testing.T) {
	stats := Aggregate(sampleTickets(), PeriodWeekly, reference, sampleLedger())

	require.Len(t, stats.ProductSales, 2)
	assert.Equal(t, ProductSales{Name: "Margherita", Quantity: 3}, stats.ProductSales[0])
	assert.Equal(t, 4, stats.UnitsSold("cerveza"))
	assert.Equal(t, 0, stats.UnitsSold("Hawaiana"))
}

func TestAggregateIngredientUsageUsesCurrentPrices(t *testing.T) {
	l := sampleLedger()
	stats := Aggregate(sampleTickets(), PeriodWeekly, reference, l)

	masa, ok := stats.Usage("masa")
	require.True(t, ok)
	assert.InDelta(t, 3, masa.Amount, 1e-9)
	assert.InDelta(t, 1.5, masa.Cost, 1e-9)
	assert.Equal(t, ledger.UnitUd, masa.Unit)

	mozz, ok := stats.Usage("MOZZARELLA")
	require.True(t, ok)
	assert.InDelta(t, 0.3, mozz.Amount, 1e-9)
	assert.InDelta(t, 3, mozz.Cost, 1e-9)

	// not in the ledger: amount is tracked, cost stays at zero
	albahaca, ok := stats.Usage("ALBAHACA")
	require.True(t, ok)
	assert.InDelta(t, 0.03, albahaca.Amount, 1e-9)
	assert.InDelta(t, 0, albahaca.Cost, 1e-9)

	// a price change is reflected on the next aggregation
	l[1].PricePerUnit = 20
	mozz, _ = Aggregate(sampleTickets(), PeriodWeekly, reference, l).Usage("MOZZARELLA")
	assert.InDelta(t, 6, mozz.Cost, 1e-9)
}

func TestAggregateDailySeriesKeepsFirstSeenOrder(t *testing.T) {
	stats := Aggregate(sampleTickets(), PeriodWeekly, reference, sampleLedger())

	require.Len(t, stats.Daily, 2)
	assert.Equal(t, "2024-06-15", stats.Daily[0].Date)
	assert.Equal(t, "2024-06-14", stats.Daily[1].Date)

	day, ok := stats.Day("2024-06-15")
	require.True(t, ok)
	assert.InDelta(t, 23, day.Venta, 1e-9)
	assert.InDelta(t, 5, day.Costo, 1e-9)
}

func TestAggregateEmptyPeriod(t *testing.T) {
	stats := Aggregate(sampleTickets(), PeriodDaily, at("2025-01-01T12:00"), sampleLedger())

	assert.Equal(t, 0, stats.TicketCount)
	assert.Zero(t, stats.TotalVenta)
	assert.Empty(t, stats.ProductSales)
	assert.Empty(t, stats.IngredientUsage)
	assert.Empty(t, stats.Daily)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	tickets := sampleTickets()
	before := tickets[0].Items[0].Ingredients[0].Amount

	_ = Aggregate(tickets, PeriodAnnual, reference, sampleLedger())

	assert.Equal(t, before, tickets[0].Items[0].Ingredients[0].Amount)
	assert.Len(t, tickets, 4)
}
