package reports

import (
	"sort"
	"time"

	"github.com/Simplici0/costeo/internal/ledger"
)

const (
	topProductsLimit = 6
	trendDays        = 7
)

// Report is a period aggregation plus the derived views shown next to it.
type Report struct {
	PeriodStats
	TopProducts       []ProductSales    `json:"topProducts"`
	IngredientRanking []IngredientUsage `json:"ingredientRanking"`
	Trend             []DayPoint        `json:"trend"`
	RecentTickets     []Ticket          `json:"tickets"`
}

// ComputePeriodReport aggregates the tickets of a period and derives the
// best sellers, the ingredient cost ranking, the last week of the daily
// series and the ticket list most recently recorded first.
func ComputePeriodReport(tickets []Ticket, period Period, now time.Time, l ledger.Ledger) Report {
	stats := Aggregate(tickets, period, now, l)
	return Report{
		PeriodStats:       stats,
		TopProducts:       TopProducts(stats.ProductSales, topProductsLimit),
		IngredientRanking: RankIngredientUsage(stats.IngredientUsage),
		Trend:             LastDays(stats.Daily, trendDays),
		RecentTickets:     RecentTickets(stats.Tickets),
	}
}

// RankIngredientUsage returns usage sorted by cost, highest first. Ties keep
// first-seen order.
func RankIngredientUsage(usage []IngredientUsage) []IngredientUsage {
	out := make([]IngredientUsage, len(usage))
	copy(out, usage)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost > out[j].Cost })
	return out
}

// TopProducts returns the n best-selling products by quantity. A
// non-positive n returns the whole ranking.
func TopProducts(sales []ProductSales, n int) []ProductSales {
	out := make([]ProductSales, len(sales))
	copy(out, sales)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// LastDays returns the last n points of the series in its existing order.
func LastDays(series []DayPoint, n int) []DayPoint {
	if n > 0 && len(series) > n {
		series = series[len(series)-n:]
	}
	out := make([]DayPoint, len(series))
	copy(out, series)
	return out
}

// RecentTickets returns the tickets in reverse input order.
func RecentTickets(tickets []Ticket) []Ticket {
	out := make([]Ticket, len(tickets))
	for i, t := range tickets {
		out[len(tickets)-1-i] = t
	}
	return out
}
