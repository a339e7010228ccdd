// Package reports aggregates historical sales tickets into period reports.
package reports

import (
	"time"

	"github.com/Simplici0/costeo/internal/ledger"
)

const dayKeyLayout = "2006-01-02"

// TicketItem is one product line of a ticket. Ingredient amounts are per unit
// sold.
type TicketItem struct {
	Name        string              `json:"name"`
	Quantity    int                 `json:"quantity"`
	Ingredients []ledger.RecipeLine `json:"ingredients"`
}

// Ticket is an immutable historical sale. Totals were computed when the
// ticket was created and are trusted as stored.
type Ticket struct {
	ID           string       `json:"id"`
	TicketNumber int          `json:"ticketNumber"`
	Date         time.Time    `json:"date"`
	IsGlovo      bool         `json:"isGlovo"`
	Items        []TicketItem `json:"items"`
	TotalVenta   float64      `json:"totalVenta"`
	TotalCosto   float64      `json:"totalCosto"`
	TotalProfit  float64      `json:"totalProfit"`
}

// ProductSales is the number of units sold under one product name.
type ProductSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// IngredientUsage is the consumption of one ingredient over a period. Cost
// is valued at current ledger prices, not at the price paid when sold.
type IngredientUsage struct {
	Name   string      `json:"name"`
	Unit   ledger.Unit `json:"unit"`
	Amount float64     `json:"amount"`
	Cost   float64     `json:"cost"`
}

// DayPoint is the sales and cost total of one calendar day.
type DayPoint struct {
	Date  string  `json:"date"`
	Venta float64 `json:"venta"`
	Costo float64 `json:"costo"`
}

// PeriodStats is the aggregation of the tickets inside a period. The
// breakdown slices keep first-seen order; sort them explicitly when needed.
type PeriodStats struct {
	Period          Period            `json:"period"`
	TotalVenta      float64           `json:"totalVenta"`
	TotalCosto      float64           `json:"totalCosto"`
	TotalProfit     float64           `json:"totalProfit"`
	TicketCount     int               `json:"ticketCount"`
	GlovoCount      int               `json:"glovoCount"`
	NormalCount     int               `json:"normalCount"`
	ProductSales    []ProductSales    `json:"productSales"`
	IngredientUsage []IngredientUsage `json:"ingredientUsage"`
	Daily           []DayPoint        `json:"daily"`
	Tickets         []Ticket          `json:"-"`
}

// UnitsSold returns the quantity sold under name, matched case-insensitively.
func (s PeriodStats) UnitsSold(name string) int {
	for _, p := range s.ProductSales {
		if ledger.SameName(p.Name, name) {
			return p.Quantity
		}
	}
	return 0
}

// Usage returns the consumption recorded for an ingredient.
func (s PeriodStats) Usage(name string) (IngredientUsage, bool) {
	for _, u := range s.IngredientUsage {
		if ledger.SameName(u.Name, name) {
			return u, true
		}
	}
	return IngredientUsage{}, false
}

// Day returns the point for a date key in YYYY-MM-DD form.
func (s PeriodStats) Day(date string) (DayPoint, bool) {
	for _, d := range s.Daily {
		if d.Date == date {
			return d, true
		}
	}
	return DayPoint{}, false
}

// Aggregate filters tickets to the period around now and accumulates totals,
// unit sales per product, ingredient usage and the per-day series.
func Aggregate(tickets []Ticket, period Period, now time.Time, l ledger.Ledger) PeriodStats {
	filtered := Filter(tickets, period, now)

	stats := PeriodStats{
		Period:          period,
		TicketCount:     len(filtered),
		ProductSales:    []ProductSales{},
		IngredientUsage: []IngredientUsage{},
		Daily:           []DayPoint{},
		Tickets:         filtered,
	}

	productIdx := make(map[string]int)
	usageIdx := make(map[string]int)
	dayIdx := make(map[string]int)

	for _, t := range filtered {
		stats.TotalVenta += t.TotalVenta
		stats.TotalCosto += t.TotalCosto
		stats.TotalProfit += t.TotalProfit
		if t.IsGlovo {
			stats.GlovoCount++
		} else {
			stats.NormalCount++
		}

		key := t.Date.In(now.Location()).Format(dayKeyLayout)
		i, ok := dayIdx[key]
		if !ok {
			i = len(stats.Daily)
			dayIdx[key] = i
			stats.Daily = append(stats.Daily, DayPoint{Date: key})
		}
		stats.Daily[i].Venta += t.TotalVenta
		stats.Daily[i].Costo += t.TotalCosto

		for _, item := range t.Items {
			pk := ledger.NormalizeName(item.Name)
			pi, ok := productIdx[pk]
			if !ok {
				pi = len(stats.ProductSales)
				productIdx[pk] = pi
				stats.ProductSales = append(stats.ProductSales, ProductSales{Name: item.Name})
			}
			stats.ProductSales[pi].Quantity += item.Quantity

			for _, line := range item.Ingredients {
				amount := line.Amount * float64(item.Quantity)

				uk := ledger.NormalizeName(line.IngredientName)
				ui, ok := usageIdx[uk]
				if !ok {
					ui = len(stats.IngredientUsage)
					usageIdx[uk] = ui
					stats.IngredientUsage = append(stats.IngredientUsage, IngredientUsage{
						Name: line.IngredientName,
						Unit: line.Unit,
					})
				}
				stats.IngredientUsage[ui].Amount += amount
				if ing, found := l.FindByName(line.IngredientName); found {
					stats.IngredientUsage[ui].Cost += amount * ing.PricePerUnit
				}
			}
		}
	}

	return stats
}
