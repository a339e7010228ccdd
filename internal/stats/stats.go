// Package stats derives per-product profitability and the rankings and
// summary figures built on top of it.
package stats

import (
	"sort"

	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/pricing"
	"github.com/Simplici0/costeo/internal/settings"
)

// Product is a sellable recipe. SalePrice includes VAT; zero means no price
// has been set yet.
type Product struct {
	ID          string              `json:"id"`
	Number      int                 `json:"number"`
	Name        string              `json:"name"`
	Ingredients []ledger.RecipeLine `json:"ingredients"`
	SalePrice   float64             `json:"salePrice"`
	IsActive    bool                `json:"isActive"`
}

// ProductStats is the costing and margin of one product.
type ProductStats struct {
	ProductID             string             `json:"productId"`
	Number                int                `json:"number"`
	Name                  string             `json:"name"`
	Cost                  float64            `json:"cost"`
	HasMissingOrZeroPrice bool               `json:"hasMissingOrZeroPrice"`
	SalePrice             float64            `json:"salePrice"`
	BasePrice             float64            `json:"basePrice"`
	Commission            float64            `json:"commission"`
	Profit                float64            `json:"profit"`
	MarginPercent         float64            `json:"marginPercent"`
	Priced                bool               `json:"priced"`
	Lines                 []pricing.LineCost `json:"lines"`
}

// Active returns the products not retired by the lifecycle flag.
func Active(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

// ComputeProductStats costs every active product against the ledger and
// prices it for the given channel.
func ComputeProductStats(products []Product, l ledger.Ledger, s settings.Settings, channel pricing.Channel) []ProductStats {
	mode := s.Mode(channel)
	active := Active(products)

	out := make([]ProductStats, 0, len(active))
	for _, p := range active {
		cost := pricing.Cost(p.Ingredients, l)
		margin := pricing.Margin(p.SalePrice, cost.Total, mode)
		out = append(out, ProductStats{
			ProductID:             p.ID,
			Number:                p.Number,
			Name:                  p.Name,
			Cost:                  cost.Total,
			HasMissingOrZeroPrice: cost.HasMissingOrZeroPrice,
			SalePrice:             p.SalePrice,
			BasePrice:             margin.BasePrice,
			Commission:            margin.Commission,
			Profit:                margin.Profit,
			MarginPercent:         margin.MarginPercent,
			Priced:                margin.Priced,
			Lines:                 cost.Lines,
		})
	}
	return out
}

// RankByMargin returns a copy sorted by margin percentage, highest first.
// Equal margins keep input order.
func RankByMargin(stats []ProductStats) []ProductStats {
	return rank(stats, func(a, b ProductStats) bool { return a.MarginPercent > b.MarginPercent })
}

// RankByProfit returns a copy sorted by absolute profit, highest first.
// Equal profits keep input order.
func RankByProfit(stats []ProductStats) []ProductStats {
	return rank(stats, func(a, b ProductStats) bool { return a.Profit > b.Profit })
}

// RankByCost returns a copy sorted by production cost, highest first.
func RankByCost(stats []ProductStats) []ProductStats {
	return rank(stats, func(a, b ProductStats) bool { return a.Cost > b.Cost })
}

func rank(stats []ProductStats, less func(a, b ProductStats) bool) []ProductStats {
	out := make([]ProductStats, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Summary holds the headline figures of a product set.
type Summary struct {
	ProductCount int     `json:"productCount"`
	PricedCount  int     `json:"pricedCount"`
	WarningCount int     `json:"warningCount"`
	AvgCost      float64 `json:"avgCost"`
	AvgMargin    float64 `json:"avgMargin"`
	// MaxCost and MaxProfit are bar-scaling denominators and never drop
	// below 1.
	MaxCost   float64       `json:"maxCost"`
	MaxProfit float64       `json:"maxProfit"`
	TopMargin *ProductStats `json:"topMargin,omitempty"`
	TopProfit *ProductStats `json:"topProfit,omitempty"`
}

// Summarize averages cost over all products and margin over priced products
// only, and picks the best product by margin and by profit.
func Summarize(stats []ProductStats) Summary {
	sum := Summary{ProductCount: len(stats), MaxCost: 1, MaxProfit: 1}
	if len(stats) == 0 {
		return sum
	}

	var totalCost, totalMargin float64
	for _, p := range stats {
		totalCost += p.Cost
		if p.Priced {
			totalMargin += p.MarginPercent
			sum.PricedCount++
		}
		if p.HasMissingOrZeroPrice {
			sum.WarningCount++
		}
		sum.MaxCost = max(sum.MaxCost, p.Cost)
		sum.MaxProfit = max(sum.MaxProfit, p.Profit)
	}

	sum.AvgCost = totalCost / float64(len(stats))
	if sum.PricedCount > 0 {
		sum.AvgMargin = totalMargin / float64(sum.PricedCount)
	}

	topMargin := RankByMargin(stats)[0]
	topProfit := RankByProfit(stats)[0]
	sum.TopMargin = &topMargin
	sum.TopProfit = &topProfit
	return sum
}

// BarRatio scales value against max into a 0-100 bar width.
func BarRatio(value, max float64) float64 {
	if max <= 0 || value <= 0 {
		return 0
	}
	if value >= max {
		return 100
	}
	return value / max * 100
}
