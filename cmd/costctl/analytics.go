package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simplici0/costeo/internal/pricing"
	"github.com/Simplici0/costeo/internal/reports"
	"github.com/Simplici0/costeo/internal/settings"
	"github.com/Simplici0/costeo/internal/stats"
)

const barWidth = 20

func bar(value, max float64) string {
	n := int(stats.BarRatio(value, max) / 100 * barWidth)
	return strings.Repeat("#", n)
}

func newStatsCmd(a *app) *cobra.Command {
	var glovo bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print cost, profit and margin per product, best margin first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			products, err := a.store.Products(ctx)
			if err != nil {
				return err
			}
			l, err := a.store.Ledger(ctx)
			if err != nil {
				return err
			}
			cfg, err := a.store.Settings(ctx)
			if err != nil {
				return err
			}

			channel := pricing.ChannelDirect
			if glovo {
				channel = pricing.ChannelMarketplace
			}
			ps := stats.ComputeProductStats(products, l, cfg, channel)
			return writeStats(cmd.OutOrStdout(), stats.RankByMargin(ps), stats.Summarize(ps), cfg, channel)
		},
	}
	cmd.Flags().BoolVar(&glovo, "glovo", false, "Price sales through the marketplace commission")
	return cmd
}

func writeStats(w io.Writer, ranked []stats.ProductStats, sum stats.Summary, cfg settings.Settings, channel pricing.Channel) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "CHANNEL %s\n", channel)
	fmt.Fprintln(tw, "#\tPRODUCT\tCOST\tPRICE\tPROFIT\tMARGIN\t\t")
	for _, p := range ranked {
		warn := ""
		if p.HasMissingOrZeroPrice {
			warn = "!"
		}
		margin := "-"
		if p.Priced {
			margin = fmt.Sprintf("%.1f%%", p.MarginPercent)
		}
		fmt.Fprintf(tw, "%d\t%s%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Number, p.Name, warn,
			cfg.Format(p.Cost), cfg.Format(p.SalePrice), cfg.Format(p.Profit),
			margin, bar(p.Profit, sum.MaxProfit))
	}
	fmt.Fprintf(tw, "\n%d products, %d priced, %d with missing prices\n", sum.ProductCount, sum.PricedCount, sum.WarningCount)
	fmt.Fprintf(tw, "average cost %s, average margin %.1f%%\n", cfg.Format(sum.AvgCost), sum.AvgMargin)
	return tw.Flush()
}

func newReportCmd(a *app) *cobra.Command {
	var (
		period string
		at     string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate sold tickets over a period",
		Long: `Report sums sales, cost and profit of the tickets in a period.

Daily, monthly and annual are calendar periods in the local time zone.
Weekly is the rolling seven days before the reference time.`,
		Example: `  costctl report --period weekly
  costctl report --period monthly --at 2024-02-01T12:00:00+01:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := reports.ParsePeriod(period)
			if err != nil {
				return err
			}
			now := time.Now()
			if at != "" {
				now, err = time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
			}

			ctx := cmd.Context()
			tickets, err := a.store.Tickets(ctx)
			if err != nil {
				return err
			}
			l, err := a.store.Ledger(ctx)
			if err != nil {
				return err
			}
			cfg, err := a.store.Settings(ctx)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), reports.ComputePeriodReport(tickets, p, now, l), cfg)
		},
	}
	cmd.Flags().StringVar(&period, "period", string(reports.PeriodDaily), "daily, weekly, monthly or annual")
	cmd.Flags().StringVar(&at, "at", "", "Reference time in RFC3339 (default: now)")
	return cmd
}

func writeReport(w io.Writer, r reports.Report, cfg settings.Settings) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PERIOD %s\n", r.Period)
	fmt.Fprintf(tw, "tickets\t%d\t(%d direct, %d glovo)\n", r.TicketCount, r.NormalCount, r.GlovoCount)
	fmt.Fprintf(tw, "sales\t%s\n", cfg.Format(r.TotalVenta))
	fmt.Fprintf(tw, "cost\t%s\n", cfg.Format(r.TotalCosto))
	fmt.Fprintf(tw, "profit\t%s\n", cfg.Format(r.TotalProfit))

	if len(r.TopProducts) > 0 {
		fmt.Fprintln(tw, "\nTOP PRODUCTS\tUNITS")
		for _, p := range r.TopProducts {
			fmt.Fprintf(tw, "%s\t%d\n", p.Name, p.Quantity)
		}
	}
	if len(r.IngredientRanking) > 0 {
		fmt.Fprintln(tw, "\nINGREDIENT\tUSED\tCOST")
		for _, u := range r.IngredientRanking {
			fmt.Fprintf(tw, "%s\t%g %s\t%s\n", u.Name, cfg.Round(u.Amount), u.Unit, cfg.Format(u.Cost))
		}
	}
	return tw.Flush()
}
