package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"minimarket/internal/app"
	"minimarket/internal/dto"
	"minimarket/internal/report"

	"github.com/spf13/cobra"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Period string
	Range  string
	Top    int
	By     string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report profits|sales|inventory",
		Short: "Print a sales, profit or inventory report",
		Long: `Print one of the management reports.

Examples:
  posctl report profits --period quarterly --top 10
  posctl report sales --range week
  posctl report inventory -o json`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"profits", "sales", "inventory"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return runReport(ctx, opts, a, args[0], cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&opts.Period, "period", "monthly", "profit series period (weekly|monthly|quarterly|yearly)")
	cmd.Flags().StringVar(&opts.Range, "range", "all", "sales window (today|week|month|all)")
	cmd.Flags().IntVar(&opts.Top, "top", 5, "products in the profit ranking")
	cmd.Flags().StringVar(&opts.By, "by", "profit", "profit ranking criterion (quantity|profit|revenue)")

	return cmd
}

func runReport(ctx context.Context, opts *ReportOptions, a *app.App, kind string, w io.Writer) error {
	q := dto.ReportQuery{Period: opts.Period, Range: opts.Range, Top: opts.Top, By: opts.By}
	switch kind {
	case "profits":
		r, err := a.Services.Reports.Profits(ctx, operator, q)
		if err != nil {
			return err
		}
		if opts.Output == "json" {
			return writeJSON(w, r)
		}
		printProfits(w, r)
	case "sales":
		r, err := a.Services.Reports.Sales(ctx, operator, q)
		if err != nil {
			return err
		}
		if opts.Output == "json" {
			return writeJSON(w, r)
		}
		printSales(w, r)
	case "inventory":
		r, err := a.Services.Reports.Inventory(ctx, operator)
		if err != nil {
			return err
		}
		if opts.Output == "json" {
			return writeJSON(w, r)
		}
		printInventory(w, r)
	default:
		return fmt.Errorf("unknown report %q", kind)
	}
	return nil
}

func printProfits(w io.Writer, r *dto.ProfitReport) {
	fmt.Fprintf(w, "Ingresos: %s  Costo: %s  Ganancia: %s  Margen: %s%%\n\n",
		r.Totals.Revenue.StringFixed(2), r.Totals.Cost.StringFixed(2), r.Totals.Profit.StringFixed(2), r.Totals.Margin.StringFixed(2))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIODO\tVENTAS\tINGRESOS\tGANANCIA")
	for _, p := range r.Series {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.Key, p.Sales, p.Revenue.StringFixed(2), p.Profit.StringFixed(2))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nMejores productos (%s)\n", r.Ranking)
	printRanking(w, r.Top)
	fmt.Fprintf(w, "\nPeores productos (%s)\n", r.Ranking)
	printRanking(w, r.Bottom)
}

func printRanking(w io.Writer, stats []report.ProductStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCTO\tUNIDADES\tINGRESOS\tGANANCIA")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Name, s.UnitsSold, s.Revenue.StringFixed(2), s.Profit.StringFixed(2))
	}
	_ = tw.Flush()
}

func printSales(w io.Writer, r *dto.SalesReport) {
	s := r.Summary
	fmt.Fprintf(w, "Rango: %s\nVentas: %d  Ingresos: %s  Ticket promedio: %s  Unidades: %d\n\n",
		r.Range, s.Count, s.Revenue.StringFixed(2), s.AverageTicket.StringFixed(2), s.UnitsSold)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MÉTODO\tVENTAS\tINGRESOS")
	for _, m := range s.ByMethod {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", m.Label, m.Count, m.Revenue.StringFixed(2))
	}
	_ = tw.Flush()
}

func printInventory(w io.Writer, r *report.Inventory) {
	fmt.Fprintf(w, "Productos: %d  Valor al costo: %s  Valor de venta: %s\n",
		r.TotalProducts, r.InventoryValue.StringFixed(2), r.PotentialRevenue.StringFixed(2))
	fmt.Fprintf(w, "Stock bajo: %d  Sobre stock: %d  Por vencer: %d\n\n",
		len(r.LowStock), len(r.OverStock), len(r.ExpiringSoon))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORÍA\tPRODUCTOS\tSTOCK\tVALOR")
	for _, c := range r.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", c.Category, c.Products, c.Stock, c.Value.StringFixed(2))
	}
	_ = tw.Flush()

	if len(r.LowStock) > 0 {
		fmt.Fprintln(w, "\nStock bajo")
		for _, p := range r.LowStock {
			fmt.Fprintf(w, "  %s  %s  (%d / mín %d)\n", p.Code, p.Name, p.CurrentStock, p.MinStock)
		}
	}
}
