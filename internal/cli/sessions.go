package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"minimarket/internal/app"
	"minimarket/internal/worker"

	"github.com/spf13/cobra"
)

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List cash sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				resp, err := a.Services.Cash.History(ctx, operator, page, limit)
				if err != nil {
					return err
				}
				if rootOpts.Output == "json" {
					return writeJSON(cmd.OutOrStdout(), resp)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSUARIO\tINICIO\tFIN\tESTADO\tAPERTURA\tVENTAS\tDESVÍO")
				for _, s := range resp.Data {
					end, deviation := "-", "-"
					if s.EndTime != nil {
						end = s.EndTime.Format(time.DateTime)
					}
					if s.Deviation != nil {
						deviation = s.Deviation.StringFixed(2)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						s.ID, s.UserID, s.StartTime.Format(time.DateTime), end, s.Status,
						s.StartAmount.StringFixed(2), s.TotalSales.StringFixed(2), deviation)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d sesiones\n", resp.Total)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "sessions per page")

	return cmd
}

// NewDLQCommand creates the dlq command.
func NewDLQCommand(rootOpts *RootOptions) *cobra.Command {
	var n int64
	var requeue bool

	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Show failed receipt and e-mail jobs",
		Long: `List the dead letter queues, or move their jobs back for another run.

Examples:
  posctl dlq --limit 5
  posctl dlq --requeue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if a.Redis == nil {
					return errors.New("redis is not available")
				}
				if requeue {
					moved := map[string]int{}
					for _, q := range []string{worker.QueueReceipts, worker.QueueEmail} {
						m, err := worker.Requeue(ctx, a.Redis, q, int(n))
						if err != nil {
							return err
						}
						moved[q] = m
					}
					if rootOpts.Output == "json" {
						return writeJSON(cmd.OutOrStdout(), moved)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "reencolados: %d comprobantes, %d correos\n",
						moved[worker.QueueReceipts], moved[worker.QueueEmail])
					return nil
				}
				out := map[string][]worker.DLQEntry{}
				for _, q := range []string{worker.QueueReceipts, worker.QueueEmail} {
					entries, err := worker.DLQEntries(ctx, a.Redis, q, n)
					if err != nil {
						return fmt.Errorf("read dlq %s: %w", q, err)
					}
					out[q] = entries
				}
				if rootOpts.Output == "json" {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				for _, q := range []string{worker.QueueReceipts, worker.QueueEmail} {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", q, len(out[q]))
					for _, e := range out[q] {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s  intentos=%d  %s\n", e.FailedAt, e.JobType, e.Attempts, e.Reason)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&n, "limit", 20, "entries per queue")
	cmd.Flags().BoolVar(&requeue, "requeue", false, "move dead jobs back to their queue")

	return cmd
}
