package cli

import (
	"context"
	"fmt"
	"os"

	"minimarket/internal/app"

	"github.com/spf13/cobra"
)

// ReceiptOptions holds flags for the receipt command.
type ReceiptOptions struct {
	*RootOptions
	Variant string
	Format  string
	Out     string
}

// NewReceiptCommand creates the receipt command.
func NewReceiptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReceiptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "receipt <sale>",
		Short: "Render the receipt or invoice of a sale",
		Long: `Render a sale's receipt by id or sale number.

Examples:
  posctl receipt V-1741942800000
  posctl receipt V-1741942800000 --variant invoice --format pdf --out factura.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				doc, err := a.Services.Receipts.Render(ctx, args[0], opts.Variant, opts.Format)
				if err != nil {
					return err
				}
				if opts.Out == "" {
					_, err = cmd.OutOrStdout().Write(doc.Body)
					return err
				}
				if err := os.WriteFile(opts.Out, doc.Body, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", opts.Out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s written (%s)\n", opts.Out, doc.ContentType)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Variant, "variant", "receipt", "document variant (receipt|invoice)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "document format (html|text|pdf)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "write to a file instead of stdout")

	return cmd
}
