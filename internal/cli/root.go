// Package cli implements posctl, the operator command line. Commands open the
// same Product Store and blob store as the server and act as the admin seed
// user.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"minimarket/internal/app"
	"minimarket/internal/config"
	"minimarket/internal/model"
	"minimarket/internal/service"

	"github.com/spf13/cobra"
)

// Opener builds the application graph for one command.
type Opener func(ctx context.Context) (*app.App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Output string // "json" | "text"
	open   Opener
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"text", "json"}

// operator is the identity posctl acts with.
var operator = service.Actor{UserID: "1", Username: "admin", Role: model.RoleAdmin}

// DefaultOpener loads the environment configuration and connects.
func DefaultOpener(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// NewRootCommand creates the posctl root command.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "posctl",
		Short: "Herramientas de operación del minimarket",
		Long:  "Reportes, comprobantes, carga de catálogo y sesiones de caja desde la línea de comandos.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidOutputs {
				if f == opts.Output {
					return nil
				}
			}
			return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (json|text)")

	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewReceiptCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))
	cmd.AddCommand(NewDLQCommand(opts))

	return cmd
}

// withApp opens the application for the duration of fn.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
