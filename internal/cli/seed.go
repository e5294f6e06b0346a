package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"minimarket/internal/app"
	"minimarket/internal/catalog"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File string
}

// SeedResult counts what a seed run did.
type SeedResult struct {
	Inserted int      `json:"inserted"`
	Skipped  []string `json:"skipped"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML catalog into the Product Store",
		Long: `Insert every product of a YAML catalog file. Products whose code
already exists are skipped.

Examples:
  posctl seed --file catalog.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := runSeed(ctx, a.Store, opts.File)
				if err != nil {
					return err
				}
				if opts.Output == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d productos cargados, %d omitidos\n", res.Inserted, len(res.Skipped))
				for _, code := range res.Skipped {
					fmt.Fprintf(cmd.OutOrStdout(), "  omitido: %s (código existente)\n", code)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "path to the catalog YAML file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(ctx context.Context, store catalog.ProductStore, path string) (SeedResult, error) {
	res := SeedResult{Skipped: []string{}}
	f, err := os.Open(path)
	if err != nil {
		return res, err
	}
	defer f.Close()

	products, err := app.ParseCatalog(f, time.Now())
	if err != nil {
		return res, err
	}
	for _, p := range products {
		_, err := store.Insert(ctx, p)
		switch {
		case errors.Is(err, catalog.ErrDuplicateCode):
			res.Skipped = append(res.Skipped, p.Code)
		case err != nil:
			return res, fmt.Errorf("insert %s: %w", p.Code, err)
		default:
			res.Inserted++
			log.Debug().Str("code", p.Code).Msg("seed: product inserted")
		}
	}
	return res, nil
}
