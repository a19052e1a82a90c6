package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"urlsentinel/internal/config"
	"urlsentinel/internal/renderer"
	"urlsentinel/internal/scanner"
)

func newScanCmd(cfg *config.Config) *cobra.Command {
	var (
		asJSON  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Scan a single URL and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scanner.NewFromConfig(cfg, nil)
			if err != nil {
				return fmt.Errorf("failed to build scanner: %w", err)
			}

			var r renderer.Renderer = &renderer.ANSIRenderer{Color: !noColor}
			if asJSON {
				r = renderer.NewJSONRenderer()
			}

			return runScan(cmd.Context(), sc, r, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors in the text report")

	return cmd
}

func runScan(ctx context.Context, sc scanner.Scanner, r renderer.Renderer, cmd *cobra.Command, rawURL string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := sc.Scan(ctx, rawURL)
	if err != nil {
		return err
	}

	return r.Render(cmd.OutOrStdout(), result)
}
