package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"urlsentinel/internal/config"
	"urlsentinel/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Configuration is loaded from .env and
// the environment first so flag defaults reflect it; flags win.
func newRootCmd() *cobra.Command {
	cfg, loadErr := config.Load()
	if cfg == nil {
		cfg = config.Default()
	}

	root := &cobra.Command{
		Use:           "urlsentinel",
		Short:         "urlsentinel - URL trust scanner",
		Long:          "urlsentinel scores how likely a URL is to be malicious from its trust-list membership, DNS records, HTTP reachability, registration age and a lexical classifier.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if loadErr != nil {
				return fmt.Errorf("failed to load configuration: %w", loadErr)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if _, err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
	}

	cfg.BindFlags(root.PersistentFlags())

	serve := newServeCmd(cfg)
	root.RunE = serve.RunE
	root.AddCommand(serve, newScanCmd(cfg), newVersionCmd())

	return root
}
