package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mdf/internal/catalog"
	"github.com/sells-group/mdf/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mdf",
	Short: "Marketing data foundation simulator",
	Long:  "Generates messy per-source customer records, cleans them, resolves identities and builds unified golden-record profiles.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadCatalog returns the configured catalog, falling back to the embedded one.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg != nil && cfg.Catalog.Path != "" {
		return catalog.Load(cfg.Catalog.Path)
	}
	return catalog.Default()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
