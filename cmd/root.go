package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "spawatch",
	Short: "Competitor hot tub availability watcher",
	Long:  "Scrapes competitor booking availability across lead-time horizons, projects it onto a four-spa operator, and publishes both to spreadsheet tabs.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
