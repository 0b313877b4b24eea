package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/utk-nsbe/movemap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "movemap",
	Short: "Housing displacement risk explorer",
	Long:  "Geocodes a location, resolves its census tract, scores displacement risk with a random forest over synthetic census data, and renders the result as a colored map marker.",
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
