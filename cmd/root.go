package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lodeline/orescore/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "orescore",
	Short: "Peer-relative scoring for mining companies",
	Long:  "Scores mining companies on cash-flow quality relative to their peers: percentile normalization within type groups, weighted composites, peer ranking, and qualitative insights.",
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
