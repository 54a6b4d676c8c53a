package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mortgage-agent",
	Short: "Conversational mortgage application assistant",
	Long:  "Runs a mortgage advisor agent with per-turn dynamic capability management, a loan officer matcher, and a websocket chat server.",
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
