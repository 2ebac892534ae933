package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trial-agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trial-agent",
	Short: "Clinical research assistant: protocol drafting and site ranking",
	Long: "Drafts clinical trial protocols from a study idea with an LLM (falling back to a fixed template " +
		"when no model is reachable) and ranks candidate enrollment sites by a weighted operational score.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return cfg.Validate(cmd.Name())
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
