package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"echobot/internal/config"
	"echobot/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
}

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "echobot",
	Short: "Test-result analytics and chat assistant",
	Long: "Echobot answers questions about test quality: it pulls launches from\n" +
		"ReportPortal, runs flakiness and failure-pattern analytics over them, and\n" +
		"drives Jenkins jobs and Jira queries from a chat prompt.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(rootFlags.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "echobot.yaml", "Path to the YAML config file")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
