// Command playground is the TDD playground backend: the HTTP server plus a few
// operator tools that share its configuration.
//
// cmd/ holds the executable entry points; all logic lives under internal/.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/tdd-playground/internal/config"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "playground",
	Short: "TDD playground - sandboxed code execution and an AI coding assistant",
	Long: `playground runs user-submitted Python in isolated, network-less containers and
streams LLM answers with fenced code blocks split out for the editor.

Configuration comes from playground.yaml, SANDBOX_* environment variables and
the legacy PORT / USE_FINCH / ENVIRONMENT / OPENAI_API_KEY variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ./playground.yaml or $HOME/.playground/playground.yaml)")
}

// loadConfig reads configuration and builds the process logger from it.
// Logs go to stderr so `run` can print its JSON result on stdout.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
