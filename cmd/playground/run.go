package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/tdd-playground/internal/executor/factory"
	"github.com/sakif/tdd-playground/internal/handler"
	"github.com/sakif/tdd-playground/internal/model"
)

const defaultLanguage = handler.DefaultLanguage

var (
	entryFlag    string
	languageFlag string
)

var runCmd = &cobra.Command{
	Use:   "run <manifest.yaml | file...>",
	Short: "Execute a bundle once with the configured backend and print the result as JSON",
	Long: `Execute a bundle once, exactly as POST /api/v1/execute would, and print the
execution result.

Examples:
  playground run bundle.yaml
  playground run implementation.py test.py
  playground run main.py --language python-3.11`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&entryFlag, "entry", "", "entry file name (default: the last file)")
	runCmd.Flags().StringVar(&languageFlag, "language", "", "language tag for plain files (default "+defaultLanguage+")")
	rootCmd.AddCommand(runCmd)
}

func isManifest(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func runRun(cmd *cobra.Command, args []string) error {
	var (
		bundle *model.CodeBundle
		err    error
	)
	if len(args) == 1 && isManifest(args[0]) {
		bundle, err = LoadManifest(args[0])
	} else {
		bundle, err = BundleFromFiles(args, entryFlag, languageFlag)
	}
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := factory.New(cfg.Sandbox, logger)
	if err != nil {
		return fmt.Errorf("initializing sandbox: %w", err)
	}
	defer backend.Close()

	result := backend.Execute(cmd.Context(), bundle)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
