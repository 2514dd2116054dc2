// Package cmd provides CLI commands for vault-migrate.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if verbose {
		logLevel = "DEBUG"
	}
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vault-migrate",
	Short: "Migrate VAULT (EQUELLA) items to InvenioRDM",
	Long: `vault-migrate converts legacy VAULT (EQUELLA) item exports into
InvenioRDM record JSON and imports them over the Invenio REST API.

Examples:
  vault-migrate convert item.json
  vault-migrate convert --output records/ export1.json export2.json
  vault-migrate import exported-item-dir/
  vault-migrate subjects export.json
  vault-migrate vocab roles`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-level logging")
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(subjectsCmd)
	rootCmd.AddCommand(vocabCmd)
}
