// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package cli contains the synapse-wrapped command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allaway/synapse-wrapped/internal/config"
	"github.com/allaway/synapse-wrapped/internal/logging"
)

// Version is stamped at build time.
var Version = "dev"

var (
	cfg        *config.Config
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "synapse-wrapped",
	Short: "Generate annual activity reports for Synapse users",
	Long: `synapse-wrapped builds personalized "year in review" reports from the
Synapse data warehouse. Each report is a single self-contained HTML file
covering downloads, uploads, activity patterns, collaborations, rankings,
and earned badges.

Warehouse credentials come from a config file (synapse-wrapped.yaml) or
environment variables (SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER,
SNOWFLAKE_PASSWORD).

Examples:
  synapse-wrapped generate --username jdoe@sagebase.org
  synapse-wrapped generate --batch users.txt --year 2025 --output ./reports`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
}

// loadConfig layers the config file, environment, and CLI overrides,
// then initializes logging. Called by subcommands that touch the
// warehouse.
func loadConfig() error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if logFormat != "" {
		loaded.Logging.Format = logFormat
	}
	logCfg := logging.DefaultConfig()
	if loaded.Logging.Level != "" {
		logCfg.Level = loaded.Logging.Level
	}
	if loaded.Logging.Format != "" {
		logCfg.Format = loaded.Logging.Format
	}
	logCfg.Caller = loaded.Logging.Caller
	logging.Init(logCfg)
	cfg = loaded
	return nil
}

// Execute runs the command tree. The caller owns the exit code.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}
