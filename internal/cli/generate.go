// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allaway/synapse-wrapped/internal/logging"
	"github.com/allaway/synapse-wrapped/internal/pageviews"
	"github.com/allaway/synapse-wrapped/internal/report"
	"github.com/allaway/synapse-wrapped/internal/warehouse"
)

var (
	genUsername string
	genBatch    string
	genYear     int
	genOutput   string
	genTimezone string
	genNoAudio  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a wrapped report for one user or a batch",
	Long: `Generate builds the annual report for a single user (--username) or
for every username listed in a file, one per line (--batch). In batch
mode a user that fails is logged and skipped; the rest of the batch
still runs.

Examples:
  synapse-wrapped generate --username jdoe@sagebase.org
  synapse-wrapped generate --batch users.txt --year 2025 --output ./reports --no-audio`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genUsername, "username", "u", "", "Synapse username or email to report on")
	generateCmd.Flags().StringVarP(&genBatch, "batch", "b", "", "file of usernames, one per line")
	generateCmd.Flags().IntVarP(&genYear, "year", "y", 0, "report year (default: current year)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output directory for HTML reports")
	generateCmd.Flags().StringVar(&genTimezone, "timezone", "", "IANA timezone for time-of-day patterns")
	generateCmd.Flags().BoolVar(&genNoAudio, "no-audio", false, "omit background music from the report")

	generateCmd.MarkFlagsOneRequired("username", "batch")
	generateCmd.MarkFlagsMutuallyExclusive("username", "batch")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if cmd.Flags().Changed("year") {
		cfg.Report.Year = genYear
	}
	outputFile := ""
	if cmd.Flags().Changed("output") {
		// In single-user mode an .html path names the artifact itself;
		// everything else is an output directory.
		if genBatch == "" && strings.HasSuffix(genOutput, ".html") {
			outputFile = genOutput
		} else {
			cfg.Report.OutputDir = genOutput
		}
	}
	if cmd.Flags().Changed("timezone") {
		cfg.Report.Timezone = genTimezone
	}
	if genNoAudio {
		cfg.Report.Audio = false
	}
	// Flag overrides bypass Load's validation, so check again.
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	cache := warehouse.NewCache()
	defer cache.CloseAll()

	conn, err := cache.Get(ctx, cfg)
	if err != nil {
		return err
	}

	assembler := report.NewAssembler(conn, cfg)
	if cfg.Pageviews.PropertyID != "" {
		pv, err := pageviews.New(ctx, cfg.Pageviews)
		if err != nil {
			logging.Warn().Err(err).Msg("Analytics unavailable, pageview slide will be omitted")
		} else {
			assembler.SetPageviews(pv)
		}
	}

	var written []string
	switch {
	case genBatch != "":
		written, err = assembler.GenerateBatch(ctx, genBatch)
	case outputFile != "":
		var path string
		path, err = assembler.GenerateFile(ctx, genUsername, outputFile)
		if err == nil {
			written = []string{path}
		}
	default:
		var path string
		path, err = assembler.Generate(ctx, genUsername)
		if err == nil {
			written = []string{path}
		}
	}
	if err != nil {
		return err
	}

	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
