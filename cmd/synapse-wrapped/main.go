// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the synapse-wrapped CLI.
//
// synapse-wrapped generates personalized annual activity reports for
// Synapse users. It queries the Synapse data warehouse (Snowflake) for a
// user's download, upload, and collaboration activity over a calendar
// year, derives metrics and achievement badges, and writes a single
// self-contained HTML report.
//
// # Configuration
//
// Settings are layered via Koanf v2 (highest priority wins):
//   - CLI flags
//   - Environment variables (SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER, ...)
//   - Config file (synapse-wrapped.yaml)
//   - Built-in defaults
//
// # Example Usage
//
// Single user:
//
//	export SNOWFLAKE_ACCOUNT=org-account
//	export SNOWFLAKE_USER=reporter
//	export SNOWFLAKE_PASSWORD=...
//	synapse-wrapped generate --username jdoe@sagebase.org
//
// Batch of users, custom year and output directory:
//
//	synapse-wrapped generate --batch users.txt --year 2025 --output ./reports
package main

import (
	"os"

	"github.com/allaway/synapse-wrapped/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
