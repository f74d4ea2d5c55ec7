// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/allaway/synapse-wrapped/internal/logging"
)

// GenerateBatch reads one username per line from path and generates a
// report for each. Failures are isolated per user: a bad username is
// logged and the batch moves on. The returned slice holds the paths of
// the reports that were written; a batch where every user failed is not
// itself an error.
func (a *Assembler) GenerateBatch(ctx context.Context, path string) ([]string, error) {
	usernames, err := readUsernames(path)
	if err != nil {
		return nil, err
	}
	if len(usernames) == 0 {
		return nil, fmt.Errorf("batch file %s contains no usernames", path)
	}
	logging.Info().Int("users", len(usernames)).Str("file", path).Msg("Starting batch run")

	var written []string
	for _, username := range usernames {
		out, err := a.Generate(ctx, username)
		if err != nil {
			logging.Error().Err(err).Str("username", username).Msg("Report generation failed")
			continue
		}
		written = append(written, out)
	}

	logging.Info().
		Int("succeeded", len(written)).
		Int("failed", len(usernames)-len(written)).
		Msg("Batch run finished")
	return written, nil
}

// readUsernames loads a batch file, skipping blank lines.
func readUsernames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file %s: %w", path, err)
	}
	defer f.Close()

	var usernames []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		usernames = append(usernames, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", path, err)
	}
	return usernames, nil
}
