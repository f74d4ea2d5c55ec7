// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateRequiresTarget(t *testing.T) {
	_, err := execute(t, "generate")
	if err == nil {
		t.Fatal("generate without --username or --batch should fail")
	}
	if !strings.Contains(err.Error(), "username") || !strings.Contains(err.Error(), "batch") {
		t.Errorf("error should name the missing flags, got: %v", err)
	}
}

func TestGenerateFailsWithoutCredentials(t *testing.T) {
	for _, v := range []string{"SNOWFLAKE_ACCOUNT", "SNOWFLAKE_USER", "SNOWFLAKE_PASSWORD"} {
		t.Setenv(v, "")
	}
	_, err := execute(t, "generate", "--username", "jdoe", "--config", "/nonexistent.yaml")
	if err == nil {
		t.Fatal("generate without warehouse credentials should fail")
	}
}

func TestGenerateRejectsOutOfRangeYear(t *testing.T) {
	t.Setenv("SNOWFLAKE_ACCOUNT", "org-acct")
	t.Setenv("SNOWFLAKE_USER", "svc_wrapped")
	t.Setenv("SNOWFLAKE_PASSWORD", "hunter2")

	_, err := execute(t, "generate", "--username", "jdoe", "--config", "", "--year", "99")
	if err == nil {
		t.Fatal("a year outside the valid range should fail validation")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "year") {
		t.Errorf("error should name the year setting, got: %v", err)
	}
}

func TestGenerateRejectsBothTargets(t *testing.T) {
	_, err := execute(t, "generate", "--username", "jdoe", "--batch", "users.txt")
	if err == nil {
		t.Fatal("generate with both --username and --batch should fail")
	}
}

func TestHelpListsGenerate(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("--help error = %v", err)
	}
	if !strings.Contains(out, "generate") {
		t.Errorf("help output missing generate command:\n%s", out)
	}
}
