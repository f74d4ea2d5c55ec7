// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"synapse-wrapped.yaml",
	"synapse-wrapped.yml",
	"/etc/synapse-wrapped/config.yaml",
	"/etc/synapse-wrapped/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "SYNAPSE_WRAPPED_CONFIG"

// defaultConfig returns built-in defaults, applied before the config
// file and environment layers.
func defaultConfig() *Config {
	return &Config{
		Warehouse: WarehouseConfig{
			Warehouse: "COMPUTE_XSMALL",
			Database:  "SYNAPSE_DATA_WAREHOUSE",
			Schema:    "SYNAPSE",
		},
		Report: ReportConfig{
			Year:             time.Now().Year(),
			OutputDir:        ".",
			Timezone:         "America/Chicago",
			Audio:            true,
			TopProjects:      5,
			TopCollaborators: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from three layers, later layers winning:
//
//  1. Built-in defaults
//  2. Optional YAML config file (explicit path, env var, default paths)
//  3. Environment variables
//
// The result is validated before being returned; missing warehouse
// credentials are reported as a ConfigurationError.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to config paths.
// Unmapped variables are skipped so unrelated environment entries never
// pollute the configuration.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		"SNOWFLAKE_ACCOUNT":   "warehouse.account",
		"SNOWFLAKE_USER":      "warehouse.user",
		"SNOWFLAKE_PASSWORD":  "warehouse.password",
		"SNOWFLAKE_WAREHOUSE": "warehouse.warehouse",
		"SNOWFLAKE_DATABASE":  "warehouse.database",
		"SNOWFLAKE_SCHEMA":    "warehouse.schema",
		"SNOWFLAKE_ROLE":      "warehouse.role",

		"WRAPPED_YEAR":              "report.year",
		"WRAPPED_OUTPUT_DIR":        "report.output_dir",
		"WRAPPED_TIMEZONE":          "report.timezone",
		"WRAPPED_TOP_PROJECTS":      "report.top_projects",
		"WRAPPED_TOP_COLLABORATORS": "report.top_collaborators",

		"GA4_PROPERTY_ID":      "pageviews.property_id",
		"GA4_CREDENTIALS_FILE": "pageviews.credentials_file",

		"LOG_LEVEL":  "logging.level",
		"LOG_FORMAT": "logging.format",
		"LOG_CALLER": "logging.caller",
	}

	if mapped, ok := envMappings[strings.ToUpper(key)]; ok {
		return mapped
	}
	return ""
}
