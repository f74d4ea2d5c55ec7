// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package config loads and validates the generator configuration from
// defaults, an optional YAML file, and environment variables.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// ConfigurationError indicates missing or invalid configuration detected
// before any warehouse work starts.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Config is the root configuration for the report generator.
type Config struct {
	Warehouse WarehouseConfig `koanf:"warehouse"`
	Report    ReportConfig    `koanf:"report"`
	Pageviews PageviewsConfig `koanf:"pageviews"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// WarehouseConfig holds Snowflake connection settings. Account, user,
// and password must resolve from some layer before queries run.
type WarehouseConfig struct {
	Account   string `koanf:"account" validate:"required"`
	User      string `koanf:"user" validate:"required"`
	Password  string `koanf:"password" validate:"required"`
	Warehouse string `koanf:"warehouse"`
	Database  string `koanf:"database"`
	Schema    string `koanf:"schema"`
	Role      string `koanf:"role"`
}

// ReportConfig holds report generation defaults, overridable per run
// by CLI flags.
type ReportConfig struct {
	Year             int    `koanf:"year" validate:"omitempty,min=2010,max=2100"`
	OutputDir        string `koanf:"output_dir"`
	Timezone         string `koanf:"timezone"`
	Audio            bool   `koanf:"audio"`
	TopProjects      int    `koanf:"top_projects" validate:"min=1,max=50"`
	TopCollaborators int    `koanf:"top_collaborators" validate:"min=1,max=50"`
}

// PageviewsConfig holds optional Google Analytics settings. The pageview
// slide is omitted when PropertyID is empty.
type PageviewsConfig struct {
	PropertyID      string `koanf:"property_id"`
	CredentialsFile string `koanf:"credentials_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration against struct tags. Missing
// warehouse credentials surface as a ConfigurationError so callers can
// distinguish setup problems from runtime failures.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if ok := AsValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				if fe.Tag() == "required" {
					return &ConfigurationError{
						Reason: fmt.Sprintf("missing required setting %s (set it in the config file or environment)", fe.Namespace()),
					}
				}
			}
		}
		return &ConfigurationError{Reason: err.Error()}
	}
	return nil
}

// AsValidationErrors unwraps a validator error list, if present.
func AsValidationErrors(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}

// connectionIdentity carries only the fields that determine which
// warehouse connection a config maps to.
type connectionIdentity struct {
	Account   string `json:"account"`
	User      string `json:"user"`
	Warehouse string `json:"warehouse"`
	Database  string `json:"database"`
	Schema    string `json:"schema"`
	Role      string `json:"role"`
}

// Fingerprint returns a stable key identifying the warehouse connection
// this config describes. Two configs with the same fingerprint can share
// a cached connection. The password is deliberately excluded.
func (c *Config) Fingerprint() string {
	id := connectionIdentity{
		Account:   c.Warehouse.Account,
		User:      c.Warehouse.User,
		Warehouse: c.Warehouse.Warehouse,
		Database:  c.Warehouse.Database,
		Schema:    c.Warehouse.Schema,
		Role:      c.Warehouse.Role,
	}
	b, err := json.Marshal(id)
	if err != nil {
		// connectionIdentity is all strings; Marshal cannot fail.
		return ""
	}
	return string(b)
}
