// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package warehouse executes parameterized queries against the Synapse
// data warehouse and manages cached connections.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sf "github.com/snowflakedb/gosnowflake"

	"github.com/allaway/synapse-wrapped/internal/config"
	"github.com/allaway/synapse-wrapped/internal/logging"
	"github.com/allaway/synapse-wrapped/internal/queries"
)

// Querier executes one parameterized query and returns its full result.
type Querier interface {
	Query(ctx context.Context, q queries.Query) (*Table, error)
}

// Conn is a live warehouse connection usable by the cache.
type Conn interface {
	Querier
	Ping(ctx context.Context) error
	Close() error
}

// Client is a warehouse connection backed by database/sql over the
// Snowflake driver.
type Client struct {
	db *sql.DB
}

// Open establishes a warehouse connection from the given configuration.
func Open(cfg *config.Config) (*Client, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   cfg.Warehouse.Account,
		User:      cfg.Warehouse.User,
		Password:  cfg.Warehouse.Password,
		Warehouse: cfg.Warehouse.Warehouse,
		Database:  cfg.Warehouse.Database,
		Schema:    cfg.Warehouse.Schema,
		Role:      cfg.Warehouse.Role,
	})
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("failed to build DSN: %w", err)}
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("failed to open connection: %w", err)}
	}

	// A single report is a sequential stream of queries; one connection
	// kept alive for the session is enough.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	return &Client{db: db}, nil
}

// ensureContext returns a background context if ctx is nil.
func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Ping probes connection liveness with a trivial statement.
func (c *Client) Ping(ctx context.Context) error {
	ctx = ensureContext(ctx)
	var one int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return &ConnectionError{Err: err}
	}
	return nil
}

// Query executes q and materializes the full result. The returned
// column set is validated against the query's declared schema; a
// divergence is a SchemaMismatchError. Zero rows is a valid result,
// never an error.
func (c *Client) Query(ctx context.Context, q queries.Query) (*Table, error) {
	ctx = ensureContext(ctx)

	started := time.Now()
	rows, err := c.db.QueryContext(ctx, q.Text, q.Args...)
	if err != nil {
		if isConnectionError(err) {
			return nil, &QueryError{Name: q.Name, Err: &ConnectionError{Err: err}}
		}
		return nil, &QueryError{Name: q.Name, Err: err}
	}
	defer rows.Close() //nolint:errcheck // result already consumed

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Name: q.Name, Err: fmt.Errorf("failed to read columns: %w", err)}
	}
	if err := validateColumns(q, cols); err != nil {
		return nil, err
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{Name: q.Name, Err: fmt.Errorf("failed to scan row: %w", err)}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Name: q.Name, Err: err}
	}

	logging.Debug().
		Str("query", q.Name).
		Int("rows", len(data)).
		Dur("elapsed", time.Since(started)).
		Msg("query executed")

	return NewTable(cols, data), nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// validateColumns checks the driver-reported columns against the query's
// declared schema, ignoring case and order.
func validateColumns(q queries.Query, got []string) error {
	want := make(map[string]bool, len(q.Columns))
	for _, c := range q.Columns {
		want[strings.ToLower(c)] = true
	}
	have := make(map[string]bool, len(got))
	for _, c := range got {
		have[strings.ToLower(c)] = true
	}

	mismatch := len(want) != len(have)
	if !mismatch {
		for c := range want {
			if !have[c] {
				mismatch = true
				break
			}
		}
	}
	if mismatch {
		return &SchemaMismatchError{Query: q.Name, Want: q.Columns, Got: got}
	}
	return nil
}
