// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package warehouse

import (
	"fmt"
	"strings"
)

// QueryError wraps a failure executing a named query. Queries are never
// retried; the caller decides whether the run can continue.
type QueryError struct {
	Name string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Name, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ConnectionError wraps a driver-level connectivity failure, as opposed
// to a statement failure.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("warehouse connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SchemaMismatchError reports that a query returned a column set other
// than the one it declared.
type SchemaMismatchError struct {
	Query string
	Want  []string
	Got   []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("query %s returned columns [%s], expected [%s]",
		e.Query, strings.Join(e.Got, ", "), strings.Join(e.Want, ", "))
}

// isConnectionError reports whether err looks like a lost or unusable
// connection rather than a statement failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"connection was closed",
		"broken pipe",
		"bad connection",
		"no such host",
		"i/o timeout",
		"network is unreachable",
		"sql: database is closed",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
