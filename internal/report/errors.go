// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package report

import "fmt"

// IdentityNotFoundError is returned when a username resolves to no user
// in the warehouse. Batch runs treat it like any other per-user failure:
// log and move on.
type IdentityNotFoundError struct {
	Username string
}

func (e *IdentityNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found in the data warehouse", e.Username)
}
