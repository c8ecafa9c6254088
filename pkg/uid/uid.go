// Package uid generates opaque identifiers for request tracing and
// OAuth state values.
package uid

import "github.com/google/uuid"

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}
