// Package id generates the identifiers used for all persisted rows.
//
// IDs are UUIDv7 strings: globally unique and time-ordered, so sorting or
// comparing ids lexicographically matches creation order. Cursor pagination
// relies on this property.
package id

import "github.com/google/uuid"

// New returns a new time-ordered identifier.
func New() string {
	u, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source does; fall back to v4
		// rather than crash an insert path.
		return uuid.New().String()
	}
	return u.String()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
