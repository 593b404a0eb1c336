package types

import (
	"github.com/google/uuid"
)

// RunID tags a single filter invocation for log correlation.
// String alias enables type safety while maintaining JSON string
// serialization.
type RunID string

// NewRunID generates a UUIDv7 run identifier.
// Time-ordered IDs keep log lines for one invocation sortable.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRunID() RunID {
	return RunID(uuid.Must(uuid.NewV7()).String())
}

// ParseRunID validates and converts a string to RunID.
// Rejects malformed UUIDs to prevent invalid IDs from entering logs.
func ParseRunID(s string) (RunID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RunID(s), nil
}
