package common

import (
	"strings"

	"github.com/google/uuid"
)

// NewCompactUUID returns a random v4 UUID as 32 hex characters without dashes.
func NewCompactUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
