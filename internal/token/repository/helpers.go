package repository

import (
	"github.com/google/uuid"
)

// parseUUID parses the CHAR(36) representation MySQL rows carry for UUIDs.
func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
