package postgres

import (
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// IsUUID returns ErrInvalidUUID unless u parses as a UUID.
func IsUUID(u string) error {
	if u == "" {
		return fmt.Errorf("%w: UUID cannot be empty", ErrInvalidUUID)
	}
	if _, err := uuid.Parse(u); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}
	return nil
}

// IsValidID reports whether id can address a uuid primary key.
func IsValidID(id string) bool {
	return IsUUID(id) == nil
}

func NewUUID() string {
	return uuid.NewString()
}

// NullString maps "" to SQL NULL.
func NullString(s string) null.String {
	return null.NewString(s, s != "")
}
