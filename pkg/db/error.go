package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique-constraint violation
// across the supported dialects.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}
