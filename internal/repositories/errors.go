package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err means the requested record does
// not exist, so callers can map it to their own not-found sentinels.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err came from a unique-constraint
// violation. Unique indexes are the backstop for concurrent writes
// (double enroll, duplicate application), and services translate this
// into their conflict sentinels.
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
