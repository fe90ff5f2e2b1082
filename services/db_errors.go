package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKey reports a unique index violation. Drivers without error
// translation are matched on their message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
