package repositories

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrReplyExists = errors.New("a reply to this cast already exists")
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). Duplicate webhook deliveries surface here.
func IsUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
