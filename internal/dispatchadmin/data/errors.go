package data

import "errors"

var (
	ErrNotFound                  = errors.New("record not found")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	// ErrCorruptRecord means a stored row failed validation on read. It
	// signals store corruption, not a user error.
	ErrCorruptRecord = errors.New("stored record failed validation")
)
