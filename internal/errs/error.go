package errs

import (
	"errors"
)

var (
	ErrNotFound = errors.New("not found")

	// Reservation conflicts.
	ErrBookReserved    = errors.New("book already has an active reservation")
	ErrReaderHasActive = errors.New("reader already has an active reservation")
	ErrAlreadyReturned = errors.New("reservation already returned")

	// Uniqueness violations.
	ErrEmailTaken = errors.New("email is already used by another reader")
	ErrIsbnTaken  = errors.New("isbn is already used by another book")

	// Delete guards.
	ErrHasActiveReservations = errors.New("active reservations exist")

	// Field validation.
	ErrYearInFuture  = errors.New("publication year cannot be in the future")
	ErrNameAllDigits = errors.New("name cannot consist of digits only")

	ErrBadCredentials = errors.New("invalid email or password")
)
