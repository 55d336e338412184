package boost

import "errors"

var (
	// ErrInvalidValue indicates a value fails the field's rule.
	ErrInvalidValue = errors.New("boost: invalid value")
	// ErrUnavailable indicates the legal-level set could not be retrieved.
	//
	// The value itself was never judged.
	ErrUnavailable = errors.New("boost: legal levels unavailable")
	// ErrUnknownField indicates a field or field name that the store does not hold.
	ErrUnknownField = errors.New("boost: unknown field")
	// ErrInvalidConfig indicates a construction-time configuration error.
	ErrInvalidConfig = errors.New("boost: invalid config")
	// ErrNoLastValue indicates ResetToLastValue has no previous value to restore.
	ErrNoLastValue = errors.New("boost: no last value")
	// ErrReentrantWrite indicates a write from inside an onChange callback of the same field.
	ErrReentrantWrite = errors.New("boost: re-entrant write in onChange callback")
)
