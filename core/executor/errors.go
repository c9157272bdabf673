package executor

import "errors"

var (
	// ErrInvalidDifference is returned for a difference the executor cannot act on.
	ErrInvalidDifference = errors.New("invalid difference")

	// ErrUntranslatable is returned when a value has no destination equivalent.
	ErrUntranslatable = errors.New("value cannot be translated")
)
