package jobs

import (
	"errors"
	"fmt"
)

// ErrJobNotFound is returned for an unknown job id.
var ErrJobNotFound = errors.New("job not found")

// ErrJobRunning rejects an exclusive request while a job for the same source
// and kind has not finished.
var ErrJobRunning = errors.New("a job for this source and kind is still running")

// ErrNoArchive is returned when archived jobs are requested from a queue without an archive.
var ErrNoArchive = errors.New("job archive is not configured")

// ValidationError rejects a request before any network call. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SystemError means a job could not begin processing, e.g. a platform client
// could not be resolved. The job is marked failed with no partial results.
type SystemError struct {
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
