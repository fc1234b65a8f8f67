package store

import (
	"errors"
	"fmt"
)

// Generator operations reported by GeneratorError.
const (
	OpInsertID        = "insert id"
	OpAutoincrementID = "autoincrement id"
)

// GeneratorError reports a failed primary key lookup during Insert.
// Err is the adapter's error.
type GeneratorError struct {
	Op    string
	Table string
	Err   error
}

func (e *GeneratorError) Error() string {
	msg := "unable to get sequence id"
	if e.Op == OpAutoincrementID {
		msg = "unable to get autoincrement id"
	}
	return fmt.Sprintf("%s for %s: %v", msg, e.Table, e.Err)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

// IsGeneratorError returns true if err wraps a *GeneratorError.
func IsGeneratorError(err error) bool {
	var ge *GeneratorError
	return errors.As(err, &ge)
}
