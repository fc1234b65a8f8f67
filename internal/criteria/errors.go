package criteria

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes Criteria errors.
type ErrorCode string

const (
	// ErrCodeMalformedJoin indicates mismatched join column counts.
	ErrCodeMalformedJoin ErrorCode = "MALFORMED_JOIN"

	// ErrCodeUnknownFilterName indicates combine() named an unknown condition.
	ErrCodeUnknownFilterName ErrorCode = "UNKNOWN_FILTER_NAME"

	// ErrCodeDuplicateFilterName indicates combine() named a condition twice.
	ErrCodeDuplicateFilterName ErrorCode = "DUPLICATE_FILTER_NAME"
)

// MalformedJoinError reports a multi-column join whose left and right
// column lists differ in length. The join registry is left untouched.
type MalformedJoinError struct {
	Left  int
	Right int
}

func (e *MalformedJoinError) Code() ErrorCode { return ErrCodeMalformedJoin }

func (e *MalformedJoinError) Error() string {
	return fmt.Sprintf("%s: join has %d left columns but %d right columns",
		ErrCodeMalformedJoin, e.Left, e.Right)
}

// UnknownFilterNameError reports a Combine call naming a condition that
// was never registered.
type UnknownFilterNameError struct {
	Name string
}

func (e *UnknownFilterNameError) Code() ErrorCode { return ErrCodeUnknownFilterName }

func (e *UnknownFilterNameError) Error() string {
	return fmt.Sprintf("%s: cannot combine unknown condition %s", ErrCodeUnknownFilterName, e.Name)
}

// DuplicateFilterNameError reports a Combine call listing the same
// condition more than once.
type DuplicateFilterNameError struct {
	Name string
}

func (e *DuplicateFilterNameError) Code() ErrorCode { return ErrCodeDuplicateFilterName }

func (e *DuplicateFilterNameError) Error() string {
	return fmt.Sprintf("%s: condition %s listed more than once", ErrCodeDuplicateFilterName, e.Name)
}

// IsMalformedJoinError returns true if err wraps a *MalformedJoinError.
func IsMalformedJoinError(err error) bool {
	var me *MalformedJoinError
	return errors.As(err, &me)
}

// IsUnknownFilterNameError returns true if err wraps an *UnknownFilterNameError.
func IsUnknownFilterNameError(err error) bool {
	var ue *UnknownFilterNameError
	return errors.As(err, &ue)
}

// UnresolvableColumnWarning records a column reference that matched no
// known table, alias or schema column. The reference was kept as literal SQL.
type UnresolvableColumnWarning struct {
	Reference string
}

func (w UnresolvableColumnWarning) String() string {
	return fmt.Sprintf("unresolvable column reference %q, rendered as literal", w.Reference)
}

// IsDuplicateFilterNameError returns true if err wraps a *DuplicateFilterNameError.
func IsDuplicateFilterNameError(err error) bool {
	var de *DuplicateFilterNameError
	return errors.As(err, &de)
}
