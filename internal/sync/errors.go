package sync

import (
	"errors"
	"fmt"
)

// ErrNoSheetURL is returned when a workshop has no registration sheet linked.
var ErrNoSheetURL = errors.New("workshop has no sheet URL")

// RowError records the upsert failure for one sheet row.
type RowError struct {
	Err      error
	RowIndex int
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.RowIndex, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// PartialSyncFailure reports a sync where the sheet was read but some rows
// could not be stored. Rows that succeeded stay stored.
type PartialSyncFailure struct {
	Errors    []RowError
	Succeeded int
	Failed    int
}

func (e *PartialSyncFailure) Error() string {
	msg := fmt.Sprintf("sync incomplete: %d of %d rows failed", e.Failed, e.Succeeded+e.Failed)
	if len(e.Errors) > 0 {
		msg += fmt.Sprintf(" (first: %v)", e.Errors[0])
	}
	return msg
}

// Unwrap exposes every row failure to errors.Is and errors.As.
func (e *PartialSyncFailure) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, rowErr := range e.Errors {
		errs[i] = rowErr
	}
	return errs
}

// IsRetryable reports true: re-running a sync rewrites the same keys.
func (e *PartialSyncFailure) IsRetryable() bool {
	return true
}
