package search

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

var (
	ErrValidation = errors.New("invalid search")
	ErrNotFound   = errors.New("not found")
)

// ValidationError rejects a search before any source query is issued.
type ValidationError struct {
	Direction domain.Direction
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Direction == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Direction, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// QueryError reports a date whose query kept failing. Outbound and Return
// count the legs collected before the failure.
type QueryError struct {
	Direction domain.Direction
	Date      string
	Attempts  int
	Outbound  int
	Return    int
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query on %s failed after %d attempt(s) (%d outbound, %d return legs found so far): %v",
		e.Direction, e.Date, e.Attempts, e.Outbound, e.Return, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
