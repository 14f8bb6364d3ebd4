package launchd

import (
	"errors"
	"fmt"
)

var (
	ErrSecondsField       = errors.New("unsupported seconds field")
	ErrDegenerateInterval = errors.New("degenerate seconds interval")
	ErrInvariant          = errors.New("internal invariant violated")
)

// ExplosionError reports an expression that expands into more calendar
// entries than the configured limit.
type ExplosionError struct {
	Total int
	Limit int
}

func (e *ExplosionError) Error() string {
	return fmt.Sprintf("expression expands to %d calendar entries, more than the limit of %d; simplify the expression", e.Total, e.Limit)
}
