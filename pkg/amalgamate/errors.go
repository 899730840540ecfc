package amalgamate

import (
	"errors"
	"strings"
)

// ErrIncludeCycle is matched by every *CycleError.
var ErrIncludeCycle = errors.New("include cycle detected")

// CycleError reports a file that includes itself, directly or transitively.
type CycleError struct {
	Chain []string // Files from the first occurrence of the repeated file down to its re-entry.
}

func (e *CycleError) Error() string {
	return ErrIncludeCycle.Error() + ": " + strings.Join(e.Chain, " -> ")
}

func (e *CycleError) Is(target error) bool {
	return target == ErrIncludeCycle
}
