package metrics_collectors

import (
	"errors"
	"fmt"
)

// ErrNoOutput is returned when the process listing produced nothing to parse.
var ErrNoOutput = errors.New("process listing produced no output")

// ExecutionError reports that a process snapshot could not be taken. It only
// invalidates the current tick.
type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to run %q: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
