package typescript

import (
	"errors"
	"fmt"
)

// ErrEmptyArguments is returned when a parameterized type has no type arguments.
var ErrEmptyArguments = errors.New("parameterized type has no type arguments")

// ResolutionError reports a URL placeholder that no path parameter is bound to.
// No function is generated for the operation.
type ResolutionError struct {
	// Operation is the catalog key of the operation.
	Operation string

	// URL is the operation's URL template.
	URL string

	// Placeholder is the unbound placeholder name.
	Placeholder string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("operation %q: no path parameter bound to {%s} in %q", e.Operation, e.Placeholder, e.URL)
}

// PersistenceError reports a failure to write a generated file.
type PersistenceError struct {
	// Path is the sink-relative path of the file.
	Path string

	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
