package config

import "fmt"

// Error reports a malformed or missing configuration. It is always fatal and
// raised before any pipeline stage runs.
type Error struct {
	// Source is the file the problem was found in, if known.
	Source string
	// Field locates the offending entry, e.g. "organisation[thw].icon[2].template".
	Field string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Source != "" && e.Field != "":
		return fmt.Sprintf("config %s: %s: %v", e.Source, e.Field, e.Err)
	case e.Source != "":
		return fmt.Sprintf("config %s: %v", e.Source, e.Err)
	case e.Field != "":
		return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a configuration error for the given source and field.
func Errorf(source, field, format string, args ...any) *Error {
	return &Error{Source: source, Field: field, Err: fmt.Errorf(format, args...)}
}
