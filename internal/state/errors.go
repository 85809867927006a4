package state

import "fmt"

const persistenceErrorTemplateConstant = "unable to %s %s: %v"

// PersistenceError reports state that could not be durably read or written.
type PersistenceError struct {
	Operation string
	Path      string
	Cause     error
}

// Error describes the failed operation.
func (persistenceError PersistenceError) Error() string {
	return fmt.Sprintf(persistenceErrorTemplateConstant, persistenceError.Operation, persistenceError.Path, persistenceError.Cause)
}

// Unwrap exposes the underlying cause.
func (persistenceError PersistenceError) Unwrap() error {
	return persistenceError.Cause
}
