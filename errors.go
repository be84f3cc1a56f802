package livedom

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when an element declares its id both in the
	// selector and in its attribute mapping
	ErrDuplicateID = errors.New("id declared in both selector and attributes")

	// ErrUnresolvedExpr is returned when the interpreter meets Go source
	// (view.Expr or a control form) that only the compiler can evaluate
	ErrUnresolvedExpr = errors.New("expression can only be compiled, not interpreted")

	// ErrTagMismatch is returned when an element is updated from a view
	// describing a different tag
	ErrTagMismatch = errors.New("view tag does not match element")
)

// ConfigError reports an invalid description found while constructing an element
type ConfigError struct {
	Selector string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("livedom: %s: %v", e.Selector, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IDConflict returns the error for an id set twice on the element created
// from selector
func IDConflict(selector string) *ConfigError {
	return &ConfigError{Selector: selector, Err: ErrDuplicateID}
}

// abort carries an error out of generated construction code
type abort struct {
	err error
}

// Must aborts generated construction code when err is non-nil. The error is
// returned from the generated function by Recover.
func Must(err error) {
	if err != nil {
		panic(abort{err: err})
	}
}

// Recover is deferred by generated functions; it turns an abort raised by
// Must into *errp and re-panics anything else.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if a, ok := r.(abort); ok {
		*errp = a.err
		return
	}
	panic(r)
}
