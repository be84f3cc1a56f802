package loader

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrDuplicateTemplate is returned when two templates map to the same Go name
var ErrDuplicateTemplate = errors.New("duplicate template")

// Error is a load failure in a description file
type Error struct {
	File     string
	Template string
	Err      error
}

func (e *Error) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("%s: template %q: %v", e.File, e.Template, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SyntaxError is a malformed node description at a position in the file
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func posErr(n *yaml.Node, msg string) error {
	return &SyntaxError{Line: n.Line, Column: n.Column, Msg: msg}
}
