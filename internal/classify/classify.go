// Package classify decides, for every attribute value and child of a
// description, whether it is known at build time or only when the generated
// code runs, and recognizes the control forms.
package classify

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/livefir/livedom/view"
)

// ErrWhenArity is returned for a When form with more than one body expression
var ErrWhenArity = errors.New("when form takes a single body expression")

// Kind is the closed set of shapes a value can take
type Kind int

const (
	// Nil produces no node
	Nil Kind = iota
	// Literal is a string, number or boolean constant
	Literal
	// Element is a nested node description
	Element
	// Loop is a view.For form
	Loop
	// Conditional is a view.If form
	Conditional
	// SingleConditional is a view.When form
	SingleConditional
	// ListForm is a view.List sequence of children
	ListForm
	// Dynamic values are handled by the runtime interpreter
	Dynamic
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Literal:
		return "literal"
	case Element:
		return "element"
	case Loop:
		return "loop"
	case Conditional:
		return "conditional"
	case SingleConditional:
		return "single-conditional"
	case ListForm:
		return "list"
	case Dynamic:
		return "dynamic"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Verdict is the classification of one value
type Verdict struct {
	Kind  Kind
	Value interface{}
	// TextLike values can be assigned as text content directly.
	TextLike bool
}

// Classify returns the verdict for v. The resolver is optional; without it
// only explicitly hinted expressions are TextLike.
func Classify(v interface{}, r TypeResolver) (Verdict, error) {
	switch x := v.(type) {
	case nil:
		return Verdict{Kind: Nil}, nil
	case view.Node:
		return Verdict{Kind: Element, Value: x}, nil
	case *view.Node:
		if x == nil {
			return Verdict{Kind: Nil}, nil
		}
		return Verdict{Kind: Element, Value: *x}, nil
	case view.For:
		return Verdict{Kind: Loop, Value: x}, nil
	case view.If:
		return Verdict{Kind: Conditional, Value: x}, nil
	case view.When:
		if len(x.Body) > 1 {
			return Verdict{}, fmt.Errorf("when %q: %w (got %d)", x.Cond, ErrWhenArity, len(x.Body))
		}
		return Verdict{Kind: SingleConditional, Value: x}, nil
	case view.List:
		return Verdict{Kind: ListForm, Value: x}, nil
	case view.Expr:
		return Verdict{Kind: Dynamic, Value: x, TextLike: x.Text || resolvesToText(x.Src, r)}, nil
	case *view.Expr:
		if x == nil {
			return Verdict{Kind: Nil}, nil
		}
		return Classify(*x, r)
	}

	if IsLiteral(v) {
		return Verdict{Kind: Literal, Value: v, TextLike: true}, nil
	}
	return Verdict{Kind: Dynamic, Value: v}, nil
}

// IsLiteral reports whether v is a string, number or boolean constant
func IsLiteral(v interface{}) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Omit reports whether an attribute value is a falsy literal that is dropped
// without emitting anything
func Omit(v interface{}) bool {
	return v == nil || v == false
}

// NeedsGuard reports whether an attribute value needs a runtime falsy guard
func NeedsGuard(v interface{}) bool {
	return !Omit(v) && !IsLiteral(v)
}

func resolvesToText(src string, r TypeResolver) bool {
	if r == nil {
		return false
	}
	typ, ok := r.ResolveStaticType(src)
	return ok && IsTextType(typ)
}
