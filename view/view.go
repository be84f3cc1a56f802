// Package view describes element trees as plain data.
//
// A Node pairs a selector token ("li#item.done") with an optional attribute
// mapping and an ordered list of children. Children are literals (strings,
// numbers, booleans), nested Nodes, sequences, dynamic expressions or one of
// the control forms For, If, When and List.
//
// The same description is consumed twice: by the compiler, which emits Go
// construction code for it, and by the runtime interpreter in the livedom
// package. Expr and the control forms carry Go source and are only meaningful
// to the compiler.
package view

// Attrs maps attribute and property names to values.
// Keys prefixed with "on-" name event listeners.
type Attrs map[string]interface{}

// Node is a single element description
type Node struct {
	Selector string
	Attrs    Attrs
	// AttrsExpr is an expression evaluating to an Attrs mapping as a whole.
	AttrsExpr *Expr
	Children  []interface{}
}

// Expr is a Go expression only known when the generated code runs
type Expr struct {
	Src string
	// Text marks the value as text content regardless of its static type.
	Text bool
}

// Dyn returns a dynamic expression
func Dyn(src string) Expr {
	return Expr{Src: src}
}

// Text returns a dynamic expression hinted as text
func Text(src string) Expr {
	return Expr{Src: src, Text: true}
}

// Spread is a whole-mapping attribute expression accepted by H
type Spread Expr

// For repeats Body once per iteration of a Go range clause,
// e.g. For{Range: "_, item := range items", Body: ...}
type For struct {
	Range string
	Body  interface{}
}

// If renders Then when Cond holds and Else otherwise. Else may be nil.
type If struct {
	Cond string
	Then interface{}
	Else interface{}
}

// When renders its single Body expression when Cond holds.
// More than one body expression is rejected by the compiler.
type When struct {
	Cond string
	Body []interface{}
}

// List is a generated sequence of children. Flatten splices it into the
// surrounding children one level deep.
type List []interface{}

// H builds a Node. The first argument after the selector may be an Attrs
// (or plain map) or a Spread; every other argument is a child.
func H(selector string, args ...interface{}) Node {
	n := Node{Selector: selector}
	if len(args) > 0 {
		switch a := args[0].(type) {
		case Attrs:
			n.Attrs = a
			args = args[1:]
		case map[string]interface{}:
			n.Attrs = Attrs(a)
			args = args[1:]
		case Spread:
			e := Expr(a)
			n.AttrsExpr = &e
			args = args[1:]
		}
	}
	if len(args) > 0 {
		n.Children = args
	}
	return n
}
