// Package livedom builds and updates element trees described by view.Node
// values.
//
// The functions here are the runtime half of livedom: they interpret
// descriptions whose shape is only known at execution time, and they are the
// helpers that code generated by the compiler package calls into. Both paths
// apply the same attribute and child dispatch rules, so skipping code
// generation and interpreting everything gives the same document.
package livedom

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/livefir/livedom/dom"
	"github.com/livefir/livedom/internal/classify"
	"github.com/livefir/livedom/internal/selector"
	"github.com/livefir/livedom/view"
)

const partiallyCompiledProp = "livedom.partiallyCompiled"

// MarkPartiallyCompiled records that part of el was built by the
// interpreter rather than generated code. The mark is never removed.
func MarkPartiallyCompiled(el dom.Element) {
	el.SetProperty(partiallyCompiledProp, true)
}

// IsPartiallyCompiled reports whether MarkPartiallyCompiled was called on el
func IsPartiallyCompiled(el dom.Element) bool {
	b, _ := el.Property(partiallyCompiledProp).(bool)
	return b
}

// Create builds the node for a single child value. Falsy values produce a
// nil node. Sequences have no single node; use AppendChild for them.
func Create(doc dom.Document, v interface{}) (dom.Node, error) {
	switch x := v.(type) {
	case view.Node:
		return CreateElement(doc, x)
	case *view.Node:
		if x == nil {
			return nil, nil
		}
		return CreateElement(doc, *x)
	case dom.Node:
		return x, nil
	}
	if err := compiledOnly(v); err != nil {
		return nil, err
	}
	if !Truthy(v) {
		return nil, nil
	}
	if isSequence(v) {
		return nil, fmt.Errorf("livedom: cannot create a single node from %T", v)
	}
	return doc.CreateTextNode(Text(v)), nil
}

// CreateElement builds the element described by n
func CreateElement(doc dom.Document, n view.Node) (dom.Element, error) {
	if n.AttrsExpr != nil {
		return nil, &ConfigError{Selector: n.Selector, Err: fmt.Errorf("%w: attrs %q", ErrUnresolvedExpr, n.AttrsExpr.Src)}
	}
	for k, v := range n.Attrs {
		if err := compiledOnly(v); err != nil {
			return nil, &ConfigError{Selector: n.Selector, Err: fmt.Errorf("attribute %q: %w", k, err)}
		}
	}

	sel := selector.Parse(n.Selector)
	if sel.ID != "" && Truthy(n.Attrs["id"]) {
		return nil, IDConflict(n.Selector)
	}

	el, usedIs := newElement(doc, sel.Tag, n.Attrs)
	if sel.ID != "" {
		el.SetID(sel.ID)
	}

	class := sel.Class
	for _, k := range sortedKeys(n.Attrs) {
		v := n.Attrs[k]
		if k == "is" && usedIs {
			continue
		}
		if target, _ := classify.AttrTarget(k); target == classify.TargetClass {
			class = JoinClass(class, v)
			continue
		}
		SetAttribute(el, k, nil, v)
	}
	if class != "" {
		el.SetClassName(class)
	}

	if err := appendChildren(doc, el, view.Flatten(n.Children)); err != nil {
		return nil, err
	}
	return el, nil
}

// newElement picks the creation call for tag: namespaced for SVG tags,
// customized built-in when attrs carries a string "is".
func newElement(doc dom.Document, tag string, attrs view.Attrs) (dom.Element, bool) {
	if dom.IsSVGTag(tag) {
		return doc.CreateElementNS(dom.SVGNamespace, tag), false
	}
	if is, ok := attrs["is"].(string); ok && is != "" {
		return doc.CreateCustomElement(tag, is), true
	}
	return doc.CreateElement(tag), false
}

// SetAttribute applies one attribute transition from prev to next. Keys
// prefixed "on-" register listeners, "id" and "class" set the element's id
// and class name, anything else is a plain attribute. A falsy next value
// removes what a truthy prev value had set.
func SetAttribute(el dom.Element, name string, prev, next interface{}) {
	target, event := classify.AttrTarget(name)

	if !Truthy(next) {
		if !Truthy(prev) {
			return
		}
		switch target {
		case classify.TargetID:
			el.RemoveAttribute("id")
		case classify.TargetClass:
			el.SetClassName("")
		case classify.TargetListener:
			el.RemoveEventListener(event)
		default:
			el.RemoveAttribute(name)
		}
		return
	}

	switch target {
	case classify.TargetID:
		el.SetID(Text(next))
	case classify.TargetClass:
		el.SetClassName(AttrValue(next))
	case classify.TargetListener:
		if Truthy(prev) {
			el.RemoveEventListener(event)
		}
		el.AddEventListener(event, next)
	default:
		el.SetAttribute(name, AttrValue(next))
	}
}

// AppendChild appends the node(s) for v to el: a text node for text-like
// values, an element for node descriptions, one child per entry for
// sequences. Falsy values append nothing.
func AppendChild(doc dom.Document, el dom.Element, v interface{}) error {
	switch x := v.(type) {
	case nil:
		return nil
	case view.Node, *view.Node, dom.Node:
		child, err := Create(doc, x)
		if err != nil {
			return err
		}
		if child != nil {
			el.AppendChild(child)
		}
		return nil
	case view.List:
		return appendAll(doc, el, x)
	case []interface{}:
		return appendAll(doc, el, x)
	case []byte:
		el.AppendChild(doc.CreateTextNode(string(x)))
		return nil
	}

	if err := compiledOnly(v); err != nil {
		return err
	}
	if isSequence(v) {
		rv := reflect.ValueOf(v)
		for i := 0; i < rv.Len(); i++ {
			if err := AppendChild(doc, el, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	if !Truthy(v) {
		return nil
	}
	el.AppendChild(doc.CreateTextNode(Text(v)))
	return nil
}

func appendAll(doc dom.Document, el dom.Element, children []interface{}) error {
	for _, c := range children {
		if err := AppendChild(doc, el, c); err != nil {
			return err
		}
	}
	return nil
}

// appendChildren mirrors the generated code: children that are all text are
// assigned as one text content, anything else is appended one by one.
func appendChildren(doc dom.Document, el dom.Element, children []interface{}) error {
	if text, ok := textContent(children); ok {
		if text != "" {
			el.SetTextContent(text)
		}
		return nil
	}
	return appendAll(doc, el, children)
}

// textContent concatenates children when every one of them is a literal or nil
func textContent(children []interface{}) (string, bool) {
	var text string
	for _, c := range children {
		if c == nil {
			continue
		}
		if !classify.IsLiteral(c) {
			return "", false
		}
		text += Text(c)
	}
	return text, true
}

func compiledOnly(v interface{}) error {
	switch x := v.(type) {
	case view.Expr:
		return fmt.Errorf("%w: %q", ErrUnresolvedExpr, x.Src)
	case *view.Expr:
		if x != nil {
			return fmt.Errorf("%w: %q", ErrUnresolvedExpr, x.Src)
		}
	case view.For, view.If, view.When:
		return fmt.Errorf("%w: %T", ErrUnresolvedExpr, v)
	}
	return nil
}

func isSequence(v interface{}) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
