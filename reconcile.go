package livedom

import (
	"reflect"
	"strings"

	"github.com/livefir/livedom/internal/classify"
	"github.com/livefir/livedom/dom"
	"github.com/livefir/livedom/internal/selector"
	"github.com/livefir/livedom/view"
)

// Update reconciles el, built from prev, so that it matches next.
//
// Attributes and listeners present in prev but absent or falsy in next are
// removed. Children are patched in place where the old and new child are
// both text or both elements with the same tag; other children are
// replaced, surplus children removed and new ones appended. Each nested
// element patch runs under ic with op "update". A nil ic runs everything
// directly.
func Update(doc dom.Document, el dom.Element, prev, next view.Node, ic Interceptor) error {
	if ic == nil {
		ic = passThrough
	}

	nextSel := selector.Parse(next.Selector)
	if !strings.EqualFold(nextSel.Tag, el.TagName()) {
		return &ConfigError{Selector: next.Selector, Err: ErrTagMismatch}
	}
	if next.AttrsExpr != nil {
		return &ConfigError{Selector: next.Selector, Err: ErrUnresolvedExpr}
	}

	prevAttrs, _ := effectiveAttrs(prev)
	nextAttrs, err := effectiveAttrs(next)
	if err != nil {
		return err
	}

	for _, k := range unionKeys(prevAttrs, nextAttrs) {
		if k == "is" {
			// fixed at creation
			continue
		}
		p, n := prevAttrs[k], nextAttrs[k]
		if sameValue(p, n) {
			if inSync(el, k, n) {
				continue
			}
			// el no longer shows p, e.g. after a skipped update; treat
			// the DOM value as set so that a falsy n removes it
			p = true
		}
		SetAttribute(el, k, p, n)
	}

	return updateChildren(doc, el, view.Flatten(prev.Children), view.Flatten(next.Children), ic)
}

// inSync reports whether el already shows v for the attribute name.
// Listeners cannot be read back and always count as in sync.
func inSync(el dom.Element, name string, v interface{}) bool {
	target, _ := classify.AttrTarget(name)
	switch target {
	case classify.TargetListener:
		return true
	case classify.TargetID:
		name = "id"
	case classify.TargetClass:
		if !Truthy(v) {
			return el.ClassName() == ""
		}
		return el.ClassName() == AttrValue(v)
	}
	got, ok := el.Attribute(name)
	if !Truthy(v) {
		return !ok
	}
	if target == classify.TargetID {
		return ok && got == Text(v)
	}
	return ok && got == AttrValue(v)
}

// effectiveAttrs folds the selector id and classes into the attribute mapping
func effectiveAttrs(n view.Node) (map[string]interface{}, error) {
	sel := selector.Parse(n.Selector)
	out := make(map[string]interface{}, len(n.Attrs)+2)
	for k, v := range n.Attrs {
		if err := compiledOnly(v); err != nil {
			return nil, &ConfigError{Selector: n.Selector, Err: err}
		}
		out[k] = v
	}

	if sel.ID != "" {
		if Truthy(n.Attrs["id"]) {
			return nil, IDConflict(n.Selector)
		}
		out["id"] = sel.ID
	}

	if class := JoinClass(sel.Class, n.Attrs["class"]); class != "" {
		out["class"] = class
	} else {
		delete(out, "class")
	}
	return out, nil
}

func updateChildren(doc dom.Document, el dom.Element, prev, next []interface{}, ic Interceptor) error {
	if text, ok := textContent(next); ok {
		if !holdsOnlyText(el, text) {
			el.SetTextContent(text)
		}
		return nil
	}

	prevLeaves, err := leaves(prev)
	if err != nil {
		return err
	}
	nextLeaves, err := leaves(next)
	if err != nil {
		return err
	}

	kids := el.ChildNodes()
	if _, wasText := textContent(prev); wasText || len(kids) != len(prevLeaves) {
		// The DOM does not line up with prev child by child; rebuild.
		el.SetTextContent("")
		return appendAll(doc, el, nextLeaves)
	}

	for i, nv := range nextLeaves {
		if i >= len(kids) {
			if err := AppendChild(doc, el, nv); err != nil {
				return err
			}
			continue
		}
		if err := patchChild(doc, el, kids[i], prevLeaves[i], nv, ic); err != nil {
			return err
		}
	}
	for i := len(nextLeaves); i < len(kids); i++ {
		el.RemoveChild(kids[i])
	}
	return nil
}

// holdsOnlyText reports whether el's children are exactly what
// SetTextContent(text) would leave
func holdsOnlyText(el dom.Element, text string) bool {
	kids := el.ChildNodes()
	switch len(kids) {
	case 0:
		return text == ""
	case 1:
		t, ok := kids[0].(dom.Text)
		return ok && t.Data() == text
	}
	return false
}

func patchChild(doc dom.Document, el dom.Element, kid dom.Node, prev, next interface{}, ic Interceptor) error {
	switch n := next.(type) {
	case view.Node:
		p, ok := prev.(view.Node)
		ke, isElement := kid.(dom.Element)
		if ok && isElement && strings.EqualFold(selector.Parse(n.Selector).Tag, ke.TagName()) {
			var err error
			ic(OpUpdate, InvocationContext{Target: ke}, func() {
				err = Update(doc, ke, p, n, ic)
			})
			return err
		}
	case dom.Node:
		if sameValue(kid, n) {
			return nil
		}
	default:
		if t, ok := kid.(dom.Text); ok && t.Data() == Text(n) {
			return nil
		}
	}

	child, err := Create(doc, next)
	if err != nil {
		return err
	}
	el.ReplaceChild(child, kid)
	return nil
}

// leaves expands sequences and drops falsy entries, leaving exactly one
// value per DOM child that AppendChild would create
func leaves(children []interface{}) ([]interface{}, error) {
	var out []interface{}
	var walk func(v interface{}) error
	walk = func(v interface{}) error {
		switch x := v.(type) {
		case nil:
			return nil
		case view.Node, dom.Node:
			out = append(out, x)
			return nil
		case *view.Node:
			if x != nil {
				out = append(out, *x)
			}
			return nil
		case []byte:
			out = append(out, string(x))
			return nil
		}
		if err := compiledOnly(v); err != nil {
			return err
		}
		if isSequence(v) {
			rv := reflect.ValueOf(v)
			for i := 0; i < rv.Len(); i++ {
				if err := walk(rv.Index(i).Interface()); err != nil {
					return err
				}
			}
			return nil
		}
		if Truthy(v) {
			out = append(out, v)
		}
		return nil
	}

	for _, c := range children {
		if err := walk(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func unionKeys(a, b map[string]interface{}) []string {
	seen := make(map[string]interface{}, len(a)+len(b))
	for k := range a {
		seen[k] = nil
	}
	for k := range b {
		seen[k] = nil
	}
	return sortedKeys(seen)
}

// sameValue compares attribute values and nodes. Funcs never compare equal
// so that listeners closing over fresh data are always rebound.
func sameValue(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta.Kind() == reflect.Func {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
