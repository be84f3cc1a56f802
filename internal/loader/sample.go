package loader

import (
	"fmt"
	"strings"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/internal/classify"
	"github.com/livefir/livedom/view"
)

// Preview returns the template's node with expressions replaced by sample
// values, so that the runtime interpreter can build it without compiling.
//
// An expression resolves when its source is a sample key or a dotted path
// into a sample mapping ("item.Title"); fields missing from a mapping are
// nil. !if and !when pick their branch from a resolved condition, and !for
// ranges over a resolved sequence binding its loop variables. Anything else
// is left in place.
//
// A !when with more than one body expression fails with
// classify.ErrWhenArity, as it does when the template is compiled.
func (t Template) Preview() (view.Node, error) {
	s := scope{vars: t.Sample}
	return s.node(t.Node)
}

type scope struct {
	vars   map[string]interface{}
	parent *scope
}

func (s *scope) lookup(src string) (interface{}, bool) {
	src = strings.TrimSpace(src)
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[src]; ok {
			return v, true
		}
	}

	parts := strings.Split(src, ".")
	if len(parts) < 2 {
		return nil, false
	}
	v, ok := s.lookup(parts[0])
	if !ok {
		return nil, false
	}
	// fields missing from a sample mapping are nil
	for _, p := range parts[1:] {
		m, isMap := v.(map[string]interface{})
		if !isMap {
			return nil, false
		}
		v = m[p]
	}
	return v, true
}

func (s *scope) node(n view.Node) (view.Node, error) {
	out := view.Node{Selector: n.Selector}
	if len(n.Attrs) > 0 {
		out.Attrs = make(view.Attrs, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = s.value(v)
		}
	}
	if n.AttrsExpr != nil {
		m, ok := s.lookup(n.AttrsExpr.Src)
		attrs, isMap := m.(map[string]interface{})
		switch {
		case ok && isMap:
			if out.Attrs == nil {
				out.Attrs = view.Attrs{}
			}
			for k, v := range attrs {
				out.Attrs[k] = v
			}
		case !ok:
			e := *n.AttrsExpr
			out.AttrsExpr = &e
		}
	}
	for _, c := range n.Children {
		kid, err := s.child(c)
		if err != nil {
			return view.Node{}, err
		}
		out.Children = append(out.Children, kid)
	}
	return out, nil
}

func (s *scope) value(v interface{}) interface{} {
	if e, ok := v.(view.Expr); ok {
		if r, found := s.lookup(e.Src); found {
			return r
		}
	}
	return v
}

func (s *scope) child(c interface{}) (interface{}, error) {
	switch x := c.(type) {
	case view.Expr:
		return s.value(x), nil
	case view.Node:
		return s.node(x)
	case view.List:
		out := make(view.List, 0, len(x))
		for _, item := range x {
			v, err := s.child(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case view.If:
		cond, ok := s.lookup(x.Cond)
		if !ok {
			return x, nil
		}
		if livedom.Truthy(cond) {
			return s.child(x.Then)
		}
		return s.child(x.Else)
	case view.When:
		if len(x.Body) > 1 {
			return nil, fmt.Errorf("when %q: %w (got %d)", x.Cond, classify.ErrWhenArity, len(x.Body))
		}
		cond, ok := s.lookup(x.Cond)
		if !ok {
			return x, nil
		}
		if !livedom.Truthy(cond) || len(x.Body) == 0 {
			return nil, nil
		}
		return s.child(x.Body[0])
	case view.For:
		return s.loop(x)
	}
	return c, nil
}

// loop expands "k, v := range xs" or "i := range xs" over a sample sequence
func (s *scope) loop(f view.For) (interface{}, error) {
	lhs, rhs, ok := strings.Cut(f.Range, ":=")
	if !ok {
		return f, nil
	}
	rhs = strings.TrimSpace(rhs)
	if !strings.HasPrefix(rhs, "range ") {
		return f, nil
	}
	seq, found := s.lookup(strings.TrimPrefix(rhs, "range "))
	items, isSeq := seq.([]interface{})
	if !found || !isSeq {
		return f, nil
	}

	names := strings.Split(lhs, ",")
	out := make(view.List, 0, len(items))
	for i, item := range items {
		vars := map[string]interface{}{}
		if k := strings.TrimSpace(names[0]); k != "_" {
			vars[k] = i
		}
		if len(names) > 1 {
			if v := strings.TrimSpace(names[1]); v != "_" {
				vars[v] = item
			}
		}
		inner := &scope{vars: vars, parent: s}
		v, err := inner.child(f.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
