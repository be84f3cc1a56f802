package loader

import (
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"

	"github.com/livefir/livedom/dom"
	"github.com/livefir/livedom/internal/selector"
	"github.com/livefir/livedom/view"
)

// decodeNode decodes a node sequence: selector, optional attributes, children
func decodeNode(n *yaml.Node) (view.Node, error) {
	n = resolve(n)
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return view.Node{}, posErr(n, "node must be a sequence starting with a selector")
	}
	head := resolve(n.Content[0])
	if !isSelector(head) {
		return view.Node{}, posErr(head, "node must start with a selector string")
	}
	if !isElement(head.Value) {
		return view.Node{}, posErr(head, fmt.Sprintf("%q is not an element selector; tag a sequence of children with !list", head.Value))
	}

	node := view.Node{Selector: head.Value}
	rest := n.Content[1:]
	if len(rest) > 0 {
		first := resolve(rest[0])
		switch {
		case first.Kind == yaml.MappingNode && first.ShortTag() == "!!map":
			attrs, err := decodeAttrs(first)
			if err != nil {
				return view.Node{}, err
			}
			node.Attrs = attrs
			rest = rest[1:]
		case first.Kind == yaml.ScalarNode && first.Tag == TagAttrs:
			e := view.Dyn(first.Value)
			node.AttrsExpr = &e
			rest = rest[1:]
		}
	}

	for _, c := range rest {
		child, err := decodeChild(c)
		if err != nil {
			return view.Node{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func decodeAttrs(n *yaml.Node) (view.Attrs, error) {
	attrs := make(view.Attrs, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := resolve(n.Content[i]), resolve(n.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, posErr(key, "attribute names must be strings")
		}
		if value.Kind != yaml.ScalarNode {
			return nil, posErr(value, fmt.Sprintf("attribute %q must be a scalar or an !expr", key.Value))
		}
		v, err := decodeScalar(value)
		if err != nil {
			return nil, err
		}
		attrs[key.Value] = v
	}
	return attrs, nil
}

// decodeChild decodes one child: a scalar, a nested node, a list of
// children or a control form
func decodeChild(n *yaml.Node) (interface{}, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)

	case yaml.SequenceNode:
		if n.Tag != TagList && len(n.Content) > 0 && isSelector(resolve(n.Content[0])) {
			return decodeNode(n)
		}
		list := make(view.List, 0, len(n.Content))
		for _, c := range n.Content {
			child, err := decodeChild(c)
			if err != nil {
				return nil, err
			}
			list = append(list, child)
		}
		return list, nil

	case yaml.MappingNode:
		return decodeForm(n)
	}
	return nil, posErr(n, "unsupported child")
}

func decodeForm(n *yaml.Node) (interface{}, error) {
	switch n.Tag {
	case TagFor:
		f, err := fields(n, []string{"range", "do"}, nil)
		if err != nil {
			return nil, err
		}
		body, err := decodeChild(f["do"])
		if err != nil {
			return nil, err
		}
		return view.For{Range: f["range"].Value, Body: body}, nil

	case TagIf:
		f, err := fields(n, []string{"cond", "then"}, []string{"else"})
		if err != nil {
			return nil, err
		}
		form := view.If{Cond: f["cond"].Value}
		if form.Then, err = decodeChild(f["then"]); err != nil {
			return nil, err
		}
		if e, ok := f["else"]; ok {
			if form.Else, err = decodeChild(e); err != nil {
				return nil, err
			}
		}
		return form, nil

	case TagWhen:
		f, err := fields(n, []string{"cond", "do"}, nil)
		if err != nil {
			return nil, err
		}
		body, err := decodeChild(f["do"])
		if err != nil {
			return nil, err
		}
		form := view.When{Cond: f["cond"].Value}
		// a list body keeps its entries so that the arity check sees them
		if list, ok := body.(view.List); ok {
			form.Body = []interface{}(list)
		} else {
			form.Body = []interface{}{body}
		}
		return form, nil
	}
	return nil, posErr(n, "mapping children must be tagged !for, !if or !when; attributes go right after the selector")
}

// fields collects the values of a control form mapping, rejecting unknown
// keys. Condition and range values must be scalars.
func fields(n *yaml.Node, required, optional []string) (map[string]*yaml.Node, error) {
	allowed := map[string]bool{}
	for _, k := range append(append([]string{}, required...), optional...) {
		allowed[k] = true
	}

	out := map[string]*yaml.Node{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		if !allowed[key.Value] {
			return nil, posErr(key, fmt.Sprintf("unknown key %q in %s", key.Value, n.Tag))
		}
		out[key.Value] = n.Content[i+1]
	}
	for _, k := range required {
		if _, ok := out[k]; !ok {
			return nil, posErr(n, fmt.Sprintf("%s requires %q", n.Tag, k))
		}
	}
	for _, k := range []string{"cond", "range"} {
		if v, ok := out[k]; ok {
			v = resolve(v)
			if v.Kind != yaml.ScalarNode || v.Value == "" {
				return nil, posErr(v, fmt.Sprintf("%q must be a Go expression", k))
			}
			out[k] = v
		}
	}
	return out, nil
}

func decodeScalar(n *yaml.Node) (interface{}, error) {
	switch n.Tag {
	case TagExpr:
		return view.Dyn(n.Value), nil
	case TagText:
		return view.Text(n.Value), nil
	}

	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!str", "!!bool", "!!int", "!!float":
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, posErr(n, err.Error())
		}
		return v, nil
	}
	return nil, posErr(n, fmt.Sprintf("unsupported tag %s", n.Tag))
}

func isSelector(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

// isElement reports whether token selects an HTML, SVG or custom element.
// A token with only an id or classes selects the default tag.
func isElement(token string) bool {
	if token == "" || strings.ContainsAny(token, " \t\n") {
		return false
	}
	if strings.IndexAny(token, ".#") == 0 {
		return true
	}
	tag := selector.Parse(token).Tag
	return atom.Lookup([]byte(strings.ToLower(tag))) != 0 ||
		dom.IsSVGTag(tag) ||
		strings.Contains(tag, "-")
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
