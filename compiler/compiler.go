// Package compiler turns view.Node descriptions into Go construction code.
//
// Literal parts of a description (tags, ids, classes, constant attributes
// and text) are resolved while generating, so the emitted code only calls
// the document for what it has to create. Expressions, control forms and
// whole attribute mappings are written out as Go source around those calls.
// Children the generator cannot place are handed to the livedom runtime,
// which marks the element as partially compiled.
package compiler

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/dom"
	"github.com/livefir/livedom/internal/classify"
	"github.com/livefir/livedom/internal/selector"
	"github.com/livefir/livedom/view"
)

const (
	// DefaultRuntimeImport is the import path of the runtime helpers
	DefaultRuntimeImport = "github.com/livefir/livedom"
	// DefaultDOMImport is the import path of the document interfaces
	DefaultDOMImport = "github.com/livefir/livedom/dom"
)

// Options configures generation
type Options struct {
	// Resolver upgrades expressions of known text type to text content.
	// Nil keeps every unhinted expression dynamic.
	Resolver classify.TypeResolver
}

// Generate returns a Go expression of type dom.Element that builds n.
// The expression refers to a dom.Document named doc and to the livedom and
// dom packages. On failure nothing is returned.
func Generate(n view.Node, opts Options) (string, error) {
	g := &generator{resolver: opts.Resolver}
	src, err := g.node(n, 0)
	if err != nil {
		return "", err
	}
	return formatExpr(src)
}

type generator struct {
	resolver classify.TypeResolver
}

func elName(depth int) string {
	if depth == 0 {
		return "el"
	}
	return "el" + strconv.Itoa(depth)
}

// node emits the construction expression for n
func (g *generator) node(n view.Node, depth int) (string, error) {
	sel := selector.Parse(n.Selector)
	children := view.Flatten(n.Children)

	if id, ok := n.Attrs["id"]; ok && sel.ID != "" && !classify.Omit(id) {
		return "", livedom.IDConflict(n.Selector)
	}

	create, usedIs := creation(sel.Tag, n.Attrs)
	if len(n.Attrs) == 0 && n.AttrsExpr == nil && sel.ID == "" && sel.Class == "" && allNil(children) {
		return create, nil
	}

	el := elName(depth)
	var b strings.Builder
	fmt.Fprintf(&b, "func() dom.Element {\n%s := %s\n", el, create)

	idFixed := sel.ID != ""
	if idFixed {
		fmt.Fprintf(&b, "%s.SetID(%s)\n", el, strconv.Quote(sel.ID))
	}

	// class first, so a whole-mapping class can extend it
	classLiteral := true
	class := sel.Class
	switch v := n.Attrs["class"].(type) {
	case nil:
	case view.Expr:
		if err := checkExpr(v.Src); err != nil {
			return "", attrErr(n, "class", err)
		}
		classLiteral = false
		if class != "" {
			fmt.Fprintf(&b, "%s.SetClassName(%s)\n", el, strconv.Quote(class))
		}
		fmt.Fprintf(&b, "if v := (%s); livedom.Truthy(v) {\n%s.SetClassName(livedom.JoinClass(%s, v))\n}\n",
			v.Src, el, strconv.Quote(class))
	default:
		if !classify.IsLiteral(v) {
			return "", attrErr(n, "class", fmt.Errorf("unsupported value %T", v))
		}
		class = livedom.JoinClass(class, v)
	}
	if classLiteral && class != "" {
		fmt.Fprintf(&b, "%s.SetClassName(%s)\n", el, strconv.Quote(class))
	}

	for _, k := range sortedKeys(n.Attrs) {
		v := n.Attrs[k]
		if k == "class" || (k == "is" && usedIs) || classify.Omit(v) {
			continue
		}
		if k == "id" {
			idFixed = true
		}
		if err := g.attr(&b, el, k, v); err != nil {
			return "", attrErr(n, k, err)
		}
	}

	if n.AttrsExpr != nil {
		if err := checkExpr(n.AttrsExpr.Src); err != nil {
			return "", attrErr(n, "*", err)
		}
		prefix := strconv.Quote(class)
		if !classLiteral {
			prefix = el + ".ClassName()"
		}
		fmt.Fprintf(&b, "for k, v := range (%s) {\nif !livedom.Truthy(v) {\ncontinue\n}\nswitch k {\n", n.AttrsExpr.Src)
		fmt.Fprintf(&b, "case \"class\":\n%s.SetClassName(livedom.JoinClass(%s, v))\n", el, prefix)
		if idFixed {
			fmt.Fprintf(&b, "case \"id\":\nlivedom.Must(livedom.IDConflict(%s))\n", strconv.Quote(n.Selector))
		}
		fmt.Fprintf(&b, "default:\nlivedom.SetAttribute(%s, k, nil, v)\n}\n}\n", el)
	}

	if err := g.children(&b, el, children, depth); err != nil {
		return "", &livedom.ConfigError{Selector: n.Selector, Err: err}
	}

	fmt.Fprintf(&b, "return %s\n}()", el)
	return b.String(), nil
}

// creation picks the document call that creates tag
func creation(tag string, attrs view.Attrs) (string, bool) {
	if dom.IsSVGTag(tag) {
		return fmt.Sprintf("doc.CreateElementNS(dom.SVGNamespace, %s)", strconv.Quote(tag)), false
	}
	if is, ok := attrs["is"].(string); ok && is != "" {
		return fmt.Sprintf("doc.CreateCustomElement(%s, %s)", strconv.Quote(tag), strconv.Quote(is)), true
	}
	return fmt.Sprintf("doc.CreateElement(%s)", strconv.Quote(tag)), false
}

// attr emits one attribute. Literals are applied directly, expressions
// behind a falsy guard.
func (g *generator) attr(b *strings.Builder, el, name string, v interface{}) error {
	target, event := classify.AttrTarget(name)

	if e, ok := v.(view.Expr); ok {
		if err := checkExpr(e.Src); err != nil {
			return err
		}
		fmt.Fprintf(b, "if v := (%s); livedom.Truthy(v) {\n", e.Src)
		switch target {
		case classify.TargetID:
			fmt.Fprintf(b, "%s.SetID(livedom.Text(v))\n", el)
		case classify.TargetListener:
			fmt.Fprintf(b, "%s.AddEventListener(%s, v)\n", el, strconv.Quote(event))
		default:
			fmt.Fprintf(b, "%s.SetAttribute(%s, livedom.AttrValue(v))\n", el, strconv.Quote(name))
		}
		b.WriteString("}\n")
		return nil
	}

	if !classify.IsLiteral(v) {
		return fmt.Errorf("unsupported value %T", v)
	}
	switch target {
	case classify.TargetID:
		fmt.Fprintf(b, "%s.SetID(%s)\n", el, strconv.Quote(livedom.Text(v)))
	case classify.TargetListener:
		fmt.Fprintf(b, "%s.AddEventListener(%s, %s)\n", el, strconv.Quote(event), literal(v))
	default:
		fmt.Fprintf(b, "%s.SetAttribute(%s, %s)\n", el, strconv.Quote(name), strconv.Quote(livedom.AttrValue(v)))
	}
	return nil
}

// children emits the child statements of el
func (g *generator) children(b *strings.Builder, el string, children []interface{}, depth int) error {
	verdicts := make([]classify.Verdict, len(children))
	textOnly := true
	for i, c := range children {
		vd, err := classify.Classify(c, g.resolver)
		if err != nil {
			return err
		}
		verdicts[i] = vd
		if vd.Kind != classify.Nil && !vd.TextLike {
			textOnly = false
		}
	}

	if textOnly {
		if text := textExpr(verdicts); text != "" {
			fmt.Fprintf(b, "%s.SetTextContent(%s)\n", el, text)
		}
		return nil
	}

	if g.defers(children) {
		fmt.Fprintf(b, "livedom.MarkPartiallyCompiled(%s)\n", el)
	}
	for _, vd := range verdicts {
		if err := g.child(b, el, vd, depth); err != nil {
			return err
		}
	}
	return nil
}

// textExpr concatenates text-like children into one string expression,
// merging adjacent literals
func textExpr(verdicts []classify.Verdict) string {
	var parts []string
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, strconv.Quote(lit.String()))
			lit.Reset()
		}
	}
	for _, vd := range verdicts {
		switch vd.Kind {
		case classify.Literal:
			lit.WriteString(livedom.Text(vd.Value))
		case classify.Dynamic:
			flush()
			parts = append(parts, fmt.Sprintf("livedom.Text(%s)", vd.Value.(view.Expr).Src))
		}
	}
	flush()
	return strings.Join(parts, " + ")
}

func (g *generator) child(b *strings.Builder, el string, vd classify.Verdict, depth int) error {
	switch vd.Kind {
	case classify.Nil:
		return nil

	case classify.Literal:
		if classify.Omit(vd.Value) {
			return nil
		}
		fmt.Fprintf(b, "%s.AppendChild(doc.CreateTextNode(%s))\n", el, strconv.Quote(livedom.Text(vd.Value)))
		return nil

	case classify.Element:
		src, err := g.node(vd.Value.(view.Node), depth+1)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "%s.AppendChild(%s)\n", el, src)
		return nil

	case classify.Loop:
		f := vd.Value.(view.For)
		if err := checkRange(f.Range); err != nil {
			return err
		}
		fmt.Fprintf(b, "for %s {\n", f.Range)
		if err := g.value(b, el, f.Body, depth); err != nil {
			return err
		}
		b.WriteString("}\n")
		return nil

	case classify.Conditional:
		c := vd.Value.(view.If)
		if err := checkExpr(c.Cond); err != nil {
			return err
		}
		fmt.Fprintf(b, "if %s {\n", c.Cond)
		if err := g.value(b, el, c.Then, depth); err != nil {
			return err
		}
		if c.Else != nil {
			b.WriteString("} else {\n")
			if err := g.value(b, el, c.Else, depth); err != nil {
				return err
			}
		}
		b.WriteString("}\n")
		return nil

	case classify.SingleConditional:
		w := vd.Value.(view.When)
		if err := checkExpr(w.Cond); err != nil {
			return err
		}
		fmt.Fprintf(b, "if %s {\n", w.Cond)
		for _, body := range w.Body {
			if err := g.value(b, el, body, depth); err != nil {
				return err
			}
		}
		b.WriteString("}\n")
		return nil

	case classify.ListForm:
		for _, item := range vd.Value.(view.List) {
			if err := g.value(b, el, item, depth); err != nil {
				return err
			}
		}
		return nil
	}

	e, ok := vd.Value.(view.Expr)
	if !ok {
		return fmt.Errorf("child of type %T cannot be written as Go source", vd.Value)
	}
	if err := checkExpr(e.Src); err != nil {
		return err
	}
	if vd.TextLike {
		// falsy values append no node, as in the interpreter
		fmt.Fprintf(b, "if v := (%s); livedom.Truthy(v) {\n%s.AppendChild(doc.CreateTextNode(livedom.Text(v)))\n}\n", e.Src, el)
		return nil
	}
	fmt.Fprintf(b, "livedom.Must(livedom.AppendChild(doc, %s, %s))\n", el, e.Src)
	return nil
}

// value emits a control-form body, which may itself be any child value
func (g *generator) value(b *strings.Builder, el string, v interface{}, depth int) error {
	vd, err := classify.Classify(v, g.resolver)
	if err != nil {
		return err
	}
	return g.child(b, el, vd, depth)
}

// defers reports whether any child, including control-form bodies, is left
// to the runtime
func (g *generator) defers(children []interface{}) bool {
	for _, c := range children {
		vd, err := classify.Classify(c, g.resolver)
		if err != nil {
			continue
		}
		switch vd.Kind {
		case classify.Dynamic:
			if !vd.TextLike {
				return true
			}
		case classify.Loop:
			if g.defers([]interface{}{vd.Value.(view.For).Body}) {
				return true
			}
		case classify.Conditional:
			c := vd.Value.(view.If)
			if g.defers([]interface{}{c.Then, c.Else}) {
				return true
			}
		case classify.SingleConditional:
			if g.defers(vd.Value.(view.When).Body) {
				return true
			}
		case classify.ListForm:
			if g.defers(vd.Value.(view.List)) {
				return true
			}
		}
	}
	return false
}

func allNil(children []interface{}) bool {
	for _, c := range children {
		if c != nil {
			return false
		}
	}
	return true
}

func attrErr(n view.Node, name string, err error) error {
	return &livedom.ConfigError{Selector: n.Selector, Err: fmt.Errorf("attribute %q: %w", name, err)}
}

// literal writes a constant as Go source
func literal(v interface{}) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func checkExpr(src string) error {
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("empty expression")
	}
	if _, err := parser.ParseExpr(src); err != nil {
		return fmt.Errorf("invalid expression %q: %w", src, err)
	}
	return nil
}

func checkRange(clause string) error {
	if !strings.Contains(clause, "range") {
		return fmt.Errorf("for clause %q is not a range clause", clause)
	}
	src := "package p\nfunc _() {\nfor " + clause + " {\n}\n}\n"
	if _, err := parser.ParseFile(token.NewFileSet(), "", src, 0); err != nil {
		return fmt.Errorf("invalid range clause %q: %w", clause, err)
	}
	return nil
}

const exprPrefix = "package p\n\nvar _ = "

// formatExpr gofmts a standalone expression
func formatExpr(src string) (string, error) {
	out, err := format.Source([]byte(exprPrefix + src + "\n"))
	if err != nil {
		return "", fmt.Errorf("formatting generated code: %w", err)
	}
	out = bytes.TrimPrefix(out, []byte(exprPrefix))
	return string(bytes.TrimRight(out, "\n")), nil
}

func sortedKeys(m view.Attrs) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
