package compiler

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/livefir/livedom/internal/classify"
	"github.com/livefir/livedom/internal/selector"
	"github.com/livefir/livedom/view"
)

// Param is one parameter of a generated template function
type Param struct {
	Name string
	Type string
}

// Template is one generated function
type Template struct {
	// Name is the exported Go function name
	Name   string
	Params []Param
	// Types declares the static type of selector paths such as
	// "item.Title" so that they can be assigned as text.
	Types map[string]string
	Node  view.Node
}

// File describes one generated Go source file
type File struct {
	Package string
	// Source names the description file, for the generated header
	Source    string
	Imports   []string
	Templates []Template

	RuntimeImport string
	DOMImport     string
}

// GenerateFile returns the gofmt'd source of f. Each template becomes
//
//	func Name(doc dom.Document, params...) (el dom.Element, err error)
//
// which returns construction errors raised at run time instead of panicking.
func GenerateFile(f File, opts Options) ([]byte, error) {
	if !token.IsIdentifier(f.Package) {
		return nil, fmt.Errorf("invalid package name %q", f.Package)
	}

	seen := make(map[string]bool, len(f.Templates))
	var body bytes.Buffer
	for _, t := range f.Templates {
		if !token.IsIdentifier(t.Name) || !token.IsExported(t.Name) {
			return nil, fmt.Errorf("template %q: name must be an exported Go identifier", t.Name)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("template %q declared twice", t.Name)
		}
		seen[t.Name] = true

		fn, err := generateFunc(t, opts)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", t.Name, err)
		}
		body.WriteString(fn)
	}

	var buf bytes.Buffer
	source := f.Source
	if source == "" {
		source = "view descriptions"
	}
	fmt.Fprintf(&buf, "// Code generated by livedomc from %s. DO NOT EDIT.\n\n", source)
	fmt.Fprintf(&buf, "package %s\n\n", f.Package)
	buf.WriteString("import (\n")
	for _, imp := range imports(f) {
		fmt.Fprintf(&buf, "%s\n", imp)
	}
	buf.WriteString(")\n")
	buf.Write(body.Bytes())

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated file: %w", err)
	}
	return out, nil
}

func imports(f File) []string {
	runtime, domPath := f.RuntimeImport, f.DOMImport
	if runtime == "" {
		runtime = DefaultRuntimeImport
	}
	if domPath == "" {
		domPath = DefaultDOMImport
	}

	set := map[string]bool{}
	var out []string
	add := func(imp string) {
		imp = strings.TrimSpace(imp)
		if imp == "" {
			return
		}
		// already quoted, possibly with an alias
		if !strings.HasSuffix(imp, `"`) {
			imp = strconv.Quote(imp)
		}
		if !set[imp] {
			set[imp] = true
			out = append(out, imp)
		}
	}
	for _, imp := range f.Imports {
		add(imp)
	}
	if runtime != DefaultRuntimeImport {
		add("livedom " + strconv.Quote(runtime))
	} else {
		add(runtime)
	}
	if domPath != DefaultDOMImport {
		add("dom " + strconv.Quote(domPath))
	} else {
		add(domPath)
	}
	sort.Strings(out)
	return out
}

// names the generated function declares itself
var reserved = map[string]bool{"doc": true, "el": true, "err": true, "dom": true, "livedom": true}

func generateFunc(t Template, opts Options) (string, error) {
	if opts.Resolver == nil {
		opts.Resolver = paramTypes(t)
	}

	g := &generator{resolver: opts.Resolver}
	expr, err := g.node(t.Node, 0)
	if err != nil {
		return "", err
	}

	params := []string{"doc dom.Document"}
	for _, p := range t.Params {
		if !token.IsIdentifier(p.Name) || reserved[p.Name] {
			return "", fmt.Errorf("invalid parameter name %q", p.Name)
		}
		params = append(params, p.Name+" "+p.Type)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n// %s builds the %s element.\n", t.Name, selectorTag(t.Node))
	fmt.Fprintf(&b, "func %s(%s) (el dom.Element, err error) {\n", t.Name, strings.Join(params, ", "))
	b.WriteString("defer livedom.Recover(&err)\n")
	fmt.Fprintf(&b, "return %s, nil\n}\n", expr)
	return b.String(), nil
}

// paramTypes resolves expressions from the declared parameter and path types
func paramTypes(t Template) classify.VarTypes {
	vt := make(classify.VarTypes, len(t.Params)+len(t.Types))
	for _, p := range t.Params {
		vt[p.Name] = p.Type
	}
	for k, v := range t.Types {
		vt[k] = v
	}
	return vt
}

func selectorTag(n view.Node) string {
	return "<" + selector.Parse(n.Selector).Tag + ">"
}
