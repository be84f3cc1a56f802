// Package loader reads template description files.
//
// A description file is YAML:
//
//	package: views
//	imports: [strings]
//	templates:
//	  - name: todo item
//	    params: ["item Item"]
//	    types: {item.Title: string}
//	    node:
//	      - li.todo
//	      - {data-id: !expr item.ID, on-click: !expr item.Toggle}
//	      - [span.title, !expr item.Title]
//	      - !when {cond: item.Done, do: [span.done, "✓"]}
//
// A node is a sequence headed by its selector, optionally followed by an
// attribute mapping (or a !attrs expression for the whole mapping), then
// its children. Scalars are literals unless tagged !expr or !text.
// Control forms are tagged mappings: !for {range, do}, !if {cond, then,
// else} and !when {cond, do}; !list wraps a sequence of children.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/livefir/livedom/compiler"
	"github.com/livefir/livedom/internal/validation"
)

// Tags recognized in description files
const (
	TagExpr  = "!expr"
	TagText  = "!text"
	TagAttrs = "!attrs"
	TagFor   = "!for"
	TagIf    = "!if"
	TagWhen  = "!when"
	TagList  = "!list"
)

// File is a loaded description file
type File struct {
	Path      string
	Package   string
	Imports   []string
	Templates []Template
}

// Template is one loaded template
type Template struct {
	compiler.Template
	// Source is the name as written in the file
	Source string
	// Sample holds preview values for expressions, keyed by expression source
	Sample map[string]interface{}
}

type fileSpec struct {
	Package   string         `yaml:"package" validate:"required"`
	Imports   []string       `yaml:"imports" validate:"dive,required"`
	Templates []templateSpec `yaml:"templates" validate:"required,min=1,dive"`
}

type templateSpec struct {
	Name   string                 `yaml:"name" validate:"required"`
	Params []string               `yaml:"params" validate:"dive,required"`
	Types  map[string]string      `yaml:"types"`
	Sample map[string]interface{} `yaml:"sample" validate:"-"`
	Node   yaml.Node              `yaml:"node" validate:"-"`
}

var validate = validation.New()

// LoadFile reads and parses the description file at path
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse parses description file data; path is used in errors
func Parse(path string, data []byte) (*File, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, &Error{File: path, Err: err}
	}
	if err := validation.Struct(validate, &spec); err != nil {
		return nil, &Error{File: path, Err: err}
	}

	f := &File{Path: path, Package: spec.Package, Imports: spec.Imports}
	seen := map[string]string{}
	for _, ts := range spec.Templates {
		t, err := parseTemplate(ts)
		if err != nil {
			return nil, &Error{File: path, Template: ts.Name, Err: err}
		}
		if prev, ok := seen[t.Name]; ok {
			return nil, &Error{File: path, Template: ts.Name, Err: fmt.Errorf("%w: function %s already generated for %q", ErrDuplicateTemplate, t.Name, prev)}
		}
		seen[t.Name] = ts.Name
		f.Templates = append(f.Templates, t)
	}
	return f, nil
}

func parseTemplate(ts templateSpec) (Template, error) {
	name, err := FuncName(ts.Name)
	if err != nil {
		return Template{}, err
	}

	params := make([]compiler.Param, 0, len(ts.Params))
	for _, p := range ts.Params {
		param, err := parseParam(p)
		if err != nil {
			return Template{}, err
		}
		params = append(params, param)
	}

	if ts.Node.Kind == 0 {
		return Template{}, fmt.Errorf("node is required")
	}
	node, err := decodeNode(&ts.Node)
	if err != nil {
		return Template{}, err
	}

	return Template{
		Template: compiler.Template{
			Name:   name,
			Params: params,
			Types:  ts.Types,
			Node:   node,
		},
		Source: ts.Name,
		Sample: ts.Sample,
	}, nil
}

// FuncName turns a template name such as "todo item" or "todo-item" into
// an exported Go function name ("TodoItem")
func FuncName(name string) (string, error) {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	out := b.String()
	if out == "" || !unicode.IsUpper([]rune(out)[0]) {
		return "", fmt.Errorf("template name %q does not start with a letter", name)
	}
	return out, nil
}

// parseParam splits "items []Item" into name and type
func parseParam(p string) (compiler.Param, error) {
	p = strings.TrimSpace(p)
	i := strings.IndexFunc(p, unicode.IsSpace)
	if i < 0 {
		return compiler.Param{}, fmt.Errorf("param %q needs a name and a type", p)
	}
	return compiler.Param{Name: p[:i], Type: strings.TrimSpace(p[i:])}, nil
}

// CompilerFile returns the generator input for f
func (f *File) CompilerFile(runtimeImport, domImport string) compiler.File {
	cf := compiler.File{
		Package:       f.Package,
		Source:        filepath.Base(f.Path),
		Imports:       f.Imports,
		RuntimeImport: runtimeImport,
		DOMImport:     domImport,
	}
	for _, t := range f.Templates {
		cf.Templates = append(cf.Templates, t.Template)
	}
	return cf
}

// Find returns the description files with the given suffix below dirs,
// sorted and without duplicates
func Find(dirs []string, suffix string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && (strings.HasPrefix(d.Name(), ".") || d.Name() == "vendor" || d.Name() == "testdata") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), suffix) && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", dir, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath returns the generated file path for a description file
func OutputPath(path, suffix string) string {
	return strings.TrimSuffix(path, suffix) + ".dom.go"
}
