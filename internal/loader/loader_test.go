package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/compiler"
	"github.com/livefir/livedom/dom/htmldom"
	"github.com/livefir/livedom/internal/classify"
	"github.com/livefir/livedom/internal/validation"
	"github.com/livefir/livedom/view"
)

const todoFile = `
package: views
imports: [strings]
templates:
  - name: todo list
    params: ["title string", "items []Item"]
    types: {item.Text: string}
    sample:
      title: Groceries
      "len(items)": 2
      "len(items) == 0": false
      items:
        - {Text: milk, Done: true}
        - {Text: eggs, Done: false}
    node:
      - section#todos.panel
      - {data-count: !expr len(items), hidden: false}
      - [h1, !text title]
      - - ul
        - !for
          range: _, item := range items
          do:
            - li
            - {class: !expr item.Class, on-click: !expr item.Toggle}
            - !expr item.Text
            - !when {cond: item.Done, do: [span.done, "done"]}
      - !if {cond: len(items) == 0, then: [p.empty, nothing to do], else: !list [[hr], footer]}
  - name: badge
    node: [span.badge, !attrs props, 3]
`

func TestParse(t *testing.T) {
	f, err := Parse("todo.dom.yaml", []byte(todoFile))
	require.NoError(t, err)

	assert.Equal(t, "views", f.Package)
	assert.Equal(t, []string{"strings"}, f.Imports)
	require.Len(t, f.Templates, 2)

	list := f.Templates[0]
	assert.Equal(t, "TodoList", list.Name)
	assert.Equal(t, "todo list", list.Source)
	assert.Equal(t, []compiler.Param{{Name: "title", Type: "string"}, {Name: "items", Type: "[]Item"}}, list.Params)
	assert.Equal(t, map[string]string{"item.Text": "string"}, list.Types)

	n := list.Node
	assert.Equal(t, "section#todos.panel", n.Selector)
	assert.Equal(t, view.Attrs{"data-count": view.Dyn("len(items)"), "hidden": false}, n.Attrs)
	require.Len(t, n.Children, 3)
	assert.Equal(t, view.H("h1", view.Text("title")), n.Children[0])

	ul := n.Children[1].(view.Node)
	loop := ul.Children[0].(view.For)
	assert.Equal(t, "_, item := range items", loop.Range)
	li := loop.Body.(view.Node)
	assert.Equal(t, view.Attrs{"class": view.Dyn("item.Class"), "on-click": view.Dyn("item.Toggle")}, li.Attrs)
	assert.Equal(t, view.Dyn("item.Text"), li.Children[0])
	assert.Equal(t, view.When{Cond: "item.Done", Body: []interface{}{view.H("span.done", "done")}}, li.Children[1])

	cond := n.Children[2].(view.If)
	assert.Equal(t, "len(items) == 0", cond.Cond)
	assert.Equal(t, view.H("p.empty", "nothing to do"), cond.Then)
	assert.Equal(t, view.List{view.H("hr"), "footer"}, cond.Else)

	badge := f.Templates[1]
	assert.Equal(t, "Badge", badge.Name)
	require.NotNil(t, badge.Node.AttrsExpr)
	assert.Equal(t, "props", badge.Node.AttrsExpr.Src)
	assert.Equal(t, []interface{}{3}, badge.Node.Children)
}

func TestParse_Generates(t *testing.T) {
	f, err := Parse("todo.dom.yaml", []byte(todoFile))
	require.NoError(t, err)

	out, err := compiler.GenerateFile(f.CompilerFile("", ""), compiler.Options{})
	require.NoError(t, err)
	src := string(out)
	assert.Contains(t, src, "from todo.dom.yaml. DO NOT EDIT.")
	assert.Contains(t, src, "func TodoList(doc dom.Document, title string, items []Item) (el dom.Element, err error) {")
	assert.Contains(t, src, "func Badge(doc dom.Document) (el dom.Element, err error) {")
	assert.Contains(t, src, "for _, item := range items {")
}

func TestPreview(t *testing.T) {
	f, err := Parse("todo.dom.yaml", []byte(todoFile))
	require.NoError(t, err)

	n, err := f.Templates[0].Preview()
	require.NoError(t, err)
	el, err := livedom.CreateElement(htmldom.New(), n)
	require.NoError(t, err)

	html, err := htmldom.Render(el)
	require.NoError(t, err)
	assert.Equal(t,
		`<section id="todos" data-count="2" class="panel"><h1>Groceries</h1>`+
			`<ul><li>milk<span class="done">done</span></li><li>eggs</li></ul><hr/>footer</section>`,
		html)
}

func TestPreview_Unresolved(t *testing.T) {
	f, err := Parse("badge.dom.yaml", []byte(`
package: views
templates:
  - name: badge
    sample: {props: {title: hi, class: red}}
    node: [span.badge, !attrs props, !expr missing]
`))
	require.NoError(t, err)

	n, err := f.Templates[0].Preview()
	require.NoError(t, err)
	assert.Nil(t, n.AttrsExpr)
	assert.Equal(t, view.Attrs{"title": "hi", "class": "red"}, n.Attrs)

	_, err = livedom.CreateElement(htmldom.New(), n)
	assert.ErrorIs(t, err, livedom.ErrUnresolvedExpr)
}

func TestPreview_WhenArity(t *testing.T) {
	f, err := Parse("when.dom.yaml", []byte(`
package: views
templates:
  - name: pair
    params: ["ok bool"]
    sample: {ok: true}
    node: [div, !when {cond: ok, do: !list [a, b]}]
`))
	require.NoError(t, err)

	_, err = f.Templates[0].Preview()
	assert.ErrorIs(t, err, classify.ErrWhenArity)

	_, err = compiler.GenerateFile(f.CompilerFile("", ""), compiler.Options{})
	assert.ErrorIs(t, err, classify.ErrWhenArity, "preview and generated code reject the same template")
}

func TestParse_Sequences(t *testing.T) {
	tests := []struct {
		name string
		node string
		want []interface{}
	}{
		{"element", "[div, [my-widget, x]]", []interface{}{view.H("my-widget", "x")}},
		{"id only", "[div, ['#main', x]]", []interface{}{view.H("#main", "x")}},
		{"svg", "[div, [circle, {r: 1}]]", []interface{}{view.H("circle", view.Attrs{"r": 1})}},
		{"tagged text", "[div, !list [hello, world]]", []interface{}{view.List{"hello", "world"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse("seq.dom.yaml", []byte("package: views\ntemplates:\n  - name: a\n    node: "+tt.node+"\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Templates[0].Node.Children)
		})
	}

	_, err := Parse("seq.dom.yaml", []byte("package: views\ntemplates:\n  - name: a\n    node: [div, [hello, world]]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "!list")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "package: [\n"},
		{"no templates", "package: views\n"},
		{"missing name", "package: views\ntemplates:\n  - node: [div]\n"},
		{"missing node", "package: views\ntemplates:\n  - name: a\n"},
		{"node not a sequence", "package: views\ntemplates:\n  - name: a\n    node: div\n"},
		{"no selector", "package: views\ntemplates:\n  - name: a\n    node: [1, x]\n"},
		{"text sequence child", "package: views\ntemplates:\n  - name: a\n    node: [div, [hello, world]]\n"},
		{"text node head", "package: views\ntemplates:\n  - name: a\n    node: [hello world]\n"},
		{"untagged mapping child", "package: views\ntemplates:\n  - name: a\n    node: [div, x, {a: b}]\n"},
		{"nested attribute", "package: views\ntemplates:\n  - name: a\n    node: [div, {a: [b]}]\n"},
		{"unknown form key", "package: views\ntemplates:\n  - name: a\n    node: [div, !if {cond: x, then: y, otherwise: z}]\n"},
		{"missing form key", "package: views\ntemplates:\n  - name: a\n    node: [div, !for {range: _, x := range xs}]\n"},
		{"unknown tag", "package: views\ntemplates:\n  - name: a\n    node: [div, !js x]\n"},
		{"bad param", "package: views\ntemplates:\n  - name: a\n    params: [items]\n    node: [div]\n"},
		{"bad name", "package: views\ntemplates:\n  - name: \"9lives\"\n    node: [div]\n"},
		{"duplicate name", "package: views\ntemplates:\n  - name: a b\n    node: [div]\n  - name: a-b\n    node: [p]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.dom.yaml", []byte(tt.data))
			require.Error(t, err)

			var lerr *Error
			require.True(t, errors.As(err, &lerr), "expected *Error, got %T", err)
			assert.Equal(t, "bad.dom.yaml", lerr.File)
		})
	}
}

func TestParse_ErrorDetails(t *testing.T) {
	_, err := Parse("bad.dom.yaml", []byte("templates:\n  - node: [div]\n"))
	var multi validation.MultiError
	require.True(t, errors.As(err, &multi), "expected MultiError, got %v", err)
	fields := make([]string, 0, len(multi))
	for _, fe := range multi {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"package", "templates[0].name"}, fields)

	_, err = Parse("bad.dom.yaml", []byte("package: p\ntemplates:\n  - name: a\n    node: [div, x, {a: b}]\n"))
	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 4, serr.Line)

	_, err = Parse("bad.dom.yaml", []byte("package: p\ntemplates:\n  - name: a b\n    node: [div]\n  - name: A_B\n    node: [p]\n"))
	assert.ErrorIs(t, err, ErrDuplicateTemplate)
}

func TestFuncName(t *testing.T) {
	tests := map[string]string{
		"todo":          "Todo",
		"todo item":     "TodoItem",
		"todo-item":     "TodoItem",
		"todoItem":      "TodoItem",
		"user_card 2":   "UserCard2",
		"  spaced  out": "SpacedOut",
	}
	for in, want := range tests {
		got, err := FuncName(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}

	for _, bad := range []string{"", "---", "1st"} {
		_, err := FuncName(bad)
		assert.Error(t, err, bad)
	}
}

func TestFindAndOutputPath(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"a.dom.yaml",
		"nested/b.dom.yaml",
		"nested/ignored.yaml",
		".hidden/c.dom.yaml",
		"testdata/d.dom.yaml",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("package: p\n"), 0644))
	}

	found, err := Find([]string{dir, filepath.Join(dir, "nested")}, ".dom.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.dom.yaml"),
		filepath.Join(dir, "nested", "b.dom.yaml"),
	}, found)

	assert.Equal(t, filepath.Join(dir, "a.dom.go"), OutputPath(found[0], ".dom.yaml"))

	_, err = Find([]string{filepath.Join(dir, "missing")}, ".dom.yaml")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.dom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(todoFile), 0644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, "todo.dom.yaml", f.CompilerFile("", "").Source)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.dom.yaml"))
	assert.Error(t, err)
}
