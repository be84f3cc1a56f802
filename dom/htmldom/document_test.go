package htmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/livedom/dom"
)

func TestElementAttributes(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")

	el.SetID("main")
	el.SetClassName("a b")
	el.SetAttribute("title", "hello")
	el.SetAttribute("title", "again")

	assert.Equal(t, "div", el.TagName())
	assert.Equal(t, "DIV", el.NodeName())
	assert.Equal(t, "main", el.ID())
	assert.Equal(t, "a b", el.ClassName())

	v, ok := el.Attribute("title")
	require.True(t, ok)
	assert.Equal(t, "again", v)

	el.RemoveAttribute("title")
	_, ok = el.Attribute("title")
	assert.False(t, ok)

	el.SetClassName("")
	_, ok = el.Attribute("class")
	assert.False(t, ok, "empty class name removes the attribute")

	assert.Equal(t, `<div id="main"></div>`, MustRender(el))
}

func TestElementChildren(t *testing.T) {
	doc := New()
	ul := doc.CreateElement("ul")
	a := doc.CreateElement("li")
	a.SetTextContent("a")
	b := doc.CreateElement("li")
	b.SetTextContent("b")

	ul.AppendChild(a)
	ul.AppendChild(b)
	require.Len(t, ul.ChildNodes(), 2)
	assert.Equal(t, "ab", ul.TextContent())

	c := doc.CreateTextNode("c")
	ul.ReplaceChild(c, a)
	assert.Equal(t, "cb", ul.TextContent())
	assert.Equal(t, dom.Node(c), ul.ChildNodes()[0])

	ul.RemoveChild(b)
	assert.Equal(t, "c", ul.TextContent())

	// Appending an attached node moves it
	other := doc.CreateElement("ol")
	other.AppendChild(c)
	assert.Empty(t, ul.ChildNodes())
	assert.Equal(t, "c", other.TextContent())

	ul.SetTextContent("replaced")
	assert.Equal(t, "<ul>replaced</ul>", MustRender(ul))
	ul.SetTextContent("")
	assert.Empty(t, ul.ChildNodes())
}

func TestListenersAndProperties(t *testing.T) {
	doc := New()
	btn := doc.CreateElement("button")

	clicks := 0
	btn.AddEventListener("click", func() { clicks++ })
	var got Event
	btn.AddEventListener("input", func(e Event) { got = e })

	assert.True(t, doc.Dispatch(btn, "click", nil))
	assert.True(t, doc.Dispatch(btn, "input", "x"))
	assert.False(t, doc.Dispatch(btn, "submit", nil))
	assert.Equal(t, 1, clicks)
	assert.Equal(t, "input", got.Type)
	assert.Equal(t, "x", got.Detail)
	assert.Len(t, doc.Listeners(btn), 2)

	btn.RemoveEventListener("click")
	assert.False(t, doc.Dispatch(btn, "click", nil))

	btn.SetProperty("k", 1)
	assert.Equal(t, 1, btn.Property("k"))
	assert.Nil(t, btn.Property("missing"))
	assert.Equal(t, "<button></button>", MustRender(btn), "listeners and properties are not rendered")
}

func TestNamespacedAndCustomElements(t *testing.T) {
	doc := New()

	svg := doc.CreateElementNS(dom.SVGNamespace, "svg")
	circle := doc.CreateElementNS(dom.SVGNamespace, "circle")
	circle.SetAttribute("r", "4")
	svg.AppendChild(circle)
	assert.Equal(t, `<svg><circle r="4"></circle></svg>`, MustRender(svg))

	custom := doc.CreateCustomElement("button", "fancy-button")
	v, ok := custom.Attribute("is")
	require.True(t, ok)
	assert.Equal(t, "fancy-button", v)
}

func TestRenderMinify(t *testing.T) {
	doc := New()
	p := doc.CreateElement("p")
	p.AppendChild(doc.CreateTextNode("  hello   world  "))

	out, err := Render(p, WithMinify())
	require.NoError(t, err)
	assert.Equal(t, "<p>hello world</p>", out)

	_, err = Render(nil)
	assert.Error(t, err)
}

func TestFindByID(t *testing.T) {
	doc := New()
	root := doc.CreateElement("div")
	list := doc.CreateElement("ul")
	item := doc.CreateElement("li")
	item.SetID("second")
	list.AppendChild(doc.CreateElement("li"))
	list.AppendChild(item)
	root.AppendChild(list)

	found, ok := doc.FindByID(root, "second")
	require.True(t, ok)
	assert.Equal(t, "li", found.TagName())

	found.SetTextContent("here")
	assert.Equal(t, "here", root.TextContent())

	_, ok = doc.FindByID(root, "missing")
	assert.False(t, ok)
	_, ok = doc.FindByID(root, "")
	assert.False(t, ok)

	root.SetID("top")
	found, ok = doc.FindByID(root, "top")
	require.True(t, ok)
	assert.Equal(t, "div", found.TagName())
}
