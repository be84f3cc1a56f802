// Package htmldom implements dom.Document on top of golang.org/x/net/html
// node trees, so that element trees can be built, updated and rendered on
// the server.
package htmldom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/livefir/livedom/dom"
)

// Document owns the host-side state of the nodes it creates: event
// listeners and properties are kept here rather than on the html.Node.
// It is not safe for concurrent use.
type Document struct {
	listeners map[*html.Node]map[string]interface{}
	props     map[*html.Node]map[string]interface{}
}

// New creates an empty document
func New() *Document {
	return &Document{
		listeners: make(map[*html.Node]map[string]interface{}),
		props:     make(map[*html.Node]map[string]interface{}),
	}
}

// CreateElement implements dom.Document
func (d *Document) CreateElement(tag string) dom.Element {
	return Element{n: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}, doc: d}
}

// CreateElementNS implements dom.Document. The SVG namespace maps to the
// "svg" foreign namespace used by the html package.
func (d *Document) CreateElementNS(ns, tag string) dom.Element {
	if ns == dom.SVGNamespace {
		ns = "svg"
	}
	return Element{n: &html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		Namespace: ns,
	}, doc: d}
}

// CreateCustomElement implements dom.Document
func (d *Document) CreateCustomElement(tag, is string) dom.Element {
	el := d.CreateElement(tag)
	el.SetAttribute("is", is)
	return el
}

// CreateTextNode implements dom.Document
func (d *Document) CreateTextNode(text string) dom.Text {
	return Text{n: &html.Node{Type: html.TextNode, Data: text}}
}

// Listeners returns a copy of the listeners registered on el
func (d *Document) Listeners(el dom.Element) map[string]interface{} {
	n, ok := unwrap(el)
	if !ok {
		return nil
	}
	out := make(map[string]interface{}, len(d.listeners[n]))
	for k, v := range d.listeners[n] {
		out[k] = v
	}
	return out
}

// Event is passed to listeners registered as func(Event)
type Event struct {
	Type   string
	Target dom.Element
	Detail interface{}
}

// Dispatch invokes the listener registered on el for event. It reports
// whether a listener with a supported signature was found.
func (d *Document) Dispatch(el dom.Element, event string, detail interface{}) bool {
	n, ok := unwrap(el)
	if !ok {
		return false
	}
	switch h := d.listeners[n][event].(type) {
	case func():
		h()
	case func(Event):
		h(Event{Type: event, Target: el, Detail: detail})
	default:
		return false
	}
	return true
}

// FindByID returns the first element below and including root whose id is id
func (d *Document) FindByID(root dom.Element, id string) (dom.Element, bool) {
	n, ok := unwrap(root)
	if !ok || id == "" {
		return nil, false
	}
	found := findByID(n, id)
	if found == nil {
		return nil, false
	}
	return Element{n: found, doc: d}, true
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// Element wraps an element html.Node
type Element struct {
	n   *html.Node
	doc *Document
}

// Text wraps a text html.Node
type Text struct {
	n *html.Node
}

// Node returns the underlying html node
func (e Element) Node() *html.Node { return e.n }

func (e Element) NodeName() string { return strings.ToUpper(e.n.Data) }

func (e Element) TagName() string { return e.n.Data }

func (e Element) ID() string {
	v, _ := e.Attribute("id")
	return v
}

func (e Element) SetID(id string) { e.SetAttribute("id", id) }

func (e Element) ClassName() string {
	v, _ := e.Attribute("class")
	return v
}

func (e Element) SetClassName(class string) {
	if class == "" {
		e.RemoveAttribute("class")
		return
	}
	e.SetAttribute("class", class)
}

func (e Element) Attribute(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e Element) SetAttribute(name, value string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e Element) RemoveAttribute(name string) {
	attrs := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.n.Attr = attrs
}

func (e Element) AddEventListener(event string, handler interface{}) {
	m := e.doc.listeners[e.n]
	if m == nil {
		m = make(map[string]interface{})
		e.doc.listeners[e.n] = m
	}
	m[event] = handler
}

func (e Element) RemoveEventListener(event string) {
	delete(e.doc.listeners[e.n], event)
}

func (e Element) Property(name string) interface{} {
	return e.doc.props[e.n][name]
}

func (e Element) SetProperty(name string, value interface{}) {
	m := e.doc.props[e.n]
	if m == nil {
		m = make(map[string]interface{})
		e.doc.props[e.n] = m
	}
	m[name] = value
}

func (e Element) TextContent() string {
	var b strings.Builder
	collectText(&b, e.n)
	return b.String()
}

func collectText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			collectText(b, c)
		}
	}
}

func (e Element) SetTextContent(text string) {
	for c := e.n.FirstChild; c != nil; c = e.n.FirstChild {
		e.n.RemoveChild(c)
	}
	if text != "" {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func (e Element) ChildNodes() []dom.Node {
	var out []dom.Node
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if w := e.doc.wrap(c); w != nil {
			out = append(out, w)
		}
	}
	return out
}

func (e Element) AppendChild(child dom.Node) {
	c, ok := unwrap(child)
	if !ok {
		return
	}
	detach(c)
	e.n.AppendChild(c)
}

func (e Element) RemoveChild(child dom.Node) {
	c, ok := unwrap(child)
	if !ok || c.Parent != e.n {
		return
	}
	e.n.RemoveChild(c)
}

func (e Element) ReplaceChild(newChild, oldChild dom.Node) {
	nc, ok := unwrap(newChild)
	oc, ok2 := unwrap(oldChild)
	if !ok || !ok2 || oc.Parent != e.n {
		return
	}
	detach(nc)
	e.n.InsertBefore(nc, oc)
	e.n.RemoveChild(oc)
}

func (t Text) NodeName() string { return "#text" }

func (t Text) Data() string { return t.n.Data }

// Node returns the underlying html node
func (t Text) Node() *html.Node { return t.n }

func (d *Document) wrap(n *html.Node) dom.Node {
	switch n.Type {
	case html.ElementNode:
		return Element{n: n, doc: d}
	case html.TextNode:
		return Text{n: n}
	}
	return nil
}

func unwrap(n dom.Node) (*html.Node, bool) {
	switch x := n.(type) {
	case Element:
		return x.n, x.n != nil
	case *Element:
		if x == nil {
			return nil, false
		}
		return x.n, x.n != nil
	case Text:
		return x.n, x.n != nil
	case *Text:
		if x == nil {
			return nil, false
		}
		return x.n, x.n != nil
	}
	return nil, false
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}
