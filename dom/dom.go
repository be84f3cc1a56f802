// Package dom declares the host document that element trees are built in.
//
// Generated code and the livedom interpreter only talk to these interfaces;
// htmldom provides an implementation backed by golang.org/x/net/html.
package dom

// SVGNamespace is the namespace used for tags in the SVG tag set
const SVGNamespace = "http://www.w3.org/2000/svg"

// Node is any node that can be appended to an element
type Node interface {
	NodeName() string
}

// Text is a text node
type Text interface {
	Node
	Data() string
}

// Element is a live element in a document
type Element interface {
	Node
	TagName() string

	ID() string
	SetID(id string)
	ClassName() string
	SetClassName(class string)

	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)

	AddEventListener(event string, handler interface{})
	RemoveEventListener(event string)

	// Property and SetProperty hold host-side values that are not rendered.
	Property(name string) interface{}
	SetProperty(name string, value interface{})

	TextContent() string
	SetTextContent(text string)

	ChildNodes() []Node
	AppendChild(child Node)
	RemoveChild(child Node)
	ReplaceChild(newChild, oldChild Node)
}

// Document creates nodes
type Document interface {
	CreateElement(tag string) Element
	CreateElementNS(ns, tag string) Element
	// CreateCustomElement creates a customized built-in element, tag extended by is.
	CreateCustomElement(tag, is string) Element
	CreateTextNode(text string) Text
}
