package livedom

import (
	"github.com/livefir/livedom/dom"
	"github.com/livefir/livedom/view"
)

// OpUpdate is the operation kind passed to interceptors around an update
const OpUpdate = "update"

// InvocationContext describes the operation an interceptor wraps
type InvocationContext struct {
	Target dom.Element
}

// Interceptor wraps an operation. It must call next for the operation to
// take effect and may run code before and after it.
type Interceptor func(op string, ctx InvocationContext, next func())

func passThrough(_ string, _ InvocationContext, next func()) { next() }

// UpdateConfig configures a single update call
type UpdateConfig struct {
	Interceptor Interceptor
}

// State holds the data an element was last rendered from. It is owned by
// the caller; a Binding keeps its own unless Apply is given another one.
type State[D any] struct {
	Prev D
}

// Binding ties a constructed element to the projection that describes it.
// It is not safe for concurrent use; serialize updates per element.
type Binding[D any] struct {
	doc     dom.Document
	el      dom.Element
	project func(D) view.Node
	state   *State[D]
}

// BindUpdate returns a Binding for el, which must have been built from
// project(initial)
func BindUpdate[D any](doc dom.Document, el dom.Element, project func(D) view.Node, initial D) *Binding[D] {
	return &Binding[D]{
		doc:     doc,
		el:      el,
		project: project,
		state:   &State[D]{Prev: initial},
	}
}

// Instantiate builds the element for data and binds it for updates
func Instantiate[D any](doc dom.Document, project func(D) view.Node, data D) (*Binding[D], error) {
	el, err := CreateElement(doc, project(data))
	if err != nil {
		return nil, err
	}
	return BindUpdate(doc, el, project, data), nil
}

// Element returns the bound element
func (b *Binding[D]) Element() dom.Element {
	return b.el
}

// Previous returns the data the element was last updated with
func (b *Binding[D]) Previous() D {
	return b.state.Prev
}

// Update reconciles the element with next using the binding's own state
func (b *Binding[D]) Update(next D, cfg ...UpdateConfig) error {
	return b.Apply(b.state, next, cfg...)
}

// Apply reconciles the element from st.Prev to next under the configured
// interceptor, then stores next in st. The stored data advances even when
// the interceptor does not call through or the reconcile fails, so st
// always reflects the latest data the caller asked for.
func (b *Binding[D]) Apply(st *State[D], next D, cfg ...UpdateConfig) error {
	ic := Interceptor(passThrough)
	for _, c := range cfg {
		if c.Interceptor != nil {
			ic = c.Interceptor
		}
	}

	var err error
	ic(OpUpdate, InvocationContext{Target: b.el}, func() {
		err = Update(b.doc, b.el, b.project(st.Prev), b.project(next), ic)
	})
	st.Prev = next
	return err
}
