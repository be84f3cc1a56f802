// Package live serves a bound element to browsers over websockets.
//
// A Hub owns one element built from a projection, applies updates to it
// through the livedom update engine, and pushes the rendered HTML to every
// connected client after each update. Clients may send events back; the
// hub dispatches them to the listener registered on the element with the
// given id.
package live

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/dom"
	"github.com/livefir/livedom/dom/htmldom"
	"github.com/livefir/livedom/internal/metrics"
	"github.com/livefir/livedom/view"
)

// Message types exchanged with clients
const (
	TypeInit   = "init"
	TypeUpdate = "update"
	TypeEvent  = "event"
	TypeError  = "error"
)

// Message is the wire format in both directions
type Message struct {
	Type string `json:"type"`
	// Seq counts updates pushed by the hub
	Seq  uint64 `json:"seq,omitempty"`
	HTML string `json:"html,omitempty"`

	// Event messages name the target element and event
	Target string          `json:"target,omitempty"`
	Event  string          `json:"event,omitempty"`
	Detail json.RawMessage `json:"detail,omitempty"`

	Error string `json:"error,omitempty"`
}

// HubConfig configures a Hub
type HubConfig struct {
	Upgrader *websocket.Upgrader
	// Minify renders minified HTML
	Minify bool
	// Verbose logs every update and event
	Verbose bool
	// Interceptor wraps each update inside the hub's own interceptor
	Interceptor livedom.Interceptor
}

// HubOption is a functional option for configuring NewHub
type HubOption func(*HubConfig)

// WithMinify enables minified HTML
func WithMinify() HubOption {
	return func(c *HubConfig) { c.Minify = true }
}

// WithVerbose enables debug logging
func WithVerbose(v bool) HubOption {
	return func(c *HubConfig) { c.Verbose = v }
}

// WithUpgrader replaces the default upgrader, which accepts any origin
func WithUpgrader(u *websocket.Upgrader) HubOption {
	return func(c *HubConfig) { c.Upgrader = u }
}

// WithInterceptor wraps updates with ic
func WithInterceptor(ic livedom.Interceptor) HubOption {
	return func(c *HubConfig) { c.Interceptor = ic }
}

// client is one websocket connection
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub serves one bound element. It is safe for concurrent use; updates
// and events are serialized.
type Hub[D any] struct {
	config  HubConfig
	doc     *htmldom.Document
	binding *livedom.Binding[D]
	metrics *metrics.Collector

	mu      sync.Mutex
	clients map[*client]bool
	seq     uint64
}

// NewHub builds the element for initial and returns a hub serving it
func NewHub[D any](project func(D) view.Node, initial D, opts ...HubOption) (*Hub[D], error) {
	config := HubConfig{
		Upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(&config)
	}

	doc := htmldom.New()
	binding, err := livedom.Instantiate(doc, project, initial)
	if err != nil {
		return nil, fmt.Errorf("failed to build initial element: %w", err)
	}

	return &Hub[D]{
		config:  config,
		doc:     doc,
		binding: binding,
		metrics: metrics.NewCollector(),
		clients: make(map[*client]bool),
	}, nil
}

// Element returns the served element. Callers must not modify it while
// the hub is in use.
func (h *Hub[D]) Element() dom.Element {
	return h.binding.Element()
}

// Data returns the data of the latest update
func (h *Hub[D]) Data() D {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.binding.Previous()
}

// HTML renders the current element
func (h *Hub[D]) HTML() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.render()
}

func (h *Hub[D]) render() (string, error) {
	var opts []htmldom.RenderOption
	if h.config.Minify {
		opts = append(opts, htmldom.WithMinify())
	}
	return htmldom.Render(h.binding.Element(), opts...)
}

// Metrics returns the hub's activity counters
func (h *Hub[D]) Metrics() metrics.Snapshot {
	return h.metrics.Snapshot()
}

// Clients returns the number of connected clients
func (h *Hub[D]) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Update applies next to the element and pushes the result to clients.
// The push happens once, after the whole reconcile; an interceptor that
// skips the root update also skips the push.
func (h *Hub[D]) Update(next D) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	root := h.binding.Element()
	inner := h.config.Interceptor
	ran := false
	ic := func(op string, ctx livedom.InvocationContext, proceed func()) {
		if ctx.Target == root {
			wrapped := proceed
			proceed = func() {
				ran = true
				wrapped()
			}
		}
		if inner != nil {
			inner(op, ctx, proceed)
			return
		}
		proceed()
	}

	if err := h.binding.Update(next, livedom.UpdateConfig{Interceptor: ic}); err != nil {
		log.Printf("live: update failed: %v", err)
		h.metrics.UpdateFailed()
		h.sendAll(Message{Type: TypeError, Error: err.Error()})
		return err
	}
	if !ran {
		h.metrics.UpdateSkipped()
		return nil
	}
	h.broadcast()
	return nil
}

// broadcast pushes the current HTML; the caller holds h.mu
func (h *Hub[D]) broadcast() {
	out, err := h.render()
	if err != nil {
		log.Printf("live: render failed: %v", err)
		return
	}
	h.seq++
	if h.config.Verbose {
		log.Printf("live: update %d to %d client(s), %d bytes", h.seq, len(h.clients), len(out))
	}
	h.metrics.UpdatePushed(len(h.clients), len(out))
	h.sendAll(Message{Type: TypeUpdate, Seq: h.seq, HTML: out})
}

// sendAll writes msg to every client, dropping the ones that fail;
// the caller holds h.mu
func (h *Hub[D]) sendAll(msg Message) {
	for c := range h.clients {
		if err := c.send(msg); err != nil {
			log.Printf("live: write to %s failed: %v", c.conn.RemoteAddr(), err)
			h.drop(c)
			c.conn.Close()
		}
	}
}

// drop removes c if it is still registered; the caller holds h.mu
func (h *Hub[D]) drop(c *client) {
	if h.clients[c] {
		delete(h.clients, c)
		h.metrics.ClientDisconnected()
	}
}

// ServeHTTP upgrades websocket requests and serves the current HTML to
// plain GET requests
func (h *Hub[D]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		h.handleWebSocket(w, r)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	out, err := h.HTML()
	if err != nil {
		log.Printf("live: render failed: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Method == http.MethodHead {
		return
	}
	fmt.Fprint(w, out)
}

func (h *Hub[D]) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.config.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	if err := h.register(c); err != nil {
		log.Printf("live: failed to send initial HTML: %v", err)
		return
	}
	defer h.unregister(c)

	if h.config.Verbose {
		log.Printf("live: client connected from %s", conn.RemoteAddr())
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("live: websocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("live: failed to parse message: %v", err)
			continue
		}
		if msg.Type != TypeEvent {
			continue
		}
		if err := h.dispatch(msg); err != nil {
			log.Printf("live: %v", err)
			h.metrics.EventFailed()
			if err := c.send(Message{Type: TypeError, Error: err.Error()}); err != nil {
				break
			}
		}
	}

	if h.config.Verbose {
		log.Printf("live: client disconnected")
	}
}

// register adds c and sends it the current HTML under the lock, so that it
// sees every later update
func (h *Hub[D]) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	out, err := h.render()
	if err != nil {
		return err
	}
	if err := c.send(Message{Type: TypeInit, Seq: h.seq, HTML: out}); err != nil {
		return err
	}
	h.clients[c] = true
	h.metrics.ClientConnected()
	return nil
}

func (h *Hub[D]) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// dispatch runs the listener for an event message. The listener is called
// without the lock held so that it can call Update.
func (h *Hub[D]) dispatch(msg Message) error {
	h.mu.Lock()
	el, ok := h.doc.FindByID(h.binding.Element(), msg.Target)
	var listener interface{}
	if ok {
		listener = h.doc.Listeners(el)[msg.Event]
	}
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("event %q: no element with id %q", msg.Event, msg.Target)
	}
	if h.config.Verbose {
		log.Printf("live: event %s on #%s", msg.Event, msg.Target)
	}

	switch fn := listener.(type) {
	case func():
		fn()
	case func(htmldom.Event):
		var detail interface{}
		if len(msg.Detail) > 0 {
			if err := json.Unmarshal(msg.Detail, &detail); err != nil {
				return fmt.Errorf("event %q: bad detail: %w", msg.Event, err)
			}
		}
		fn(htmldom.Event{Type: msg.Event, Target: el, Detail: detail})
	case nil:
		return fmt.Errorf("event %q: no listener on #%s", msg.Event, msg.Target)
	default:
		return fmt.Errorf("event %q: unsupported listener %T", msg.Event, listener)
	}
	h.metrics.EventDispatched()
	return nil
}

// Close disconnects all clients
func (h *Hub[D]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
		h.drop(c)
	}
}
