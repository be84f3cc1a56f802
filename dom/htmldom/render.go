package htmldom

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	nethtml "golang.org/x/net/html"

	"github.com/livefir/livedom/dom"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
	})
	return minifier
}

// RenderOption configures Render
type RenderOption func(*renderConfig)

type renderConfig struct {
	minify bool
}

// WithMinify collapses insignificant whitespace in the output
func WithMinify() RenderOption {
	return func(c *renderConfig) { c.minify = true }
}

// Render serializes a node created by a Document, including the element
// itself (outer HTML).
func Render(n dom.Node, opts ...RenderOption) (string, error) {
	var cfg renderConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	hn, ok := unwrap(n)
	if !ok {
		return "", fmt.Errorf("htmldom: cannot render %T", n)
	}

	var buf bytes.Buffer
	if err := nethtml.Render(&buf, hn); err != nil {
		return "", fmt.Errorf("htmldom: render failed: %w", err)
	}
	out := buf.String()

	if cfg.minify && strings.Contains(out, "<") {
		minified, err := getMinifier().String("text/html", out)
		if err != nil {
			// Fall back to the unminified markup
			return out, nil
		}
		return minified, nil
	}
	return out, nil
}

// MustRender is Render for tests and examples; it panics on error
func MustRender(n dom.Node, opts ...RenderOption) string {
	s, err := Render(n, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
