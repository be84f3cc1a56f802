package commands

import (
	"fmt"
	"io"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/dom/htmldom"
	"github.com/livefir/livedom/internal/config"
	"github.com/livefir/livedom/internal/loader"
	"github.com/livefir/livedom/view"
)

// Render prints the HTML of a template built from its sample data.
//
//	livedomc render <file> [template] [--minify]
func Render(w io.Writer, args []string) error {
	minify := false
	var rest []string
	for _, a := range args {
		if a == "--minify" {
			minify = true
			continue
		}
		rest = append(rest, a)
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	n, err := preview(rest)
	if err != nil {
		return err
	}
	el, err := livedom.CreateElement(htmldom.New(), n)
	if err != nil {
		return fmt.Errorf("failed to build preview: %w", err)
	}

	var opts []htmldom.RenderOption
	if minify || cfg.Minify {
		opts = append(opts, htmldom.WithMinify())
	}
	out, err := htmldom.Render(el, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

// preview loads args[0] and returns the sample preview of the template
// named by args[1], or of the first template
func preview(args []string) (view.Node, error) {
	if len(args) < 1 || len(args) > 2 {
		return view.Node{}, fmt.Errorf("usage: <file> [template]")
	}
	f, err := loader.LoadFile(args[0])
	if err != nil {
		return view.Node{}, err
	}
	name := ""
	if len(args) == 2 {
		name = args[1]
	}
	t, err := pick(f, name)
	if err != nil {
		return view.Node{}, err
	}
	return t.Preview()
}

func pick(f *loader.File, name string) (loader.Template, error) {
	if name == "" {
		return f.Templates[0], nil
	}
	for _, t := range f.Templates {
		if t.Name == name || t.Source == name {
			return t, nil
		}
	}
	return loader.Template{}, fmt.Errorf("%s: no template named %q", f.Path, name)
}
