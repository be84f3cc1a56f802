package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/livefir/livedom/compiler"
	"github.com/livefir/livedom/internal/config"
	"github.com/livefir/livedom/internal/loader"
)

// ErrStale is returned by gen --check when a generated file is out of date
var ErrStale = errors.New("generated files are out of date")

// Gen compiles every description file of a project into Go source.
//
//	livedomc gen [dir] [--check]
//
// With --check nothing is written; the command fails if any output file
// differs from what would be generated.
func Gen(w io.Writer, args []string) error {
	dir := "."
	check := false
	var rest []string
	for _, a := range args {
		switch a {
		case "--check":
			check = true
		default:
			rest = append(rest, a)
		}
	}
	if len(rest) > 1 {
		return fmt.Errorf("too many arguments: %v", rest)
	}
	if len(rest) == 1 {
		dir = rest[0]
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	files, err := loader.Find(cfg.SearchPaths(dir), cfg.Suffix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("no %s files found", cfg.Suffix)))
		return nil
	}

	stale := 0
	for _, path := range files {
		out := loader.OutputPath(path, cfg.Suffix)
		src, err := generate(path, cfg)
		if err != nil {
			return err
		}

		if check {
			existing, err := os.ReadFile(out)
			if err != nil || !bytes.Equal(existing, src) {
				stale++
				fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("stale"), rel(dir, out))
			}
			continue
		}

		if err := os.WriteFile(out, src, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		if cfg.Verbose {
			log.Printf("gen: %s -> %s (%d bytes)", path, out, len(src))
		}
		fmt.Fprintf(w, "%s %s\n", successStyle.Render("wrote"), rel(dir, out))
	}

	if stale > 0 {
		return fmt.Errorf("%w: %d file(s), run livedomc gen", ErrStale, stale)
	}
	return nil
}

func generate(path string, cfg *config.Config) ([]byte, error) {
	f, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	src, err := compiler.GenerateFile(f.CompilerFile(cfg.RuntimeImport, cfg.DOMImport), compiler.Options{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

func rel(base, path string) string {
	if r, err := filepath.Rel(base, path); err == nil {
		return r
	}
	return path
}
