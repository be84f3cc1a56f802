package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/livedom/internal/config"
)

const cardFile = `package: views
templates:
  - name: card
    params: ["title string"]
    sample: {title: Hello}
    node: [div.card, [h2, !text title]]
  - name: empty state
    node: [p.empty, nothing here]
`

func writeCard(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "card.dom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cardFile), 0644))
	return path
}

func TestGen(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir)

	var out bytes.Buffer
	require.NoError(t, Gen(&out, []string{dir}))
	assert.Contains(t, out.String(), "card.dom.go")

	src, err := os.ReadFile(filepath.Join(dir, "card.dom.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package views")
	assert.Contains(t, string(src), "func Card(doc dom.Document, title string) (el dom.Element, err error) {")
	assert.Contains(t, string(src), "func EmptyState(doc dom.Document) (el dom.Element, err error) {")

	out.Reset()
	assert.NoError(t, Gen(&out, []string{dir, "--check"}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.dom.go"), []byte("package views\n"), 0644))
	err = Gen(&out, []string{"--check", dir})
	assert.ErrorIs(t, err, ErrStale)
	assert.Contains(t, out.String(), "stale")
}

func TestGen_ConfigAndErrors(t *testing.T) {
	dir := t.TempDir()
	views := filepath.Join(dir, "views")
	require.NoError(t, os.MkdirAll(views, 0755))
	writeCard(t, views)
	// outside the configured template paths
	writeCard(t, dir)

	cfg := config.DefaultConfig()
	cfg.TemplatePaths = []string{"views"}
	require.NoError(t, config.Save(dir, cfg))

	var out bytes.Buffer
	require.NoError(t, Gen(&out, []string{dir}))
	assert.FileExists(t, filepath.Join(views, "card.dom.go"))
	assert.NoFileExists(t, filepath.Join(dir, "card.dom.go"))

	require.NoError(t, os.WriteFile(filepath.Join(views, "bad.dom.yaml"), []byte("package: views\n"), 0644))
	assert.Error(t, Gen(&out, []string{dir}))

	assert.Error(t, Gen(&out, []string{dir, "extra"}))

	out.Reset()
	require.NoError(t, Gen(&out, []string{t.TempDir()}))
	assert.Contains(t, out.String(), "no .dom.yaml files found")
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := writeCard(t, dir)
	t.Chdir(dir)

	var out bytes.Buffer
	require.NoError(t, Render(&out, []string{path}))
	assert.Equal(t, "<div class=\"card\"><h2>Hello</h2></div>\n", out.String())

	out.Reset()
	require.NoError(t, Render(&out, []string{path, "empty state", "--minify"}))
	assert.Contains(t, out.String(), "nothing here")

	out.Reset()
	require.NoError(t, Render(&out, []string{path, "EmptyState"}))
	assert.Equal(t, "<p class=\"empty\">nothing here</p>\n", out.String())

	assert.Error(t, Render(&out, []string{path, "missing"}))
	assert.Error(t, Render(&out, nil))
	assert.Error(t, Render(&out, []string{filepath.Join(dir, "missing.dom.yaml")}))
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeCard(t, dir)

	hub, err := newPreviewHub([]string{path}, config.DefaultConfig())
	require.NoError(t, err)
	defer hub.Close()

	html, err := hub.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "Hello")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watch(ctx, []string{path}, hub, 10*time.Millisecond)

	changed := bytes.Replace([]byte(cardFile), []byte("{title: Hello}"), []byte("{title: Goodbye}"), 1)
	require.NoError(t, os.WriteFile(path, changed, 0644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	assert.Eventually(t, func() bool {
		html, err := hub.HTML()
		return err == nil && bytes.Contains([]byte(html), []byte("Goodbye"))
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll("views", 0755))

	var out bytes.Buffer
	require.NoError(t, Config(&out, []string{"init"}))
	assert.FileExists(t, filepath.Join(dir, config.ConfigFileName))
	assert.Error(t, Config(&out, []string{"init"}))

	require.NoError(t, Config(&out, []string{"add-path", "views"}))
	cfg, err := config.Load(".")
	require.NoError(t, err)
	require.Len(t, cfg.TemplatePaths, 1)
	assert.True(t, filepath.IsAbs(cfg.TemplatePaths[0]))

	out.Reset()
	require.NoError(t, Config(&out, []string{"list"}))
	assert.Contains(t, out.String(), cfg.TemplatePaths[0])
	assert.Contains(t, out.String(), ".dom.yaml")

	require.NoError(t, Config(&out, []string{"remove-path", "views"}))
	cfg, err = config.Load(".")
	require.NoError(t, err)
	assert.Empty(t, cfg.TemplatePaths)

	assert.Error(t, Config(&out, []string{"remove-path", "views"}))
	assert.Error(t, Config(&out, []string{"add-path"}))
	assert.Error(t, Config(&out, []string{"bogus"}))
	assert.Error(t, Config(&out, nil))
}
