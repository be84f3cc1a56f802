package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/livefir/livedom/internal/config"
	"github.com/livefir/livedom/live"
	"github.com/livefir/livedom/view"
)

// DefaultAddr is the listen address of livedomc serve
const DefaultAddr = "localhost:8080"

// reloadInterval is how often serve checks the description file
const reloadInterval = 500 * time.Millisecond

// Serve hosts the sample preview of a template and pushes it to connected
// browsers whenever the description file changes.
//
//	livedomc serve <file> [template] [--addr host:port]
func Serve(w io.Writer, args []string) error {
	addr := DefaultAddr
	var rest []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--addr" && i+1 < len(args) {
			addr = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	hub, err := newPreviewHub(rest, cfg)
	if err != nil {
		return err
	}
	defer hub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go watch(ctx, rest, hub, reloadInterval)

	srv := &http.Server{Addr: addr, Handler: hub}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("serve: shutdown: %v", err)
		}
	}()

	fmt.Fprintf(w, "%s http://%s\n", labelStyle.Render("serving"), addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	snap := hub.Metrics()
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d client(s), %d update(s) pushed, %d event(s) in %s",
		snap.ClientsConnected, snap.UpdatesPushed, snap.EventsDispatched, snap.Uptime.Round(time.Second))))
	return nil
}

func newPreviewHub(args []string, cfg *config.Config) (*live.Hub[view.Node], error) {
	n, err := preview(args)
	if err != nil {
		return nil, err
	}
	opts := []live.HubOption{live.WithVerbose(cfg.Verbose)}
	if cfg.Minify {
		opts = append(opts, live.WithMinify())
	}
	return live.NewHub(func(n view.Node) view.Node { return n }, n, opts...)
}

// watch reloads the preview whenever the file's modification time changes.
// Load and build errors are logged and the last good preview stays up.
func watch(ctx context.Context, args []string, hub *live.Hub[view.Node], interval time.Duration) {
	path := args[0]
	var last time.Time
	if fi, err := os.Stat(path); err == nil {
		last = fi.ModTime()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		fi, err := os.Stat(path)
		if err != nil || !fi.ModTime().After(last) {
			continue
		}
		last = fi.ModTime()

		n, err := preview(args)
		if err != nil {
			log.Printf("serve: reload %s: %v", path, err)
			continue
		}
		if err := hub.Update(n); err != nil {
			log.Printf("serve: update: %v", err)
			continue
		}
		log.Printf("serve: reloaded %s", path)
	}
}
