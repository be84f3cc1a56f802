// Command livedomc compiles view descriptions into Go builder functions
// and previews them as HTML.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/livefir/livedom/cmd/livedomc/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	log.SetFlags(log.Ltime)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "gen":
		err = commands.Gen(os.Stdout, args)
	case "render":
		err = commands.Render(os.Stdout, args)
	case "serve":
		err = commands.Serve(os.Stdout, args)
	case "config":
		err = commands.Config(os.Stdout, args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, commands.ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("livedomc version %s\n", version)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	rev := commit
	if rev == "unknown" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				rev = s.Value[:12]
			}
		}
	}
	fmt.Printf("commit: %s\n", rev)
	fmt.Printf("go: %s\n", info.GoVersion)
}

func printUsage() {
	fmt.Println("livedom view compiler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  livedomc gen [dir] [--check]                  Generate Go builders from *.dom.yaml files")
	fmt.Println("  livedomc render <file> [template] [--minify]  Print the sample preview of a template")
	fmt.Println("  livedomc serve <file> [template] [--addr a]   Serve a live preview that reloads on change")
	fmt.Println("  livedomc config <command>                     Manage livedom.yaml (init, list, add-path, remove-path)")
	fmt.Println("  livedomc version                              Show version information")
}
