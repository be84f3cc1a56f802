package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/livefir/livedom/internal/config"
)

// Config manages the livedom.yaml of the current directory
func Config(w io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("command required: init, list, add-path, remove-path")
	}

	switch args[0] {
	case "init":
		return configInit(w)
	case "list":
		return configList(w)
	case "add-path":
		return configAddPath(w, args[1:])
	case "remove-path":
		return configRemovePath(w, args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func configInit(w io.Writer) error {
	if _, err := os.Stat(config.Path(".")); err == nil {
		return fmt.Errorf("%s already exists", config.ConfigFileName)
	}
	if err := config.Save(".", config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("created"), config.ConfigFileName)
	return nil
}

func configList(w io.Writer) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	fmt.Fprintln(w, labelStyle.Render("Configuration:"))
	fmt.Fprintf(w, "  suffix:          %s\n", cfg.Suffix)
	fmt.Fprintf(w, "  runtime_import:  %s\n", cfg.RuntimeImport)
	fmt.Fprintf(w, "  dom_import:      %s\n", cfg.DOMImport)
	fmt.Fprintf(w, "  minify:          %t\n", cfg.Minify)
	fmt.Fprintf(w, "  verbose:         %t\n", cfg.Verbose)
	fmt.Fprintln(w, "  template_paths:")
	if len(cfg.TemplatePaths) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("    (none, searching the project directory)"))
	}
	for _, p := range cfg.TemplatePaths {
		fmt.Fprintf(w, "    %s\n", p)
	}
	return nil
}

func configAddPath(w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("path required: livedomc config add-path <path>")
	}
	return updateConfig(func(cfg *config.Config) error {
		if err := cfg.AddTemplatePath(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s\n", successStyle.Render("added"), args[0])
		return nil
	})
}

func configRemovePath(w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("path required: livedomc config remove-path <path>")
	}
	return updateConfig(func(cfg *config.Config) error {
		if err := cfg.RemoveTemplatePath(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s\n", successStyle.Render("removed"), args[0])
		return nil
	})
}

func updateConfig(change func(*config.Config) error) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if err := change(cfg); err != nil {
		return err
	}
	return config.Save(".", cfg)
}
