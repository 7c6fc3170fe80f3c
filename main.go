// grapelint checks Grape API classes for missing or misplaced endpoint descriptions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/term"

	"github.com/phobologic/grapelint/internal/config"
	"github.com/phobologic/grapelint/internal/cop"
	"github.com/phobologic/grapelint/internal/discover"
	"github.com/phobologic/grapelint/internal/lang"
	"github.com/phobologic/grapelint/internal/lint"
	"github.com/phobologic/grapelint/internal/report"
	"github.com/phobologic/grapelint/internal/toon"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

// errOffenses is returned by run when offenses remain after the run.
var errOffenses = errors.New("offenses detected")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errOffenses) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "init" {
		return runInit(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("grapelint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		autocorrect bool
		configPath  string
		format      string
		only        string
		maxFileSize int
		noColor     bool
		showVersion bool
	)

	fs.BoolVar(&autocorrect, "a", false, "correct offenses in place")
	fs.BoolVar(&autocorrect, "autocorrect", false, "correct offenses in place")
	fs.StringVar(&configPath, "c", "", "configuration file (default "+config.DefaultPath+")")
	fs.StringVar(&configPath, "config", "", "configuration file (default "+config.DefaultPath+")")
	fs.StringVar(&format, "f", "text", "output format: text or toon")
	fs.StringVar(&format, "format", "text", "output format: text or toon")
	fs.StringVar(&only, "only", "", "comma-separated cops to run")
	fs.IntVar(&maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	fs.BoolVar(&noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "grapelint %s\n", version)
		return nil
	}

	if format != "text" && format != "toon" {
		return fmt.Errorf("unknown format %q", format)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	for _, name := range cfg.Unknown(cop.Names) {
		_, _ = fmt.Fprintf(stderr, "Warning: %s: unknown cop in configuration\n", name)
	}

	var onlyCops []string
	if only != "" {
		for _, name := range strings.Split(only, ",") {
			onlyCops = append(onlyCops, strings.TrimSpace(name))
		}
	}
	cops, err := cop.FromConfig(cfg, onlyCops)
	if err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectFiles(paths, cfg.AllCops.Exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no Ruby files found")
	}

	files = filterBySize(files, maxFileSize, stderr)
	if len(files) == 0 {
		return fmt.Errorf("no Ruby files found (all exceeded size limit)")
	}

	l := &lint.Linter{Cops: cops, Autocorrect: autocorrect, Stderr: stderr}
	rep, err := l.Run(context.Background(), "", files)
	if err != nil {
		return err
	}

	switch format {
	case "toon":
		root, err := filepath.Abs(paths[0])
		if err != nil {
			return fmt.Errorf("resolving root: %w", err)
		}
		_, _ = fmt.Fprintln(stdout, toon.Encode(filepath.Base(root), rep))
	default:
		colored := !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(stdout)
		if err := report.NewText(stdout, colored).Write(rep, len(files)); err != nil {
			return err
		}
	}

	if rep.Outstanding() {
		return errOffenses
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// collectFiles expands directory arguments through discovery and accepts
// Ruby file arguments as given. Each file is returned once, in argument order.
func collectFiles(paths, exclude []string) ([]discover.FileEntry, error) {
	var out []discover.FileEntry
	seen := make(map[string]struct{})
	add := func(f discover.FileEntry) {
		if _, ok := seen[f.Path]; ok {
			return
		}
		seen[f.Path] = struct{}{}
		out = append(out, f)
	}

	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("path: %w", err)
		}

		if !info.IsDir() {
			language := lang.ForExtension(filepath.Ext(p))
			if language == "" {
				return nil, fmt.Errorf("%s: not a Ruby file", p)
			}
			add(discover.FileEntry{Path: p, Language: language})
			continue
		}

		entries, err := discover.Files(p, exclude)
		if err != nil {
			return nil, fmt.Errorf("discovering files: %w", err)
		}
		for _, e := range entries {
			e.Path = filepath.Join(p, e.Path)
			add(e)
		}
	}
	return out, nil
}

func filterBySize(files []discover.FileEntry, maxSize int, stderr io.Writer) []discover.FileEntry {
	return slices.DeleteFunc(files, func(f discover.FileEntry) bool {
		fi, err := os.Stat(f.Path)
		if err != nil {
			return false // keep if can't stat
		}
		if fi.Size() > int64(maxSize) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (>%d bytes)\n", f.Path, maxSize)
			return true
		}
		return false
	})
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-c": true, "--c": true,
	"-config": true, "--config": true,
	"-f": true, "--f": true,
	"-format": true, "--format": true,
	"-only": true, "--only": true,
	"-max-file-size": true, "--max-file-size": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			// Keep the terminator so names starting with '-' stay positional.
			flags = append(flags, "--")
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
