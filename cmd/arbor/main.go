package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/arbor/internal/history"
	"github.com/vanderheijden86/arbor/pkg/config"
	"github.com/vanderheijden86/arbor/pkg/ui"
	"github.com/vanderheijden86/arbor/pkg/version"
	"github.com/vanderheijden86/arbor/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	depth := flag.Int("depth", -1, "Initial expansion depth (0 = unlimited, overrides config)")
	showHidden := flag.Bool("show-hidden", false, "Show hidden entries")
	noHistory := flag.Bool("no-history", false, "Do not record or rank visited roots")
	flag.Parse()

	if *help {
		fmt.Println("Usage: arbor [options] [path]")
		fmt.Println("\nAn interactive terminal filesystem tree explorer.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("arbor %s\n", version.Version)
		os.Exit(0)
	}

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "arbor is interactive; stdout must be a terminal")
		os.Exit(1)
	}

	root := "."
	if flag.NArg() > 0 {
		root = config.ExpandHome(flag.Arg(0))
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "%s is not a browsable directory\n", root)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
	}
	if *depth >= 0 {
		cfg.DefaultDepth = *depth
	}
	if *showHidden {
		cfg.UI.ShowHidden = true
	}

	var hist *history.Store
	if !*noHistory && !cfg.History.Disabled {
		if dir := config.StateDir(); dir != "" {
			hist, err = history.Open(filepath.Join(dir, "history.db"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
			}
		}
	}
	if hist != nil {
		defer hist.Close()
	}

	m, err := ui.NewModel(root, cfg, hist)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Reload config while running; the watcher only ever touches
	// config.yaml, never the browsed tree.
	if path := config.ConfigPath(); path != "" {
		w, werr := watcher.New(path, watcher.WithOnChange(func() {
			p.Send(ui.ConfigReloadedMsg{})
		}))
		if werr == nil && w.Start() == nil {
			defer w.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
