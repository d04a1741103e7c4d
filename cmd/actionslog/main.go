package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/TimelordUK/actionslog/internal/config"
	"github.com/TimelordUK/actionslog/internal/render"
	"github.com/TimelordUK/actionslog/internal/source"
	"github.com/TimelordUK/actionslog/internal/ui"
	"github.com/TimelordUK/actionslog/pkg/parser"
)

func main() {
	configFlag := flag.String("c", "", "Config file (default $XDG_CONFIG_HOME/actionslog/config.toml)")
	searchFlag := flag.String("s", "", "Initial search term")
	globFlag := flag.String("glob", source.DefaultPattern, "Pattern for log files when given a directory")
	followFlag := flag.Bool("f", false, "Follow files as they grow")
	printFlag := flag.Bool("p", false, "Print the expanded log instead of opening the viewer")
	debugFlag := flag.String("debug", "", "Write debug logs to file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: actionslog [-c config] [-s search] [-glob pattern] [-f] [-p] [-debug file] <file|dir>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), options{
		config: *configFlag,
		search: *searchFlag,
		glob:   *globFlag,
		follow: *followFlag,
		print:  *printFlag,
		debug:  *debugFlag,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config string
	search string
	glob   string
	follow bool
	print  bool
	debug  string
}

func run(target string, opts options) error {
	logger, closeLog, err := newLogger(opts.debug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}

	paths, err := source.Expand(target, opts.glob)
	if err != nil {
		return err
	}
	logger.Debug("expanded input", "target", target, "files", len(paths))

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	printing := opts.print || !tty

	paneOpts := ui.PaneOptions{
		Follow: opts.follow && !printing,
		Search: opts.search,
		Logger: logger,
	}
	if printing && (!tty || os.Getenv("NO_COLOR") != "") {
		paneOpts.Renderer = render.NewPlainRenderer()
	}

	pane, err := ui.NewPane(context.Background(), paths, cfg, paneOpts)
	if err != nil {
		return err
	}

	if printing {
		defer pane.Close()
		return printAll(os.Stdout, pane.Parser(), paneOpts.Renderer, cfg)
	}

	model := ui.NewModel(pane, cfg)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// newLogger writes debug logs to path, or discards them when path is empty
func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "actionslog",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}

// printAll writes every line with all groups expanded
func printAll(w io.Writer, p *parser.Parser, r render.Renderer, cfg *config.Config) error {
	if r == nil {
		r = render.NewElementRenderer(cfg)
	}
	p.ExpandAll()

	out := bufio.NewWriter(w)
	for _, ptr := range p.VisibleLines() {
		line, ok := p.LineAt(ptr)
		if !ok {
			continue
		}
		if ptr.IsChild() {
			out.WriteString("  ")
		}
		out.WriteString(strings.TrimRight(r.Render(line), " "))
		out.WriteString("\n")
	}
	return out.Flush()
}
