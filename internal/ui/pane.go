package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/TimelordUK/actionslog/internal/config"
	"github.com/TimelordUK/actionslog/internal/render"
	"github.com/TimelordUK/actionslog/internal/source"
	"github.com/TimelordUK/actionslog/internal/view"
	"github.com/TimelordUK/actionslog/pkg/logformat"
	"github.com/TimelordUK/actionslog/pkg/parser"
)

// PaneOptions control how a pane loads its logs
type PaneOptions struct {
	// Follow keeps the files open and picks up lines appended to them
	Follow bool
	// Search is applied once the logs are loaded
	Search string
	// Renderer overrides the configured element renderer
	Renderer render.Renderer
	Logger   *log.Logger
}

// Pane is one parsed log view with its own state
type Pane struct {
	viewport *view.Viewport
	parser   *parser.Parser
	sources  []*source.FileSource
	logger   *log.Logger

	// File state
	title string
	paths []string

	// Follow mode
	following bool

	// index of the source the parser last received lines from
	lastSource int
}

// NewPane loads the given log files into a new pane. Files are parsed in
// order into a single parser.
func NewPane(ctx context.Context, paths []string, cfg *config.Config, opts PaneOptions) (*Pane, error) {
	if len(paths) == 0 {
		return nil, errors.New("no log files")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var finder logformat.LinkFinder = logformat.NewURLFinder()
	if cfg.Display.StrictLinks {
		finder = logformat.NewStrictURLFinder()
	}
	p := parser.New(parser.WithLinkFinder(finder), parser.WithLogger(logger))

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewElementRenderer(cfg, render.WithHyperlinks(true))
	}

	viewport := view.NewViewport(80, 24)
	viewport.ApplyConfig(cfg)
	viewport.SetRenderer(renderer)
	viewport.SetParser(p)

	pane := &Pane{
		viewport:   viewport,
		parser:     p,
		logger:     logger,
		title:      title(paths),
		paths:      paths,
		following:  opts.Follow,
		lastSource: -1,
	}

	if err := pane.load(ctx); err != nil {
		pane.Close()
		return nil, err
	}
	if opts.Search != "" {
		pane.PerformSearch(opts.Search)
	}
	if pane.following {
		viewport.GotoBottom()
	}
	return pane, nil
}

// load reads every file. Followed files stay open so Refresh can pick up
// growth; otherwise they are read concurrently and closed.
func (p *Pane) load(ctx context.Context) error {
	if !p.following {
		logs, err := source.LoadAll(ctx, p.paths, 0)
		if err != nil {
			return err
		}
		for i, l := range logs {
			p.startSource(i)
			for _, line := range l.Lines {
				p.parser.Add(line)
			}
			p.logger.Debug("loaded log", "path", l.Path, "lines", len(l.Lines))
		}
		return nil
	}

	for i, path := range p.paths {
		src, err := source.NewFileSource(path)
		if err != nil {
			return err
		}
		src.SetIndex(i)
		p.sources = append(p.sources, src)
	}
	_, err := p.pull()
	return err
}

// pull feeds lines the sources have not handed out yet to the parser
func (p *Pane) pull() (int, error) {
	added := 0
	for i, src := range p.sources {
		lines, err := src.Next()
		if err != nil {
			return added, err
		}
		if len(lines) == 0 {
			continue
		}
		p.startSource(i)
		for _, line := range lines {
			p.parser.Add(line)
		}
		added += len(lines)
	}
	return added, nil
}

// startSource ends any group left open by another file before lines from
// source i are added. Each file starts at the top level, and a line appended
// late to an earlier file never lands in a later file's group.
func (p *Pane) startSource(i int) {
	if i != p.lastSource && p.parser.EndGroup() {
		p.logger.Debug("closed group at file boundary", "file", p.paths[i])
	}
	p.lastSource = i
}

// SetSize sets the viewport size
func (p *Pane) SetSize(width, height int) {
	p.viewport.SetSize(width, height)
}

// Render returns the rendered viewport content
func (p *Pane) Render() string {
	return p.viewport.Render()
}

// Close releases the open files
func (p *Pane) Close() error {
	var firstErr error
	for _, src := range p.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.sources = nil
	return firstErr
}

// Viewport returns the pane's viewport
func (p *Pane) Viewport() *view.Viewport {
	return p.viewport
}

// Parser returns the pane's parser
func (p *Pane) Parser() *parser.Parser {
	return p.parser
}

// Title returns the display name of the loaded logs
func (p *Pane) Title() string {
	return p.title
}

// IsFollowing returns whether follow mode is active
func (p *Pane) IsFollowing() bool {
	return p.following
}

// CanFollow reports whether the pane holds open files to follow
func (p *Pane) CanFollow() bool {
	return len(p.sources) > 0
}

// ToggleFollowing toggles follow mode
func (p *Pane) ToggleFollowing() bool {
	if !p.CanFollow() {
		return false
	}
	p.following = !p.following
	if p.following {
		p.viewport.GotoBottom()
	}
	return p.following
}

// CheckForNewLines refreshes the followed files and parses whatever was
// appended. The view sticks to the bottom while following.
func (p *Pane) CheckForNewLines() (int, error) {
	for _, src := range p.sources {
		if _, err := src.Refresh(); err != nil {
			return 0, err
		}
	}

	added, err := p.pull()
	if err != nil {
		return added, err
	}
	if added > 0 {
		p.logger.Debug("followed new lines", "count", added)
		if p.following {
			p.viewport.GotoBottom()
		}
	}
	return added, nil
}

// SearchTerm returns the current search term
func (p *Pane) SearchTerm() string {
	return p.parser.Search()
}

// Matches returns the number of search matches
func (p *Pane) Matches() int {
	return p.parser.Matches()
}

// PerformSearch highlights term and moves to the first line with a match at
// or after the cursor
func (p *Pane) PerformSearch(term string) int {
	matches := p.parser.SetSearch(term)
	if matches == 0 {
		return 0
	}
	if line, ok := p.viewport.CursorLine(); !ok || !hasMatch(line) {
		p.NextSearchResult()
	}
	return matches
}

// NextSearchResult jumps to the next visible line with a match
func (p *Pane) NextSearchResult() bool {
	return p.viewport.FindNext(hasMatch)
}

// PrevSearchResult jumps to the previous visible line with a match
func (p *Pane) PrevSearchResult() bool {
	return p.viewport.FindPrev(hasMatch)
}

// ClearSearch clears search state
func (p *Pane) ClearSearch() {
	p.parser.SetSearch("")
}

// ToggleGroup opens or closes the group under the cursor
func (p *Pane) ToggleGroup() bool {
	return p.viewport.ToggleGroup()
}

// ExpandAll opens every group
func (p *Pane) ExpandAll() {
	p.parser.ExpandAll()
}

// CollapseAll closes every group, keeping the cursor on the group it was in
func (p *Pane) CollapseAll() {
	line, ok := p.viewport.CursorLine()
	p.parser.CollapseAll()
	if ok {
		p.gotoNumber(line.Parent(), line.Number)
	}
}

// GotoLine moves to the line with the given number, opening its group if
// it is hidden
func (p *Pane) GotoLine(number int) bool {
	for i, top := range p.parser.Lines() {
		if top.Number == number {
			return p.gotoVisible(parser.Pointer{Index: i, Child: -1})
		}
		g := top.Group()
		if g == nil {
			continue
		}
		for j, child := range g.Children() {
			if child.Number == number {
				g.SetOpen(true)
				return p.gotoVisible(parser.Pointer{Index: i, Child: j})
			}
		}
	}
	return false
}

func (p *Pane) gotoNumber(numbers ...int) {
	for _, n := range numbers {
		if n <= 0 {
			continue
		}
		for i, top := range p.parser.Lines() {
			if top.Number == n {
				p.gotoVisible(parser.Pointer{Index: i, Child: -1})
				return
			}
		}
	}
}

func (p *Pane) gotoVisible(ptr parser.Pointer) bool {
	for i, v := range p.parser.VisibleLines() {
		if v == ptr {
			p.viewport.GotoLine(i)
			return true
		}
	}
	return false
}

func hasMatch(line *parser.Line) bool {
	return line.Highlights() != nil
}

func title(paths []string) string {
	if len(paths) == 1 {
		return filepath.Base(paths[0])
	}
	return fmt.Sprintf("%s (+%d)", filepath.Base(paths[0]), len(paths)-1)
}
