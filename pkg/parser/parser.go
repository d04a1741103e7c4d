// Package parser assembles CI log lines into a one-level tree of groups and
// keeps the search state and visible-line index for a viewer on top of it.
//
// A Parser is not safe for concurrent mutation; callers serialize Add,
// SetSearch, Reset and group toggles. Read accessors may run concurrently
// with each other.
package parser

import (
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/TimelordUK/actionslog/pkg/logformat"
)

// Parser builds the line tree from raw log lines
type Parser struct {
	finder logformat.LinkFinder
	logger *log.Logger

	counter int
	seen    map[string]struct{}
	lines   []*Line

	search   string
	searchRe *regexp.Regexp
	matches  int

	mu           sync.Mutex
	visible      []Pointer
	visibleValid bool
	subscribers  []func()
}

// Option configures a Parser
type Option func(*Parser)

// WithLinkFinder sets the link finder; pass nil to disable link detection
func WithLinkFinder(f logformat.LinkFinder) Option {
	return func(p *Parser) {
		p.finder = f
	}
}

// WithLogger sets the logger used for parser diagnostics
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates an empty Parser
func New(opts ...Option) *Parser {
	p := &Parser{
		finder:  logformat.NewURLFinder(),
		logger:  log.New(io.Discard),
		counter: 1,
		seen:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add appends one raw line
func (p *Parser) Add(raw string) {
	p.AddWithID(raw, "")
}

// AddWithID appends one raw line carrying a stream id of the form
// "<epoch millis>-<sequence>". A line whose id was already seen is dropped
// and false is returned.
func (p *Parser) AddWithID(raw, id string) bool {
	if id != "" {
		if _, dup := p.seen[id]; dup {
			p.logger.Debug("dropping duplicate line", "id", id)
			return false
		}
		p.seen[id] = struct{}{}
	}

	line := NewLine(p.counter, raw, id, p.finder)
	matches := 0
	if p.searchRe != nil {
		matches = line.highlight(p.searchRe)
	}

	open := p.openGroup()

	switch line.Command {
	case logformat.CommandEndGroup:
		if open != nil {
			open.group.end()
			p.logger.Debug("group ended", "line", open.Number, "children", open.group.Len())
			return true
		}
		p.lines = append(p.lines, line)
	case logformat.CommandGroup:
		if open != nil {
			open.group.end()
			p.logger.Debug("group ended by next group", "line", open.Number, "children", open.group.Len())
		}
		line.group.OnOpenChange(func(bool) { p.invalidate() })
		p.lines = append(p.lines, line)
	default:
		if open != nil {
			line.parent = open.Number
			open.group.add(line)
		} else {
			p.lines = append(p.lines, line)
		}
	}

	p.counter++
	p.matches += matches
	p.invalidate()
	return true
}

// AddRaw splits a multi-line blob on newlines and adds each line without an
// id. A trailing carriage return is trimmed from every line and a final
// empty line after the last newline is ignored. It returns the number of
// lines added.
func (p *Parser) AddRaw(text string) int {
	if text == "" {
		return 0
	}
	parts := strings.Split(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for _, part := range parts {
		p.Add(strings.TrimSuffix(part, "\r"))
	}
	return len(parts)
}

// SetSearch highlights term in every line and returns the total match count.
// An empty term clears the search.
func (p *Parser) SetSearch(term string) int {
	re, literal := compileSearch(term)
	if literal {
		p.logger.Debug("search is not a valid pattern, matching literally", "term", term)
	}
	p.search = term
	p.searchRe = re
	p.matches = 0
	for _, line := range p.lines {
		p.matches += line.highlight(p.searchRe)
	}
	return p.matches
}

// Search returns the active search term
func (p *Parser) Search() string {
	return p.search
}

// Matches returns the total number of search matches across all lines
func (p *Parser) Matches() int {
	return p.matches
}

// Lines returns the top-level lines. Grouped lines are reached through
// their header's Group.
func (p *Parser) Lines() []*Line {
	return p.lines
}

// LineCount returns the number of accepted lines, grouped ones included
func (p *Parser) LineCount() int {
	return p.counter - 1
}

// InGroup reports whether new lines currently go into an open group
func (p *Parser) InGroup() bool {
	return p.openGroup() != nil
}

// Reset drops every line, the search and the seen ids
func (p *Parser) Reset() {
	p.counter = 1
	p.seen = make(map[string]struct{})
	p.lines = nil
	p.search = ""
	p.searchRe = nil
	p.matches = 0
	p.invalidate()
}

// ExpandAll opens every group
func (p *Parser) ExpandAll() {
	p.setAllOpen(true)
}

// CollapseAll closes every group
func (p *Parser) CollapseAll() {
	p.setAllOpen(false)
}

func (p *Parser) setAllOpen(open bool) {
	for _, line := range p.lines {
		if line.group != nil {
			line.group.SetOpen(open)
		}
	}
}

// EndGroup ends the open group as an endgroup line would, so that the next
// line starts at the top level. It reports whether a group was open.
func (p *Parser) EndGroup() bool {
	open := p.openGroup()
	if open == nil {
		return false
	}
	open.group.end()
	p.logger.Debug("group ended explicitly", "line", open.Number, "children", open.group.Len())
	return true
}

// openGroup returns the last top-level line if it owns an unterminated group
func (p *Parser) openGroup() *Line {
	if len(p.lines) == 0 {
		return nil
	}
	last := p.lines[len(p.lines)-1]
	if last.group == nil || last.group.ended {
		return nil
	}
	return last
}
