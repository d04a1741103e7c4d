package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/TimelordUK/actionslog/internal/config"
	"github.com/TimelordUK/actionslog/internal/render"
	"github.com/TimelordUK/actionslog/pkg/logformat"
	"github.com/TimelordUK/actionslog/pkg/parser"
)

const (
	markerOpen   = "▾ "
	markerClosed = "▸ "
	markerNone   = "  "
	childIndent  = "  "
)

// Viewport manages the visible portion of a parsed log.
// It knows nothing about files or search; it pages through the parser's
// visible lines and keeps a cursor on one of them.
type Viewport struct {
	parser   *parser.Parser
	renderer render.Renderer

	// Dimensions
	width  int
	height int

	// Scroll position and cursor, both indexes into the visible lines
	scrollOffset int
	cursor       int

	// Styling
	lineNumberStyle lipgloss.Style
	timestampStyle  lipgloss.Style
	cursorStyle     lipgloss.Style
	markerStyle     lipgloss.Style

	// Options
	showLineNumbers bool
	showTimestamps  bool
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:           width,
		height:          height,
		showLineNumbers: true,
		lineNumberStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		timestampStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		cursorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		markerStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		renderer:        render.NewPlainRenderer(),
	}
}

// ApplyConfig takes colors and display options from config
func (v *Viewport) ApplyConfig(cfg *config.Config) {
	v.lineNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.LineNumbers))
	v.timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Timestamps))
	v.markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.GroupHeader))
	v.cursorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(cfg.Theme.SearchMatch)).
		Background(lipgloss.Color(cfg.Theme.Cursor)).
		Bold(true)
	v.showLineNumbers = cfg.Display.ShowLineNumbers
	v.showTimestamps = cfg.Display.ShowTimestamps
}

// SetRenderer sets the line renderer
func (v *Viewport) SetRenderer(r render.Renderer) {
	v.renderer = r
}

// SetParser sets the parser whose visible lines are shown
func (v *Viewport) SetParser(p *parser.Parser) {
	v.parser = p
	v.scrollOffset = 0
	v.cursor = 0
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clamp()
}

// LineCount returns the number of visible lines
func (v *Viewport) LineCount() int {
	if v.parser == nil {
		return 0
	}
	return v.parser.VisibleCount()
}

// ScrollDown moves the cursor down by n lines
func (v *Viewport) ScrollDown(n int) {
	v.cursor += n
	v.clamp()
}

// ScrollUp moves the cursor up by n lines
func (v *Viewport) ScrollUp(n int) {
	v.cursor -= n
	v.clamp()
}

// PageDown moves down by one page
func (v *Viewport) PageDown() {
	v.ScrollDown(max(v.height-1, 1))
}

// PageUp moves up by one page
func (v *Viewport) PageUp() {
	v.ScrollUp(max(v.height-1, 1))
}

// GotoTop moves to the first line
func (v *Viewport) GotoTop() {
	v.cursor = 0
	v.clamp()
}

// GotoBottom moves to the last line
func (v *Viewport) GotoBottom() {
	v.cursor = v.LineCount() - 1
	v.clamp()
}

// GotoLine moves the cursor to a visible line
func (v *Viewport) GotoLine(line int) {
	v.cursor = line
	v.clamp()
}

// AtBottom reports whether the cursor is on the last line
func (v *Viewport) AtBottom() bool {
	return v.cursor >= v.LineCount()-1
}

// Cursor returns the visible index under the cursor
func (v *Viewport) Cursor() int {
	return v.cursor
}

// CurrentLine returns the visible index of the top row
func (v *Viewport) CurrentLine() int {
	return v.scrollOffset
}

// CursorLine returns the line under the cursor
func (v *Viewport) CursorLine() (*parser.Line, bool) {
	if v.parser == nil {
		return nil, false
	}
	return v.parser.VisibleLine(v.cursor)
}

// ToggleGroup opens or closes the group under the cursor. On a grouped
// line the enclosing group is closed and the cursor moves to its header.
func (v *Viewport) ToggleGroup() bool {
	if v.parser == nil {
		return false
	}
	visible := v.parser.VisibleLines()
	if v.cursor < 0 || v.cursor >= len(visible) {
		return false
	}
	ptr := visible[v.cursor]
	header, ok := v.parser.LineAt(parser.Pointer{Index: ptr.Index, Child: -1})
	if !ok || header.Group() == nil {
		return false
	}

	if ptr.IsChild() {
		v.cursor -= ptr.Child + 1
	}
	header.Group().Toggle()
	v.clamp()
	return true
}

// FindNext moves the cursor to the next visible line after it whose
// content satisfies match, wrapping around. It returns false if none does.
func (v *Viewport) FindNext(match func(*parser.Line) bool) bool {
	return v.find(match, 1)
}

// FindPrev is FindNext in the other direction
func (v *Viewport) FindPrev(match func(*parser.Line) bool) bool {
	return v.find(match, -1)
}

func (v *Viewport) find(match func(*parser.Line) bool, step int) bool {
	n := v.LineCount()
	for i := 1; i <= n; i++ {
		idx := ((v.cursor+step*i)%n + n) % n
		if line, ok := v.parser.VisibleLine(idx); ok && match(line) {
			v.cursor = idx
			v.clamp()
			return true
		}
	}
	return false
}

// clamp keeps the cursor on a line and the cursor row on screen
func (v *Viewport) clamp() {
	count := v.LineCount()
	if count == 0 {
		v.cursor = 0
		v.scrollOffset = 0
		return
	}

	v.cursor = min(max(v.cursor, 0), count-1)

	height := max(v.height, 1)
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+height {
		v.scrollOffset = v.cursor - height + 1
	}
	v.scrollOffset = min(max(v.scrollOffset, 0), max(count-height, 0))
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	if v.parser == nil {
		return ""
	}
	v.clamp()

	visible := v.parser.VisibleLines()
	end := min(v.scrollOffset+v.height, len(visible))
	lineNumWidth := len(fmt.Sprintf("%d", max(v.parser.LineCount(), 1)))

	var builder strings.Builder
	rows := 0
	for i := v.scrollOffset; i < end; i++ {
		line, ok := v.parser.LineAt(visible[i])
		if !ok {
			continue
		}
		if rows > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(v.row(line, visible[i], i == v.cursor, lineNumWidth))
		rows++
	}

	// Pad with empty lines if needed
	for ; rows < v.height; rows++ {
		if rows > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}

func (v *Viewport) row(line *parser.Line, ptr parser.Pointer, isCursor bool, lineNumWidth int) string {
	var gutter strings.Builder

	if v.showLineNumbers {
		numStr := fmt.Sprintf("%*d ", lineNumWidth, line.Number)
		if isCursor {
			gutter.WriteString(v.cursorStyle.Render(numStr))
		} else {
			gutter.WriteString(v.lineNumberStyle.Render(numStr))
		}
	} else if isCursor {
		gutter.WriteString(v.cursorStyle.Render(">"))
	}

	if v.showTimestamps {
		gutter.WriteString(v.timestampStyle.Render(logformat.FormatTime(line.Timestamp)))
		gutter.WriteString(" ")
	}

	switch {
	case line.Group() != nil && line.Group().Open():
		gutter.WriteString(v.markerStyle.Render(markerOpen))
	case line.Group() != nil:
		gutter.WriteString(v.markerStyle.Render(markerClosed))
	case ptr.IsChild():
		gutter.WriteString(markerNone + childIndent)
	default:
		gutter.WriteString(markerNone)
	}

	prefix := gutter.String()
	available := v.width - xansi.StringWidth(prefix)
	if available <= 0 {
		return xansi.Truncate(prefix, max(v.width, 0), "")
	}
	return prefix + xansi.Truncate(v.renderer.Render(line), available, "…")
}

// PercentScrolled returns how far through the log the cursor is
func (v *Viewport) PercentScrolled() float64 {
	count := v.LineCount()
	if count <= 1 {
		return 100
	}
	return float64(v.cursor) / float64(count-1) * 100
}

// SetShowLineNumbers toggles line numbers
func (v *Viewport) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
}

// SetShowTimestamps toggles the timestamp column
func (v *Viewport) SetShowTimestamps(show bool) {
	v.showTimestamps = show
}
