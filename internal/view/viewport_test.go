package view

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"

	"github.com/TimelordUK/actionslog/pkg/parser"
)

func newViewport(t *testing.T, width, height int, text string) (*Viewport, *parser.Parser) {
	t.Helper()
	p := parser.New()
	p.AddRaw(text)
	v := NewViewport(width, height)
	v.SetParser(p)
	return v, p
}

func renderedRows(v *Viewport) []string {
	return strings.Split(xansi.Strip(v.Render()), "\n")
}

func TestViewport_RenderMarkersAndIndent(t *testing.T) {
	v, _ := newViewport(t, 40, 5, "##[group]Build\nstep one\n##[group]Test\ncase a\n")

	want := []string{
		"1 ▸ Build",
		"3 ▾ Test",
		"4     case a",
		"~",
		"~",
	}
	got := renderedRows(v)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("rows = %q\nwant %q", got, want)
	}
}

func TestViewport_Truncates(t *testing.T) {
	v, _ := newViewport(t, 12, 1, "a very long line that will not fit\n")
	row := renderedRows(v)[0]
	if w := xansi.StringWidth(row); w > 12 {
		t.Fatalf("row width = %d, want <= 12: %q", w, row)
	}
	if !strings.HasSuffix(row, "…") {
		t.Fatalf("row = %q, want a truncation tail", row)
	}
}

func TestViewport_CursorScrolls(t *testing.T) {
	v, _ := newViewport(t, 20, 3, "1\n2\n3\n4\n5\n6\n")

	v.ScrollDown(4)
	if v.Cursor() != 4 || v.CurrentLine() != 2 {
		t.Fatalf("cursor=%d top=%d, want 4,2", v.Cursor(), v.CurrentLine())
	}
	v.ScrollDown(100)
	if v.Cursor() != 5 || !v.AtBottom() {
		t.Fatalf("cursor=%d, want clamped to 5", v.Cursor())
	}
	v.GotoTop()
	if v.Cursor() != 0 || v.CurrentLine() != 0 {
		t.Fatalf("GotoTop cursor=%d top=%d", v.Cursor(), v.CurrentLine())
	}
	v.PageDown()
	if v.Cursor() != 2 {
		t.Fatalf("PageDown cursor=%d, want 2", v.Cursor())
	}
	v.GotoBottom()
	if v.CurrentLine() != 3 {
		t.Fatalf("GotoBottom top=%d, want 3", v.CurrentLine())
	}
	if v.PercentScrolled() != 100 {
		t.Fatalf("PercentScrolled = %v", v.PercentScrolled())
	}
}

func TestViewport_ToggleGroup(t *testing.T) {
	v, p := newViewport(t, 40, 10, "##[group]A\na1\na2\n##[endgroup]\nafter\n")

	if v.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2 with the group closed", v.LineCount())
	}
	if !v.ToggleGroup() {
		t.Fatalf("ToggleGroup on header returned false")
	}
	if v.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4 after opening", v.LineCount())
	}

	v.GotoLine(2)
	if line, _ := v.CursorLine(); line.Content != "a2" {
		t.Fatalf("cursor line = %q, want a2", line.Content)
	}
	if !v.ToggleGroup() {
		t.Fatalf("ToggleGroup on child returned false")
	}
	if v.Cursor() != 0 || p.Lines()[0].Group().Open() {
		t.Fatalf("cursor=%d open=%v, want header and closed", v.Cursor(), p.Lines()[0].Group().Open())
	}

	v.GotoLine(1)
	if v.ToggleGroup() {
		t.Fatalf("ToggleGroup on a plain line returned true")
	}
}

func TestViewport_Find(t *testing.T) {
	v, _ := newViewport(t, 40, 10, "alpha\nbeta\ngamma\nbeta again\n")
	isBeta := func(l *parser.Line) bool { return strings.HasPrefix(l.Content, "beta") }

	if !v.FindNext(isBeta) || v.Cursor() != 1 {
		t.Fatalf("FindNext cursor=%d, want 1", v.Cursor())
	}
	if !v.FindNext(isBeta) || v.Cursor() != 3 {
		t.Fatalf("FindNext cursor=%d, want 3", v.Cursor())
	}
	if !v.FindNext(isBeta) || v.Cursor() != 1 {
		t.Fatalf("FindNext should wrap, cursor=%d", v.Cursor())
	}
	if !v.FindPrev(isBeta) || v.Cursor() != 3 {
		t.Fatalf("FindPrev should wrap, cursor=%d", v.Cursor())
	}
	if v.FindNext(func(*parser.Line) bool { return false }) {
		t.Fatalf("FindNext with no match returned true")
	}
}

func TestViewport_Empty(t *testing.T) {
	v := NewViewport(10, 2)
	if v.Render() != "" {
		t.Fatalf("Render without parser = %q", v.Render())
	}
	v.SetParser(parser.New())
	if got := v.Render(); got != "~\n~" {
		t.Fatalf("Render of empty parser = %q", got)
	}
}
