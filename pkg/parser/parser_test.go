package parser

import (
	"reflect"
	"testing"

	"github.com/TimelordUK/actionslog/pkg/logformat"
)

func commands(lines []*Line) []logformat.Command {
	out := make([]logformat.Command, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Command)
	}
	return out
}

func TestParser_AddNumbersLines(t *testing.T) {
	p := New()
	p.Add("hello")
	p.Add("world")

	lines := p.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(lines))
	}
	if lines[0].Number != 1 || lines[1].Number != 2 {
		t.Fatalf("numbers = %d,%d, want 1,2", lines[0].Number, lines[1].Number)
	}
	if p.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", p.LineCount())
	}
}

func TestParser_GroupLifecycle(t *testing.T) {
	p := New()
	p.Add("##[group]hello")
	if len(p.Lines()) != 1 || !p.InGroup() {
		t.Fatalf("after group: lines=%d inGroup=%v", len(p.Lines()), p.InGroup())
	}
	p.Add("world")
	if !p.InGroup() {
		t.Fatalf("InGroup = false after child")
	}
	p.Add("##[endgroup]")
	if p.InGroup() {
		t.Fatalf("InGroup = true after endgroup")
	}

	header := p.Lines()[0]
	g := header.Group()
	if g == nil || g.Len() != 1 || !g.Ended() || g.Open() {
		t.Fatalf("group = %+v, want one child, ended and closed", g)
	}
	child := g.Children()[0]
	if child.Parent() != header.Number {
		t.Fatalf("child.Parent = %d, want %d", child.Parent(), header.Number)
	}
	if p.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2 (endgroup takes no number)", p.LineCount())
	}
}

func TestParser_MultipleGroups(t *testing.T) {
	lines := []string{
		"2024-01-15T00:14:49.2830954Z ##[group]Operating System",
		"2024-01-15T00:14:49.2831846Z Ubuntu",
		"2024-01-15T00:14:49.2832204Z 22.04.3",
		"2024-01-15T00:14:49.2832638Z LTS",
		"2024-01-15T00:14:49.2833085Z ##[endgroup]",
		"2024-01-15T00:14:49.2833509Z ##[group]Runner Image",
		"2024-01-15T00:14:49.2834023Z Image: ubuntu-22.04",
		"2024-01-15T00:14:49.2834552Z Version: 20240107.1.0",
		"2024-01-15T00:14:49.2835705Z Included Software: https://github.com/actions/runner-images/blob/ubuntu22/20240107.1/images/ubuntu/Ubuntu2204-Readme.md",
		"2024-01-15T00:14:49.2837409Z Image Release: https://github.com/actions/runner-images/releases/tag/ubuntu22%2F20240107.1",
		"2024-01-15T00:14:49.2838476Z ##[endgroup]",
		"2024-01-15T00:14:49.2838965Z ##[group]Runner Image Provisioner",
		"2024-01-15T00:14:49.2839497Z 2.0.321.1",
		"2024-01-15T00:14:49.2839965Z ##[endgroup]",
	}
	p := New()
	for _, l := range lines {
		p.Add(l)
	}

	if len(p.Lines()) != 3 {
		t.Fatalf("len(Lines) = %d, want 3", len(p.Lines()))
	}
	wantChildren := []int{3, 4, 1}
	for i, line := range p.Lines() {
		if line.Command != logformat.CommandGroup {
			t.Errorf("line %d command = %v, want group", i, line.Command)
		}
		if got := line.Group().Len(); got != wantChildren[i] {
			t.Errorf("line %d children = %d, want %d", i, got, wantChildren[i])
		}
	}
	if got := p.Lines()[0].Content; got != "Operating System" {
		t.Errorf("header content = %q", got)
	}
	if p.LineCount() != 11 {
		t.Errorf("LineCount = %d, want 11", p.LineCount())
	}
}

func TestParser_StrayEndGroups(t *testing.T) {
	lines := []string{
		"##[group]start group",
		"inside group",
		"##[endgroup]",
		"outside group",
		"##[group]start another group",
		"inside another group",
		"##[endgroup]",
		"##[endgroup]",
		"##[endgroup]",
	}
	p := New()
	for _, l := range lines {
		p.Add(l)
	}

	want := []logformat.Command{
		logformat.CommandGroup,
		logformat.CommandNone,
		logformat.CommandGroup,
		logformat.CommandEndGroup,
		logformat.CommandEndGroup,
	}
	if got := commands(p.Lines()); !reflect.DeepEqual(got, want) {
		t.Fatalf("commands = %v, want %v", got, want)
	}
}

func TestParser_SecondEndGroupIsTopLevel(t *testing.T) {
	p := New()
	for _, l := range []string{"##[group]A", "x", "##[endgroup]", "##[endgroup]"} {
		p.Add(l)
	}
	lines := p.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(lines))
	}
	if lines[0].Content != "A" || lines[0].Group().Len() != 1 {
		t.Fatalf("first line = %q with %d children", lines[0].Content, lines[0].Group().Len())
	}
	if lines[1].Command != logformat.CommandEndGroup || lines[1].Number != 3 {
		t.Fatalf("second line = %v #%d, want endgroup #3", lines[1].Command, lines[1].Number)
	}
}

func TestParser_EndGroup(t *testing.T) {
	p := New()
	if p.EndGroup() {
		t.Fatal("EndGroup with no group open returned true")
	}

	p.Add("##[group]A")
	p.Add("x")
	if !p.EndGroup() {
		t.Fatal("EndGroup with a group open returned false")
	}
	if p.InGroup() {
		t.Fatal("InGroup after EndGroup")
	}
	p.Add("after")

	lines := p.Lines()
	if len(lines) != 2 || lines[1].Content != "after" || lines[1].Parent() != 0 {
		t.Fatalf("lines = %d, want the next line at the top level", len(lines))
	}
	if g := lines[0].Group(); !g.Ended() || g.Open() || g.Len() != 1 {
		t.Fatalf("group ended=%v open=%v len=%d", g.Ended(), g.Open(), g.Len())
	}
	if p.LineCount() != 3 {
		t.Fatalf("LineCount = %d, EndGroup should not take a number", p.LineCount())
	}
	if p.EndGroup() {
		t.Fatal("second EndGroup returned true")
	}
}

func TestParser_GroupClosesPreviousGroup(t *testing.T) {
	p := New()
	p.Add("##[group]one")
	p.Add("a")
	p.Add("##[group]two")
	p.Add("b")

	lines := p.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(lines))
	}
	first := lines[0].Group()
	if !first.Ended() || first.Open() || first.Len() != 1 {
		t.Fatalf("first group ended=%v open=%v len=%d", first.Ended(), first.Open(), first.Len())
	}
	second := lines[1].Group()
	if second.Ended() || !second.Open() || second.Len() != 1 {
		t.Fatalf("second group ended=%v open=%v len=%d", second.Ended(), second.Open(), second.Len())
	}
}

func TestParser_Search(t *testing.T) {
	p := New()
	for _, l := range []string{"foo", "bar", "baz"} {
		p.Add(l)
	}

	if got := p.SetSearch("bar"); got != 1 {
		t.Fatalf("SetSearch = %d, want 1", got)
	}
	p.Add("----> bar <----")
	if got := p.Matches(); got != 2 {
		t.Fatalf("Matches = %d, want 2", got)
	}
	if got := p.Lines()[3].Highlights(); !reflect.DeepEqual(got, map[int]int{6: 9}) {
		t.Fatalf("Highlights = %v", got)
	}

	if got := p.SetSearch(""); got != 0 {
		t.Fatalf("SetSearch(\"\") = %d, want 0", got)
	}
	for _, l := range p.Lines() {
		if l.Highlights() != nil {
			t.Fatalf("line %d still highlighted", l.Number)
		}
	}
}

func TestParser_SearchCountsGroupChildren(t *testing.T) {
	p := New()
	p.Add("##[group]needle header")
	p.Add("needle one")
	p.Add("two NEEDLE needle")
	p.Add("##[endgroup]")
	p.Add("after")

	if got := p.SetSearch("needle"); got != 4 {
		t.Fatalf("SetSearch = %d, want 4", got)
	}
}

func TestParser_AbsorbedEndGroupMatchesNotCounted(t *testing.T) {
	p := New()
	p.SetSearch("end")
	p.Add("##[group]x")
	p.Add("##[endgroup]end")
	if got := p.Matches(); got != 0 {
		t.Fatalf("Matches = %d, want 0", got)
	}
	p.Add("##[endgroup]end")
	if got := p.Matches(); got != 1 {
		t.Fatalf("Matches = %d, want 1 for the top-level endgroup", got)
	}
}

func TestParser_AddWithIDDeduplicates(t *testing.T) {
	p := New()
	if !p.AddWithID("first", "1705277683580-0") {
		t.Fatalf("first add rejected")
	}
	if p.AddWithID("first again", "1705277683580-0") {
		t.Fatalf("duplicate id accepted")
	}
	if !p.AddWithID("second", "1705277683580-1") {
		t.Fatalf("second add rejected")
	}

	lines := p.Lines()
	if len(lines) != 2 || lines[1].Number != 2 {
		t.Fatalf("lines = %d, second number = %d", len(lines), lines[len(lines)-1].Number)
	}
	if got := lines[0].Timestamp.UnixMilli(); got != 1705277683580 {
		t.Fatalf("timestamp = %d, want from id", got)
	}

	// lines without an id are never deduplicated
	p.Add("same")
	p.Add("same")
	if p.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4", p.LineCount())
	}
}

func TestParser_AddRaw(t *testing.T) {
	p := New()
	n := p.AddRaw("one\r\n##[group]two\nthree\n##[endgroup]\n")
	if n != 4 {
		t.Fatalf("AddRaw = %d, want 4", n)
	}
	lines := p.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(lines))
	}
	if lines[0].Content != "one" {
		t.Fatalf("first content = %q, want carriage return trimmed", lines[0].Content)
	}
	if lines[1].Group().Len() != 1 {
		t.Fatalf("group children = %d, want 1", lines[1].Group().Len())
	}
	if p.AddRaw("") != 0 {
		t.Fatalf("AddRaw(\"\") added lines")
	}
}

func TestParser_Reset(t *testing.T) {
	p := New()
	p.AddWithID("a", "1-0")
	p.SetSearch("a")
	p.Reset()

	if len(p.Lines()) != 0 || p.LineCount() != 0 || p.Search() != "" || p.Matches() != 0 {
		t.Fatalf("Reset left state behind")
	}
	if !p.AddWithID("a", "1-0") {
		t.Fatalf("seen ids survived Reset")
	}
	if p.Lines()[0].Number != 1 {
		t.Fatalf("numbering did not restart")
	}
}

func TestParser_WithoutLinkFinder(t *testing.T) {
	p := New(WithLinkFinder(nil))
	p.Add("see https://example.com")
	if links := p.Lines()[0].Links; links != nil {
		t.Fatalf("Links = %v, want none", links)
	}
}
