package parser

import (
	"regexp"
	"sync"
	"time"

	"github.com/TimelordUK/actionslog/pkg/ansi"
	"github.com/TimelordUK/actionslog/pkg/elements"
	"github.com/TimelordUK/actionslog/pkg/logformat"
)

// Line is one parsed log line. Offsets in Styles, Links and the highlight map
// are byte offsets into Content.
type Line struct {
	Number    int
	Timestamp time.Time
	Command   logformat.Command
	Content   string
	Styles    ansi.Map
	Links     map[int]int

	group  *Group
	parent int

	mu         sync.Mutex
	highlights map[int]int
	elements   []elements.Element
	cached     bool
}

// NewLine parses raw into a Line. The timestamp is stripped first, then the
// command tag, then ANSI sequences; links are found in what is left.
func NewLine(number int, raw, id string, finder logformat.LinkFinder) *Line {
	ts, rest := logformat.ExtractTimestamp(raw, id)
	cmd, rest := logformat.ExtractCommand(rest)
	content, styles := ansi.Decode(rest)

	l := &Line{
		Number:    number,
		Timestamp: ts,
		Command:   cmd,
		Content:   content,
		Styles:    styles,
		Links:     logformat.ExtractLinks(finder, content),
	}
	if l.IsGroup() {
		l.group = newGroup()
	}
	return l
}

// IsGroup reports whether the line is a group header
func (l *Line) IsGroup() bool {
	return l.Command == logformat.CommandGroup
}

// Group returns the group owned by this line, or nil
func (l *Line) Group() *Group {
	return l.group
}

// Parent returns the number of the header line whose group holds this line,
// or 0 for top-level lines
func (l *Line) Parent() int {
	return l.parent
}

// Highlights returns a copy of the current search matches, start to end
func (l *Line) Highlights() map[int]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.highlights) == 0 {
		return nil
	}
	out := make(map[int]int, len(l.highlights))
	for k, v := range l.highlights {
		out[k] = v
	}
	return out
}

// Highlight marks every case-insensitive match of term and returns the match
// count, including matches in the lines of an owned group. An empty term
// clears all highlights.
func (l *Line) Highlight(term string) int {
	re, _ := compileSearch(term)
	return l.highlight(re)
}

func (l *Line) highlight(re *regexp.Regexp) int {
	l.mu.Lock()
	l.highlights = nil
	l.elements = nil
	l.cached = false

	count := 0
	if re != nil {
		for _, m := range re.FindAllStringIndex(l.Content, -1) {
			if m[0] == m[1] {
				continue
			}
			if l.highlights == nil {
				l.highlights = make(map[int]int)
			}
			l.highlights[m[0]] = m[1]
			count++
		}
	}
	l.mu.Unlock()

	if l.group != nil {
		for _, child := range l.group.children {
			count += child.highlight(re)
		}
	}
	return count
}

// Spans returns the line's ranges in the form the composer takes
func (l *Line) Spans() elements.Spans {
	return elements.Spans{
		Content:    l.Content,
		Styles:     l.Styles,
		Links:      l.Links,
		Highlights: l.Highlights(),
	}
}

// Elements returns the display elements for the line. The result is cached
// until the highlights change and must not be modified.
func (l *Line) Elements() []elements.Element {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.cached {
		l.elements = elements.Build(elements.Spans{
			Content:    l.Content,
			Styles:     l.Styles,
			Links:      l.Links,
			Highlights: l.highlights,
		})
		l.cached = true
	}
	return l.elements
}

// compileSearch builds the matcher for a search term. Terms are regular
// expressions; a term that does not compile is matched literally and
// literal is true.
func compileSearch(term string) (re *regexp.Regexp, literal bool) {
	if term == "" {
		return nil, false
	}
	re, err := regexp.Compile("(?i)" + term)
	if err != nil {
		return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term)), true
	}
	return re, false
}
