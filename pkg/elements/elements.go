// Package elements flattens a decoded line into display runs. Link, highlight
// and style ranges may overlap arbitrarily; the output never does.
package elements

import (
	"strings"

	"github.com/TimelordUK/actionslog/pkg/ansi"
)

// Element is one top-level display run: Text, StyledText or Link
type Element interface {
	element()
}

// Inline is an element allowed inside a Link: Text or StyledText
type Inline interface {
	Element
	inline()
}

// Text is an unstyled run
type Text string

// StyledText is a run carrying a non-empty style
type StyledText struct {
	Content string
	Style   ansi.Style
}

// Link wraps the runs that make up a URL
type Link struct {
	Href     string
	Children []Inline
}

func (Text) element()       {}
func (Text) inline()        {}
func (StyledText) element() {}
func (StyledText) inline()  {}
func (Link) element()       {}

// Spans is everything the composer needs from a line. All offsets are byte
// offsets into Content.
type Spans struct {
	Content    string
	Styles     ansi.Map
	Links      map[int]int
	Highlights map[int]int
}

// TextOf returns the text an element displays
func TextOf(e Element) string {
	switch e := e.(type) {
	case Text:
		return string(e)
	case StyledText:
		return e.Content
	case Link:
		var b strings.Builder
		for _, c := range e.Children {
			b.WriteString(TextOf(c))
		}
		return b.String()
	default:
		return ""
	}
}

// Join concatenates the text of elements
func Join(elems []Element) string {
	var b strings.Builder
	for _, e := range elems {
		b.WriteString(TextOf(e))
	}
	return b.String()
}

type builder struct {
	out []Element

	text  strings.Builder
	style ansi.Style

	link    *Link
	linkEnd int

	highlightEnd int
}

// Build composes the elements for a line
func Build(s Spans) []Element {
	b := &builder{
		linkEnd:      -1,
		highlightEnd: -1,
	}

	for i := 0; i < len(s.Content); i++ {
		if end, ok := s.Links[i]; ok {
			b.flush()
			// a link starting inside another closes the open one first
			b.closeLink()
			b.link = &Link{Href: s.Content[i:end]}
			b.linkEnd = end
		}

		if i == b.linkEnd {
			b.flush()
			b.closeLink()
		}

		next := b.style
		if end, ok := s.Highlights[i]; ok {
			next.Highlight = true
			b.highlightEnd = end
		}
		if i == b.highlightEnd {
			next.Highlight = false
			b.highlightEnd = -1
		}

		if events, ok := s.Styles[i]; ok {
			next.ApplyAll(events)
		}

		if next != b.style {
			b.flush()
			b.style = next
		}

		b.text.WriteByte(s.Content[i])
	}

	b.flush()
	b.closeLink()

	return b.out
}

func (b *builder) flush() {
	if b.text.Len() == 0 {
		return
	}

	var run Inline
	if b.style.IsEmpty() {
		run = Text(b.text.String())
	} else {
		run = StyledText{Content: b.text.String(), Style: b.style}
	}
	b.text.Reset()

	if b.link != nil {
		b.link.Children = append(b.link.Children, run)
		return
	}
	b.out = append(b.out, run)
}

func (b *builder) closeLink() {
	if b.link == nil {
		return
	}
	b.out = append(b.out, *b.link)
	b.link = nil
	b.linkEnd = -1
}
