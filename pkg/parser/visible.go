package parser

import "github.com/TimelordUK/actionslog/pkg/elements"

// Pointer addresses a line in the flattened view: a top-level index and,
// for grouped lines, the index within the group. Child is -1 for top-level
// lines.
type Pointer struct {
	Index int
	Child int
}

// IsChild reports whether the pointer addresses a grouped line
func (ptr Pointer) IsChild() bool {
	return ptr.Child >= 0
}

// VisibleLines returns the flattened view: every top-level line followed by
// the children of its group when that group is open. The slice is cached
// until lines are added or a group is toggled, and must not be modified.
func (p *Parser) VisibleLines() []Pointer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.visibleValid {
		return p.visible
	}

	visible := make([]Pointer, 0, len(p.lines))
	for i, line := range p.lines {
		visible = append(visible, Pointer{Index: i, Child: -1})
		if line.group == nil || !line.group.open {
			continue
		}
		for j := range line.group.children {
			visible = append(visible, Pointer{Index: i, Child: j})
		}
	}
	p.visible = visible
	p.visibleValid = true
	return visible
}

// VisibleCount returns the number of lines in the flattened view
func (p *Parser) VisibleCount() int {
	return len(p.VisibleLines())
}

// LineAt returns the line a pointer addresses
func (p *Parser) LineAt(ptr Pointer) (*Line, bool) {
	if ptr.Index < 0 || ptr.Index >= len(p.lines) {
		return nil, false
	}
	line := p.lines[ptr.Index]
	if !ptr.IsChild() {
		return line, true
	}
	if line.group == nil || ptr.Child >= len(line.group.children) {
		return nil, false
	}
	return line.group.children[ptr.Child], true
}

// VisibleLine returns the line at position i of the flattened view
func (p *Parser) VisibleLine(i int) (*Line, bool) {
	visible := p.VisibleLines()
	if i < 0 || i >= len(visible) {
		return nil, false
	}
	return p.LineAt(visible[i])
}

// Elements returns the display elements of the line a pointer addresses
func (p *Parser) Elements(ptr Pointer) []elements.Element {
	line, ok := p.LineAt(ptr)
	if !ok {
		return nil
	}
	return line.Elements()
}

// OnVisibleChange registers fn to be called whenever the flattened view is
// invalidated
func (p *Parser) OnVisibleChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

func (p *Parser) invalidate() {
	p.mu.Lock()
	p.visibleValid = false
	p.visible = nil
	subscribers := append([]func(){}, p.subscribers...)
	p.mu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}
