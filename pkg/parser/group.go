package parser

// Group is the run of lines owned by a ##[group] header. It nests exactly one
// level: a new header always closes the group before it.
type Group struct {
	children  []*Line
	ended     bool
	open      bool
	observers []func(open bool)
}

func newGroup() *Group {
	return &Group{open: true}
}

// Children returns the lines inside the group in arrival order
func (g *Group) Children() []*Line {
	return g.children
}

// Len returns the number of children
func (g *Group) Len() int {
	return len(g.children)
}

// Ended reports whether the group has been terminated. An ended group never
// takes more children.
func (g *Group) Ended() bool {
	return g.ended
}

// Open reports whether the group is expanded for display
func (g *Group) Open() bool {
	return g.open
}

// SetOpen expands or collapses the group, notifying observers on change
func (g *Group) SetOpen(open bool) {
	if g.open == open {
		return
	}
	g.open = open
	for _, fn := range g.observers {
		fn(open)
	}
}

// Toggle flips the open state
func (g *Group) Toggle() {
	g.SetOpen(!g.open)
}

// OnOpenChange registers fn to be called whenever the open state changes
func (g *Group) OnOpenChange(fn func(open bool)) {
	g.observers = append(g.observers, fn)
}

func (g *Group) add(l *Line) {
	g.children = append(g.children, l)
}

// end closes the group for good; finished groups start collapsed
func (g *Group) end() {
	g.ended = true
	g.SetOpen(false)
}
