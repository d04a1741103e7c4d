package ansi

// Style is the accumulated rendition state of a run of text. Highlight marks
// search matches and is never touched by SGR events.
type Style struct {
	Bold       bool
	Italic     bool
	Underline  bool
	Highlight  bool
	Foreground Color
	Background Color
}

// IsEmpty reports whether the style carries no attributes at all
func (s Style) IsEmpty() bool {
	return !s.Bold && !s.Italic && !s.Underline && !s.Highlight &&
		!s.Foreground.IsSet() && !s.Background.IsSet()
}

// Apply updates the style with a single event
func (s *Style) Apply(e Event) {
	switch e.Code {
	case Reset:
		highlight := s.Highlight
		*s = Style{Highlight: highlight}
	case Bold:
		s.Bold = true
	case Italic:
		s.Italic = true
	case Underline:
		s.Underline = true
	case NotBold:
		s.Bold = false
	case NotItalic:
		s.Italic = false
	case NotUnderline:
		s.Underline = false
	case SetForeground, SetForeground24:
		s.Foreground = e.Color
	case DefaultForeground:
		s.Foreground = Color{}
	case SetBackground, SetBackground24:
		s.Background = e.Color
	case DefaultBackground:
		s.Background = Color{}
	}
}

// ApplyAll applies events in order
func (s *Style) ApplyAll(events []Event) {
	for _, e := range events {
		s.Apply(e)
	}
}
