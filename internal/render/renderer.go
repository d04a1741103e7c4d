package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/TimelordUK/actionslog/internal/config"
	"github.com/TimelordUK/actionslog/pkg/ansi"
	"github.com/TimelordUK/actionslog/pkg/elements"
	"github.com/TimelordUK/actionslog/pkg/logformat"
	"github.com/TimelordUK/actionslog/pkg/parser"
)

// Renderer turns a parsed line into terminal text
type Renderer interface {
	Render(line *parser.Line) string
}

var prefixes = map[logformat.Command]string{
	logformat.CommandError:   "Error: ",
	logformat.CommandWarning: "Warning: ",
	logformat.CommandNotice:  "Notice: ",
}

// Prefix returns the label shown before annotation lines, if any
func Prefix(cmd logformat.Command) string {
	return prefixes[cmd]
}

// ElementRenderer draws a line's elements with lipgloss, coloring lines by
// log level and marking links and search matches
type ElementRenderer struct {
	detector   *logformat.LevelDetector
	levels     map[logformat.Level]lipgloss.Style
	link       lipgloss.Style
	match      lipgloss.Style
	header     lipgloss.Style
	commands   *CommandRenderer
	hyperlinks bool
}

// Option configures an ElementRenderer
type Option func(*ElementRenderer)

// WithHyperlinks wraps links in OSC 8 sequences so terminals make them
// clickable
func WithHyperlinks(on bool) Option {
	return func(r *ElementRenderer) {
		r.hyperlinks = on
	}
}

// NewElementRenderer creates a renderer with config
func NewElementRenderer(cfg *config.Config, opts ...Option) *ElementRenderer {
	levelColors := cfg.Theme.Levels
	r := &ElementRenderer{
		detector: logformat.NewLevelDetector(&cfg.LogLevels),
		levels: map[logformat.Level]lipgloss.Style{
			logformat.LevelUnknown: lipgloss.NewStyle(),
			logformat.LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color(levelColors.Debug)),
			logformat.LevelNotice:  lipgloss.NewStyle().Foreground(lipgloss.Color(levelColors.Notice)),
			logformat.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(levelColors.Warning)),
			logformat.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color(levelColors.Error)),
		},
		link: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cfg.Theme.Link)).
			Underline(true),
		match: lipgloss.NewStyle().
			Background(lipgloss.Color(cfg.Theme.SearchMatch)).
			Foreground(lipgloss.Color(cfg.Theme.SearchText)),
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cfg.Theme.GroupHeader)).
			Bold(true),
	}
	if cfg.Display.HighlightCommands {
		r.commands = NewCommandRenderer(cfg.Theme.SyntaxTheme)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws a line
func (r *ElementRenderer) Render(line *parser.Line) string {
	if r.commands != nil && r.commands.Handles(line) {
		return r.commands.Render(line)
	}

	base := r.levels[r.detector.Detect(line.Command, line.Content)]
	if line.IsGroup() {
		base = r.header
	}

	var b strings.Builder
	if prefix := Prefix(line.Command); prefix != "" {
		b.WriteString(base.Bold(true).Render(prefix))
	}
	for _, e := range line.Elements() {
		b.WriteString(r.element(base, e))
	}
	return b.String()
}

func (r *ElementRenderer) element(base lipgloss.Style, e elements.Element) string {
	switch e := e.(type) {
	case elements.Text:
		return base.Render(string(e))
	case elements.StyledText:
		return r.styled(base, e.Style).Render(e.Content)
	case elements.Link:
		var b strings.Builder
		for _, c := range e.Children {
			b.WriteString(r.element(r.link, c))
		}
		if !r.hyperlinks {
			return b.String()
		}
		return xansi.SetHyperlink(e.Href) + b.String() + xansi.ResetHyperlink()
	default:
		return ""
	}
}

// styled layers a decoded SGR style over the base style of the line
func (r *ElementRenderer) styled(base lipgloss.Style, s ansi.Style) lipgloss.Style {
	st := base
	if s.Highlight {
		st = st.Foreground(r.match.GetForeground()).
			Background(r.match.GetBackground())
	} else {
		if s.Foreground.IsSet() {
			st = st.Foreground(color(s.Foreground))
		}
		if s.Background.IsSet() {
			st = st.Background(color(s.Background))
		}
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	return st
}

// color maps a decoded color onto lipgloss: palette indexes as ANSI-256
// numbers, RGB triples as hex
func color(c ansi.Color) lipgloss.TerminalColor {
	if !c.IsSet() {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c.String())
}

// PlainRenderer renders without styling
type PlainRenderer struct{}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// Render returns the line content with its annotation label
func (r *PlainRenderer) Render(line *parser.Line) string {
	return Prefix(line.Command) + line.Content
}
