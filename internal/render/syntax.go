package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/TimelordUK/actionslog/pkg/logformat"
	"github.com/TimelordUK/actionslog/pkg/parser"
)

// CommandRenderer highlights the shell a step runs. The runner echoes it on
// ##[command] lines.
type CommandRenderer struct {
	lexerName   string
	syntaxTheme string
}

// NewCommandRenderer creates a shell highlighter using a chroma style
func NewCommandRenderer(theme string) *CommandRenderer {
	lexerName := "plaintext"
	if lexer := lexers.Get("bash"); lexer != nil {
		lexerName = lexer.Config().Name
	}
	if styles.Get(theme) == styles.Fallback {
		theme = "monokai"
	}

	return &CommandRenderer{
		lexerName:   lexerName,
		syntaxTheme: theme,
	}
}

// Handles reports whether the line is a command echo with no styling of its
// own. Search matches fall through to the element renderer so they stay
// visible.
func (r *CommandRenderer) Handles(line *parser.Line) bool {
	return line.Command == logformat.CommandCommand &&
		len(line.Styles) == 0 &&
		line.Highlights() == nil
}

// Render applies syntax highlighting to a command line
func (r *CommandRenderer) Render(line *parser.Line) string {
	content := line.Content
	if content == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, content, r.lexerName, "terminal16m", r.syntaxTheme); err != nil {
		return content
	}

	// Remove any newlines that quick.Highlight adds
	highlighted := buf.String()
	highlighted = strings.ReplaceAll(highlighted, "\n", "")
	highlighted = strings.ReplaceAll(highlighted, "\r", "")
	return highlighted
}
