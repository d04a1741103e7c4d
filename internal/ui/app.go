package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/actionslog/internal/config"
)

// followInterval is how often followed files are checked for growth
const followInterval = 500 * time.Millisecond

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeGoto
)

type followTickMsg time.Time

// Model is the main application model
type Model struct {
	pane        *Pane
	keys        keyMap
	searchInput textinput.Model

	mode   Mode
	width  int
	height int

	// search term to restore when a search is abandoned
	prevSearch string

	showLineNumbers bool
	showTimestamps  bool

	// Styling
	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style

	// Status
	message string
	err     error
}

// NewModel creates the application model for a loaded pane
func NewModel(pane *Pane, cfg *config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 256

	pane.Viewport().SetSize(80, 22)

	return &Model{
		pane:        pane,
		keys:        newKeyMap(cfg.Keybindings),
		searchInput: ti,
		mode:        ModeNormal,

		showLineNumbers: cfg.Display.ShowLineNumbers,
		showTimestamps:  cfg.Display.ShowTimestamps,

		statusStyle: lipgloss.NewStyle().
			Background(lipgloss.Color(cfg.Theme.StatusBar)).
			Foreground(lipgloss.Color(cfg.Theme.StatusBarText)),
		helpStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.LineNumbers)),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	if m.pane.CanFollow() {
		return followTick()
	}
	return nil
}

func followTick() tea.Cmd {
	return tea.Tick(followInterval, func(t time.Time) tea.Msg {
		return followTickMsg(t)
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve 2 lines for status bar
		m.pane.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case followTickMsg:
		if _, err := m.pane.CheckForNewLines(); err != nil {
			m.err = err
		}
		return m, followTick()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle mode-specific input
	if m.mode == ModeSearch {
		return m.handleSearchKey(msg)
	}
	if m.mode == ModeGoto {
		return m.handleGotoKey(msg)
	}

	m.message = ""
	m.err = nil
	vp := m.pane.Viewport()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.prevSearch = m.pane.SearchTerm()
		m.searchInput.Placeholder = "Search..."
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Goto):
		m.mode = ModeGoto
		m.searchInput.Placeholder = "Line number..."
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ClearSearch):
		m.pane.ClearSearch()
	case key.Matches(msg, m.keys.NextMatch):
		if !m.pane.NextSearchResult() && m.pane.SearchTerm() != "" {
			m.message = "no more matches"
		}
	case key.Matches(msg, m.keys.PrevMatch):
		if !m.pane.PrevSearchResult() && m.pane.SearchTerm() != "" {
			m.message = "no more matches"
		}

	case key.Matches(msg, m.keys.ToggleGroup):
		m.pane.ToggleGroup()
	case key.Matches(msg, m.keys.ExpandAll):
		m.pane.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		m.pane.CollapseAll()

	case key.Matches(msg, m.keys.Follow):
		if !m.pane.CanFollow() {
			m.message = "follow needs -f"
		} else if m.pane.ToggleFollowing() {
			m.message = "following"
		}

	case key.Matches(msg, m.keys.LineNumbers):
		m.showLineNumbers = !m.showLineNumbers
		vp.SetShowLineNumbers(m.showLineNumbers)
	case key.Matches(msg, m.keys.Timestamps):
		m.showTimestamps = !m.showTimestamps
		vp.SetShowTimestamps(m.showTimestamps)
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.pane.PerformSearch(m.searchInput.Value())
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.pane.PerformSearch(m.prevSearch)
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// highlight as the term is typed
	m.pane.PerformSearch(m.searchInput.Value())
	return m, cmd
}

func (m *Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if n, err := strconv.Atoi(strings.TrimSpace(m.searchInput.Value())); err == nil {
			if !m.pane.GotoLine(n) {
				m.message = fmt.Sprintf("no line %d", n)
			}
		}
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	// Main content
	builder.WriteString(m.pane.Render())
	builder.WriteString("\n")

	var status string
	switch m.mode {
	case ModeSearch:
		status = "/" + m.searchInput.View()
	case ModeGoto:
		status = ":" + m.searchInput.View()
	default:
		status = m.statusLine()
	}

	builder.WriteString(m.statusStyle.Width(m.width).Render(status))
	builder.WriteString("\n")

	// Help line
	builder.WriteString(m.helpStyle.Render(m.keys.helpLine()))

	return builder.String()
}

func (m *Model) statusLine() string {
	vp := m.pane.Viewport()
	lineInfo := fmt.Sprintf("L%d/%d", vp.Cursor()+1, vp.LineCount())
	percent := fmt.Sprintf("%.0f%%", vp.PercentScrolled())

	var extra []string
	if term := m.pane.SearchTerm(); term != "" {
		extra = append(extra, fmt.Sprintf("[/%s: %d matches]", term, m.pane.Matches()))
	}
	if m.pane.IsFollowing() {
		extra = append(extra, "[FOLLOW]")
	}
	if m.err != nil {
		extra = append(extra, "error: "+m.err.Error())
	} else if m.message != "" {
		extra = append(extra, m.message)
	}

	status := fmt.Sprintf(" %s  %s  %s", m.pane.Title(), lineInfo, percent)
	if len(extra) > 0 {
		status += "  " + strings.Join(extra, " ")
	}
	return status
}

// Close cleans up resources
func (m *Model) Close() error {
	return m.pane.Close()
}
