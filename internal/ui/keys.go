package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/TimelordUK/actionslog/internal/config"
)

// keyMap holds the normal-mode bindings, built from config
type keyMap struct {
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	NextMatch   key.Binding
	PrevMatch   key.Binding
	Goto        key.Binding
	ToggleGroup key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Follow      key.Binding
	LineNumbers key.Binding
	Timestamps  key.Binding
}

func newKeyMap(cfg config.KeybindingConfig) keyMap {
	return keyMap{
		Quit:        binding(cfg.Quit, "quit"),
		Up:          binding(cfg.ScrollUp, "up"),
		Down:        binding(cfg.ScrollDown, "down"),
		PageUp:      binding(cfg.PageUp, "page up"),
		PageDown:    binding(cfg.PageDown, "page down"),
		Top:         binding(cfg.Top, "top"),
		Bottom:      binding(cfg.Bottom, "bottom"),
		Search:      binding(cfg.Search, "search"),
		ClearSearch: binding(cfg.ClearSearch, "clear search"),
		NextMatch:   binding([]string{"n"}, "next match"),
		PrevMatch:   binding([]string{"N"}, "prev match"),
		Goto:        binding([]string{":"}, "goto line"),
		ToggleGroup: binding(cfg.ToggleGroup, "toggle group"),
		ExpandAll:   binding(cfg.ExpandAll, "expand all"),
		CollapseAll: binding(cfg.CollapseAll, "collapse all"),
		Follow:      binding(cfg.Follow, "follow"),
		LineNumbers: binding([]string{"l"}, "line numbers"),
		Timestamps:  binding([]string{"t"}, "timestamps"),
	}
}

func binding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	help := keys[0]
	if help == " " {
		help = "space"
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// helpLine is the one-line summary shown under the status bar
func (k keyMap) helpLine() string {
	var out string
	for _, b := range []key.Binding{k.Down, k.PageDown, k.Top, k.Search, k.NextMatch, k.ToggleGroup, k.ExpandAll, k.CollapseAll, k.Follow, k.Quit} {
		if !b.Enabled() {
			continue
		}
		if out != "" {
			out += "  "
		}
		h := b.Help()
		out += h.Key + ":" + h.Desc
	}
	return out
}
