package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig      `toml:"theme"`
	LogLevels   LogLevelConfig   `toml:"log_levels"`
	Keybindings KeybindingConfig `toml:"keybindings"`
	Display     DisplayConfig    `toml:"display"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	Name          string         `toml:"name"`
	LineNumbers   string         `toml:"line_numbers"`
	Timestamps    string         `toml:"timestamps"`
	StatusBar     string         `toml:"status_bar"`
	StatusBarText string         `toml:"status_bar_text"`
	SearchMatch   string         `toml:"search_match"`
	SearchText    string         `toml:"search_text"`
	Link          string         `toml:"link"`
	GroupHeader   string         `toml:"group_header"`
	Cursor        string         `toml:"cursor"`
	SyntaxTheme   string         `toml:"syntax_theme"`
	Levels        LogLevelColors `toml:"levels"`
}

// LogLevelColors defines colors for each log level
type LogLevelColors struct {
	Debug   string `toml:"debug"`
	Notice  string `toml:"notice"`
	Warning string `toml:"warning"`
	Error   string `toml:"error"`
}

// LogLevelConfig defines log level detection patterns for lines that carry
// no annotation command
type LogLevelConfig struct {
	DebugPatterns   []string `toml:"debug_patterns"`
	NoticePatterns  []string `toml:"notice_patterns"`
	WarningPatterns []string `toml:"warning_patterns"`
	ErrorPatterns   []string `toml:"error_patterns"`
}

// KeybindingConfig allows customizing keybindings
type KeybindingConfig struct {
	Quit        []string `toml:"quit"`
	ScrollUp    []string `toml:"scroll_up"`
	ScrollDown  []string `toml:"scroll_down"`
	PageUp      []string `toml:"page_up"`
	PageDown    []string `toml:"page_down"`
	Top         []string `toml:"top"`
	Bottom      []string `toml:"bottom"`
	Search      []string `toml:"search"`
	ClearSearch []string `toml:"clear_search"`
	ToggleGroup []string `toml:"toggle_group"`
	ExpandAll   []string `toml:"expand_all"`
	CollapseAll []string `toml:"collapse_all"`
	Follow      []string `toml:"follow"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowLineNumbers   bool `toml:"show_line_numbers"`
	ShowTimestamps    bool `toml:"show_timestamps"`
	HighlightCommands bool `toml:"highlight_commands"`
	StrictLinks       bool `toml:"strict_links"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:          "actions",
			LineNumbers:   "240", // Dark gray
			Timestamps:    "244", // Medium gray
			StatusBar:     "236", // Darker gray background
			StatusBarText: "252", // Light gray text
			SearchMatch:   "226", // Yellow
			SearchText:    "16",  // Black
			Link:          "75",  // Soft blue
			GroupHeader:   "255", // White
			Cursor:        "237",
			SyntaxTheme:   "monokai",
			Levels: LogLevelColors{
				Debug:   "141", // Purple
				Notice:  "75",  // Blue
				Warning: "214", // Orange
				Error:   "196", // Bright red
			},
		},
		LogLevels: LogLevelConfig{
			DebugPatterns:   []string{"[DEBUG]", "DEBUG:"},
			NoticePatterns:  []string{"[NOTICE]", "NOTICE:"},
			WarningPatterns: []string{"[WARN]", "[WARNING]", "WARNING:"},
			ErrorPatterns:   []string{"[ERROR]", "ERROR:", "FATAL:"},
		},
		Keybindings: KeybindingConfig{
			Quit:        []string{"q", "ctrl+c"},
			ScrollUp:    []string{"k", "up"},
			ScrollDown:  []string{"j", "down"},
			PageUp:      []string{"b", "pgup", "ctrl+u"},
			PageDown:    []string{"f", "pgdown", "ctrl+d", " "},
			Top:         []string{"g", "home"},
			Bottom:      []string{"G", "end"},
			Search:      []string{"/"},
			ClearSearch: []string{"esc"},
			ToggleGroup: []string{"enter", "tab"},
			ExpandAll:   []string{"e"},
			CollapseAll: []string{"c"},
			Follow:      []string{"F"},
		},
		Display: DisplayConfig{
			ShowLineNumbers:   true,
			ShowTimestamps:    false,
			HighlightCommands: true,
			StrictLinks:       false,
		},
	}
}

// Load loads config from the default location, falling back to defaults
func Load() (*Config, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads config from path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to the default location
func Save(cfg *Config) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes config to path, creating directories as needed
func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "actionslog", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "actionslog", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
