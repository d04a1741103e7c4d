package logformat

import (
	"strings"

	"github.com/TimelordUK/actionslog/internal/config"
)

// Level represents the severity of a log line
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelNotice
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// LevelForCommand returns the severity a workflow command implies
func LevelForCommand(cmd Command) Level {
	switch cmd {
	case CommandError:
		return LevelError
	case CommandWarning:
		return LevelWarning
	case CommandNotice:
		return LevelNotice
	case CommandDebug:
		return LevelDebug
	default:
		return LevelUnknown
	}
}

// LevelDetector detects log levels from line content
type LevelDetector struct {
	patterns map[Level][]string
}

// NewLevelDetector creates a detector from config
func NewLevelDetector(cfg *config.LogLevelConfig) *LevelDetector {
	return &LevelDetector{
		patterns: map[Level][]string{
			LevelDebug:   cfg.DebugPatterns,
			LevelNotice:  cfg.NoticePatterns,
			LevelWarning: cfg.WarningPatterns,
			LevelError:   cfg.ErrorPatterns,
		},
	}
}

// Detect returns the level for a line. An annotation command wins over the
// content; otherwise the most severe matching pattern is used.
func (d *LevelDetector) Detect(cmd Command, content string) Level {
	if level := LevelForCommand(cmd); level != LevelUnknown {
		return level
	}

	for _, level := range []Level{LevelError, LevelWarning, LevelNotice, LevelDebug} {
		for _, pattern := range d.patterns[level] {
			if pattern != "" && strings.Contains(content, pattern) {
				return level
			}
		}
	}

	return LevelUnknown
}
