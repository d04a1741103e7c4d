// Package logformat recognises the parts of a CI log line that sit outside
// its text: the timestamp prefix, workflow command tags, links and severity.
package logformat

import "strings"

// Command is a workflow command tag such as ##[group]
type Command uint8

const (
	CommandNone Command = iota
	CommandCommand
	CommandDebug
	CommandError
	CommandNotice
	CommandWarning
	CommandGroup
	CommandEndGroup
	CommandSection
)

var commandNames = map[Command]string{
	CommandCommand:  "command",
	CommandDebug:    "debug",
	CommandError:    "error",
	CommandNotice:   "notice",
	CommandWarning:  "warning",
	CommandGroup:    "group",
	CommandEndGroup: "endgroup",
	CommandSection:  "section",
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, len(commandNames))
	for cmd, name := range commandNames {
		m[name] = cmd
	}
	return m
}()

// Commands lists every recognised command in declaration order
func Commands() []Command {
	return []Command{
		CommandCommand, CommandDebug, CommandError, CommandNotice,
		CommandWarning, CommandGroup, CommandEndGroup, CommandSection,
	}
}

// ParseCommand looks up a command by its exact tag text
func ParseCommand(name string) (Command, bool) {
	cmd, ok := commandsByName[name]
	return cmd, ok
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return ""
}

// ExtractCommand strips a leading "##[cmd]" or "[cmd]" tag. Tags outside the
// known vocabulary, or a missing closing bracket, leave the line unchanged.
func ExtractCommand(line string) (Command, string) {
	var start int
	switch {
	case strings.HasPrefix(line, "##["):
		start = 3
	case strings.HasPrefix(line, "["):
		start = 1
	default:
		return CommandNone, line
	}

	end := strings.IndexByte(line, ']')
	if end < start {
		return CommandNone, line
	}

	if cmd, ok := ParseCommand(line[start:end]); ok {
		return cmd, line[end+1:]
	}
	return CommandNone, line
}
