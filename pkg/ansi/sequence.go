// Package ansi decodes inline SGR escape sequences out of log text
package ansi

import "fmt"

// Code identifies a single decoded SGR instruction
type Code uint8

const (
	Reset Code = iota
	Bold
	Italic
	Underline
	NotBold
	NotItalic
	NotUnderline
	SetForeground
	DefaultForeground
	SetBackground
	DefaultBackground
	SetForeground24
	SetBackground24
)

var codeNames = [...]string{
	Reset:             "Reset",
	Bold:              "Bold",
	Italic:            "Italic",
	Underline:         "Underline",
	NotBold:           "NotBold",
	NotItalic:         "NotItalic",
	NotUnderline:      "NotUnderline",
	SetForeground:     "SetForeground",
	DefaultForeground: "DefaultForeground",
	SetBackground:     "SetBackground",
	DefaultBackground: "DefaultBackground",
	SetForeground24:   "SetForeground24",
	SetBackground24:   "SetBackground24",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

// ColorKind tells an absent colour apart from an indexed or RGB one
type ColorKind uint8

const (
	ColorNone ColorKind = iota
	ColorIndex
	ColorRGB
)

// Color is either a palette index or a 24-bit triple. The zero value means
// no colour is set.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// Indexed returns a palette colour
func Indexed(idx uint8) Color {
	return Color{Kind: ColorIndex, Index: idx}
}

// RGB returns a 24-bit colour
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsSet reports whether the colour is present
func (c Color) IsSet() bool {
	return c.Kind != ColorNone
}

func (c Color) String() string {
	switch c.Kind {
	case ColorIndex:
		return fmt.Sprintf("%d", c.Index)
	case ColorRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return "none"
	}
}

// Event is one decoded style instruction. Color is only meaningful for the
// Set* codes.
type Event struct {
	Code  Code
	Color Color
}

func (e Event) String() string {
	switch e.Code {
	case SetForeground, SetBackground, SetForeground24, SetBackground24:
		return fmt.Sprintf("%s(%s)", e.Code, e.Color)
	default:
		return e.Code.String()
	}
}

// Map holds the events found at each offset of the cleaned text. Several
// sequences landing on the same offset share one ordered slice.
type Map map[int][]Event
