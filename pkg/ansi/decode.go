package ansi

import (
	"strconv"
	"strings"

	"fortio.org/safecast"
)

const esc = '\x1b'

// Decode strips SGR sequences from text and returns the cleaned string along
// with the events keyed by the offset in the cleaned string at which they take
// effect. Offsets are byte offsets.
//
// A sequence that cannot be decoded is not skipped as a unit: only its ESC byte
// is copied through and scanning resumes at the following byte, so the rest of
// the sequence ends up in the output as ordinary text.
func Decode(text string) (string, Map) {
	var (
		out    strings.Builder
		events Map
	)
	out.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if text[i] == esc && i+1 < len(text) && text[i+1] == '[' {
			rest := text[i+2:]
			if end := strings.IndexByte(rest, 'm'); end >= 0 {
				if matched := parseSequence(rest[:end]); len(matched) > 0 {
					if events == nil {
						events = Map{}
					}
					off := out.Len()
					events[off] = append(events[off], matched...)
					i += 2 + end
					continue
				}
			}
		}
		out.WriteByte(text[i])
	}

	return out.String(), events
}

// Strip returns text without any decodable SGR sequences
func Strip(text string) string {
	cleaned, _ := Decode(text)
	return cleaned
}

// parseSequence turns the parameter bytes between "ESC[" and "m" into events.
// It returns nil when any parameter is malformed or the codes do not form a
// complete instruction list.
func parseSequence(params string) []Event {
	parts := strings.Split(params, ";")
	codes := make([]uint8, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			codes = append(codes, 0)
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		v, err := safecast.Conv[uint8](n)
		if err != nil {
			return nil
		}
		codes = append(codes, v)
	}
	return matchSequences(codes)
}

// matchSequences consumes codes left to right. Any unknown code or truncated
// extended colour invalidates the whole list.
func matchSequences(codes []uint8) []Event {
	var events []Event

	next := func() (uint8, bool) {
		if len(codes) == 0 {
			return 0, false
		}
		c := codes[0]
		codes = codes[1:]
		return c, true
	}

	for len(codes) > 0 {
		code, _ := next()
		switch {
		case code == 0:
			events = append(events, Event{Code: Reset})
		case code == 1:
			events = append(events, Event{Code: Bold})
		case code == 3:
			events = append(events, Event{Code: Italic})
		case code == 4:
			events = append(events, Event{Code: Underline})
		case code == 22:
			events = append(events, Event{Code: NotBold})
		case code == 23:
			events = append(events, Event{Code: NotItalic})
		case code == 24:
			events = append(events, Event{Code: NotUnderline})
		case code >= 30 && code <= 37:
			events = append(events, Event{Code: SetForeground, Color: Indexed(code - 30)})
		case code == 38, code == 48:
			ev, ok := extendedColor(code == 38, next)
			if !ok {
				return nil
			}
			events = append(events, ev)
		case code == 39:
			events = append(events, Event{Code: DefaultForeground})
		case code >= 40 && code <= 47:
			events = append(events, Event{Code: SetBackground, Color: Indexed(code - 40)})
		case code == 49:
			events = append(events, Event{Code: DefaultBackground})
		case code >= 90 && code <= 97:
			events = append(events, Event{Code: SetForeground, Color: Indexed(code - 90 + 8)})
		case code >= 100 && code <= 107:
			events = append(events, Event{Code: SetBackground, Color: Indexed(code - 100 + 8)})
		default:
			return nil
		}
	}

	return events
}

// extendedColor reads the "5;n" or "2;r;g;b" continuation of a 38/48 code
func extendedColor(foreground bool, next func() (uint8, bool)) (Event, bool) {
	indexed, rgb := SetBackground, SetBackground24
	if foreground {
		indexed, rgb = SetForeground, SetForeground24
	}

	mode, ok := next()
	if !ok {
		return Event{}, false
	}

	switch mode {
	case 5:
		idx, ok := next()
		if !ok {
			return Event{}, false
		}
		return Event{Code: indexed, Color: Indexed(idx)}, true
	case 2:
		r, okR := next()
		g, okG := next()
		b, okB := next()
		if !okR || !okG || !okB {
			return Event{}, false
		}
		return Event{Code: rgb, Color: RGB(r, g, b)}, true
	default:
		return Event{}, false
	}
}
