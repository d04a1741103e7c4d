package logformat

import (
	"strconv"
	"strings"
	"time"
)

// timestampWidth is the width of the prefix Actions writes on completed logs,
// e.g. 2024-01-15T00:14:43.5805748Z, followed by one separator byte
const timestampWidth = 28

// maxEpochMillis bounds the epoch taken from an id to ±100,000,000 days
const maxEpochMillis = 8.64e15

// Now is the clock used when a line carries no usable timestamp
var Now = time.Now

// ExtractTimestamp returns the timestamp of a raw line and the line without it.
//
// Completed logs carry a fixed-width RFC 3339 prefix; it is removed along with
// the separator that follows it. Streamed lines have no prefix but their id is
// "<epoch millis>-<sequence>", which is used instead and leaves the line
// untouched. Anything else gets the current time.
func ExtractTimestamp(raw, id string) (time.Time, string) {
	if len(raw) >= timestampWidth {
		if ts, err := time.Parse(time.RFC3339Nano, raw[:timestampWidth]); err == nil {
			rest := ""
			if len(raw) > timestampWidth {
				rest = raw[timestampWidth+1:]
			}
			return ts, rest
		}
	}

	if id != "" {
		millis, _, _ := strings.Cut(id, "-")
		ms, err := strconv.ParseInt(millis, 10, 64)
		if err == nil && ms >= -maxEpochMillis && ms <= maxEpochMillis {
			return time.UnixMilli(ms), raw
		}
	}

	return Now(), raw
}

// FormatTime formats a timestamp for display
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}

// FormatTimeWithDate formats a timestamp with date for display
func FormatTimeWithDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
