package source

// SourceInfo identifies where a line came from when several logs are read
type SourceInfo struct {
	Path  string
	Index int // which log in a multi-file read
}

// Line is one raw log line, before any parsing
type Line struct {
	Content       string
	Source        *SourceInfo
	OriginalIndex int // line number in the original file
}

// LineProvider gives indexed access to raw lines
type LineProvider interface {
	// LineCount returns total number of lines
	LineCount() int

	// GetLine returns line at index (0-based)
	GetLine(index int) (*Line, error)

	// GetLines returns a range of lines efficiently
	GetLines(start, count int) ([]*Line, error)
}
