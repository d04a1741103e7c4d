package source

import (
	"errors"
	"fmt"

	"github.com/TimelordUK/actionslog/internal/index"
	logio "github.com/TimelordUK/actionslog/internal/io"
)

var _ LineProvider = (*FileSource)(nil)

// FileSource provides raw lines from a single log file
type FileSource struct {
	file      *logio.MappedFile
	lineIndex *index.LineIndex
	path      string
	info      *SourceInfo

	// lines already handed out by Next
	consumed int
}

// NewFileSource creates a new file source
func NewFileSource(path string) (*FileSource, error) {
	file, err := logio.OpenMapped(path)
	if err != nil {
		return nil, err
	}

	lineIndex, err := index.BuildLineIndex(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("index %s: %w", path, err)
	}

	return &FileSource{
		file:      file,
		lineIndex: lineIndex,
		path:      path,
		info:      &SourceInfo{Path: path},
	}, nil
}

// LineCount returns total number of lines
func (s *FileSource) LineCount() int {
	return s.lineIndex.LineCount()
}

// GetLine returns line at index
func (s *FileSource) GetLine(idx int) (*Line, error) {
	content, err := s.lineIndex.GetLine(idx)
	if err != nil {
		return nil, err
	}
	if content == nil && (idx < 0 || idx >= s.LineCount()) {
		return nil, nil
	}
	return s.line(idx, content), nil
}

// GetLines returns a range of lines
func (s *FileSource) GetLines(start, count int) ([]*Line, error) {
	rawLines, err := s.lineIndex.GetLines(start, count)
	if err != nil {
		return nil, err
	}

	lines := make([]*Line, len(rawLines))
	for i, content := range rawLines {
		lines[i] = s.line(max(start, 0)+i, content)
	}
	return lines, nil
}

// Strings returns every line of the file as text
func (s *FileSource) Strings() ([]string, error) {
	raw, err := s.lineIndex.GetLines(0, s.LineCount())
	if err != nil {
		return nil, err
	}
	out := make([]string, len(raw))
	for i, b := range raw {
		out[i] = string(b)
	}
	return out, nil
}

// Next returns the complete lines not yet returned by a previous call. A
// final line without a newline is held back until it is terminated, since
// the runner may still be writing it.
func (s *FileSource) Next() ([]string, error) {
	end := s.lineIndex.CompleteLines()
	if end <= s.consumed {
		return nil, nil
	}
	raw, err := s.lineIndex.GetLines(s.consumed, end-s.consumed)
	if err != nil {
		return nil, err
	}
	s.consumed = end

	out := make([]string, len(raw))
	for i, b := range raw {
		out[i] = string(b)
	}
	return out, nil
}

// Close closes the file source
func (s *FileSource) Close() error {
	return s.file.Close()
}

// Path returns the file path
func (s *FileSource) Path() string {
	return s.path
}

// SetIndex records the position of this file in a multi-file read
func (s *FileSource) SetIndex(i int) {
	s.info = &SourceInfo{Path: s.path, Index: i}
}

// Refresh checks if file has grown and indexes new lines. It returns the
// number of lines added; a truncated file is reported as ErrTruncated.
func (s *FileSource) Refresh() (int, error) {
	oldLineCount := s.lineIndex.LineCount()

	oldSize, err := s.file.Refresh()
	if err != nil {
		if errors.Is(err, logio.ErrTruncated) {
			return 0, fmt.Errorf("refresh %s: %w", s.path, err)
		}
		return 0, err
	}
	if oldSize == s.file.Size() {
		return 0, nil
	}

	if err := s.lineIndex.AppendNewLines(oldSize); err != nil {
		return 0, fmt.Errorf("index %s: %w", s.path, err)
	}

	return s.lineIndex.LineCount() - oldLineCount, nil
}

func (s *FileSource) line(idx int, content []byte) *Line {
	return &Line{
		Content:       string(content),
		Source:        s.info,
		OriginalIndex: idx,
	}
}
