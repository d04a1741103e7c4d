package index

import (
	"bytes"

	logio "github.com/TimelordUK/actionslog/internal/io"
)

// chunkSize is how much of the mapping is scanned for newlines at a time
const chunkSize = 64 * 1024

// LineIndex stores the byte offset where each line of a file starts
type LineIndex struct {
	offsets []int64
	file    *logio.MappedFile
}

// BuildLineIndex scans the file and builds a line offset index. An empty
// file has no lines.
func BuildLineIndex(file *logio.MappedFile) (*LineIndex, error) {
	// Estimate initial capacity (Actions lines run ~100 bytes)
	idx := &LineIndex{
		offsets: make([]int64, 0, file.Size()/100+1),
		file:    file,
	}
	if err := idx.scan(0); err != nil {
		return nil, err
	}
	return idx, nil
}

// AppendNewLines indexes bytes added to the file after oldSize
func (idx *LineIndex) AppendNewLines(oldSize int64) error {
	return idx.scan(oldSize)
}

func (idx *LineIndex) scan(from int64) error {
	size := idx.file.Size()
	if from >= size {
		return nil
	}
	switch {
	case from == 0:
		idx.offsets = append(idx.offsets[:0], 0)
	case idx.file.At(from-1) == '\n':
		// the old data ended on a newline, so a new line starts here
		idx.offsets = append(idx.offsets, from)
	}

	buf := make([]byte, chunkSize)
	for pos := from; pos < size; {
		n, err := idx.file.ReadAt(buf[:min(int64(chunkSize), size-pos)], pos)
		if err != nil {
			return err
		}

		chunk := buf[:n]
		for off := 0; ; {
			i := bytes.IndexByte(chunk[off:], '\n')
			if i == -1 {
				break
			}
			if start := pos + int64(off+i) + 1; start < size {
				idx.offsets = append(idx.offsets, start)
			}
			off += i + 1
		}
		pos += int64(n)
	}
	return nil
}

// LineCount returns the total number of lines, a trailing unterminated one
// included
func (idx *LineIndex) LineCount() int {
	return len(idx.offsets)
}

// CompleteLines returns the number of newline-terminated lines
func (idx *LineIndex) CompleteLines() int {
	n := len(idx.offsets)
	if n == 0 {
		return 0
	}
	if size := idx.file.Size(); idx.file.At(size-1) != '\n' {
		return n - 1
	}
	return n
}

// GetLine returns the content of line at given index (0-based) without its
// line ending
func (idx *LineIndex) GetLine(lineNum int) ([]byte, error) {
	if lineNum < 0 || lineNum >= len(idx.offsets) {
		return nil, nil
	}

	start := idx.offsets[lineNum]
	end := idx.file.Size()
	if lineNum+1 < len(idx.offsets) {
		end = idx.offsets[lineNum+1]
	}

	content, err := idx.file.ReadRange(start, end)
	if err != nil {
		return nil, err
	}

	content = bytes.TrimSuffix(content, []byte("\n"))
	content = bytes.TrimSuffix(content, []byte("\r"))
	return content, nil
}

// GetLines returns a range of lines
func (idx *LineIndex) GetLines(start, count int) ([][]byte, error) {
	if start < 0 {
		start = 0
	}
	if start >= len(idx.offsets) {
		return nil, nil
	}
	if start+count > len(idx.offsets) {
		count = len(idx.offsets) - start
	}

	lines := make([][]byte, count)
	for i := range count {
		line, err := idx.GetLine(start + i)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

// ByteOffset returns the byte offset of a line
func (idx *LineIndex) ByteOffset(lineNum int) int64 {
	if lineNum < 0 || lineNum >= len(idx.offsets) {
		return -1
	}
	return idx.offsets[lineNum]
}
