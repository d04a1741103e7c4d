package io

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
)

// ErrTruncated is returned by Refresh when the file got smaller, as happens
// when a runner rotates or rewrites a log
var ErrTruncated = errors.New("file truncated")

// MappedFile provides memory-mapped read access to a log file
type MappedFile struct {
	reader *mmap.ReaderAt
	size   int64
	path   string
}

// OpenMapped opens a file with memory mapping
func OpenMapped(path string) (*MappedFile, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}

	return &MappedFile{
		reader: reader,
		size:   int64(reader.Len()),
		path:   path,
	}, nil
}

// ReadAt reads len(p) bytes at offset
func (m *MappedFile) ReadAt(p []byte, off int64) (int, error) {
	return m.reader.ReadAt(p, off)
}

// At returns the byte at offset i
func (m *MappedFile) At(i int64) byte {
	return m.reader.At(int(i))
}

// Size returns the mapped size
func (m *MappedFile) Size() int64 {
	return m.size
}

// Path returns the file path
func (m *MappedFile) Path() string {
	return m.path
}

// Close closes the memory mapping
func (m *MappedFile) Close() error {
	return m.reader.Close()
}

// Refresh remaps the file if it has grown and returns the previous size.
// A file that shrank yields ErrTruncated and is left mapped as before.
func (m *MappedFile) Refresh() (int64, error) {
	info, err := os.Stat(m.path)
	if err != nil {
		return m.size, fmt.Errorf("stat %s: %w", m.path, err)
	}

	oldSize := m.size
	newSize := info.Size()
	switch {
	case newSize < oldSize:
		return oldSize, ErrTruncated
	case newSize == oldSize:
		return oldSize, nil
	}

	reader, err := mmap.Open(m.path)
	if err != nil {
		return oldSize, fmt.Errorf("remap %s: %w", m.path, err)
	}
	m.reader.Close()

	m.reader = reader
	m.size = int64(reader.Len())
	return oldSize, nil
}

// ReadRange reads bytes from start to end
func (m *MappedFile) ReadRange(start, end int64) ([]byte, error) {
	if end > m.size {
		end = m.size
	}
	if start >= end {
		return nil, nil
	}

	buf := make([]byte, end-start)
	if _, err := m.reader.ReadAt(buf, start); err != nil {
		return nil, fmt.Errorf("read %s at %d: %w", m.path, start, err)
	}
	return buf, nil
}
