package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// DefaultBufferSize is the read buffer used for sequential scans
const DefaultBufferSize = 64 * 1024

// Source is an open data file. It is acquired once per summarization and
// must be closed by the caller on every path.
type Source struct {
	file *os.File
	path string
	size int64
}

// Open opens path for reading and records its size
func Open(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if fileInfo.IsDir() {
		file.Close()
		return nil, fmt.Errorf("path is a directory: %s", path)
	}

	return &Source{
		file: file,
		path: path,
		size: fileInfo.Size(),
	}, nil
}

// ReadAt implements io.ReaderAt
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	return s.file.ReadAt(p, off)
}

// Reader returns a buffered sequential reader starting at off
func (s *Source) Reader(off int64, bufferSize int) *bufio.Reader {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return bufio.NewReaderSize(io.NewSectionReader(s.file, off, s.size-off), bufferSize)
}

// Size returns the file size in bytes at open time
func (s *Source) Size() int64 {
	return s.size
}

// Path returns the opened path
func (s *Source) Path() string {
	return s.path
}

// Close releases the file handle
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
