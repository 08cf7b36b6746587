package io

import (
	"errors"
	"fmt"
	"io"
)

// DefaultBlockSize is the number of bytes read per step of a line search
const DefaultBlockSize = 100

// LineLocator recovers the line that encloses an arbitrary byte offset of
// a data region. Quoting is not understood: only a line break preceded by
// an even run of escape bytes ends a line.
type LineLocator struct {
	r         io.ReaderAt
	start     int64
	end       int64
	block     int
	lineBreak byte
	escape    byte
	buf       []byte
}

// NewLineLocator searches the region [start, end) of r. start must be the
// first byte of a line. A zero escape disables escaping.
func NewLineLocator(r io.ReaderAt, start, end int64, block int, lineBreak, escape byte) *LineLocator {
	if block <= 0 {
		block = DefaultBlockSize
	}
	return &LineLocator{
		r:         r,
		start:     start,
		end:       end,
		block:     block,
		lineBreak: lineBreak,
		escape:    escape,
		buf:       make([]byte, block),
	}
}

// LineAt returns the full line containing offset, including its
// terminating line break when there is one.
func (l *LineLocator) LineAt(offset int64) ([]byte, error) {
	if offset < l.start || offset >= l.end {
		return nil, fmt.Errorf("offset %d outside data region [%d, %d)", offset, l.start, l.end)
	}

	prefix, err := l.searchBackward(offset)
	if err != nil {
		return nil, err
	}

	rest, err := l.searchForward(offset, l.trailingEscapes(prefix)%2 == 1)
	if err != nil {
		return nil, err
	}

	line := make([]byte, 0, len(prefix)+len(rest))
	line = append(line, prefix...)
	return append(line, rest...), nil
}

// searchBackward reads blocks ending at offset until it finds the line
// break that ends the previous line, and returns the bytes after it.
func (l *LineLocator) searchBackward(offset int64) ([]byte, error) {
	var prefix []byte
	pos := offset
	// i is the next index of prefix to examine, moving towards 0
	i := -1

	for {
		if pos > l.start {
			from := pos - int64(l.block)
			if from < l.start {
				from = l.start
			}
			chunk := make([]byte, pos-from)
			if err := l.readFull(chunk, from); err != nil {
				return nil, err
			}
			i += len(chunk)
			prefix = append(chunk, prefix...)
			pos = from
		}
		atStart := pos <= l.start

		needMore := false
		for ; i >= 0; i-- {
			if prefix[i] != l.lineBreak {
				continue
			}
			j := i - 1
			for l.escape != 0 && j >= 0 && prefix[j] == l.escape {
				j--
			}
			if j < 0 && !atStart {
				// The escape run may continue in the previous block
				needMore = true
				break
			}
			if (i-1-j)%2 == 0 {
				return prefix[i+1:], nil
			}
		}

		if !needMore && atStart {
			return prefix, nil
		}
	}
}

// searchForward reads from offset to the next unescaped line break or the
// end of the region.
func (l *LineLocator) searchForward(offset int64, escaped bool) ([]byte, error) {
	var rest []byte
	pos := offset

	for pos < l.end {
		n := int64(l.block)
		if pos+n > l.end {
			n = l.end - pos
		}
		chunk := l.buf[:n]
		if err := l.readFull(chunk, pos); err != nil {
			return nil, err
		}

		for k, c := range chunk {
			switch {
			case c == l.lineBreak && !escaped:
				return append(rest, chunk[:k+1]...), nil
			case l.escape != 0 && c == l.escape && !escaped:
				escaped = true
			default:
				escaped = false
			}
		}
		rest = append(rest, chunk...)
		pos += n
	}
	return rest, nil
}

func (l *LineLocator) trailingEscapes(b []byte) int {
	if l.escape == 0 {
		return 0
	}
	n := 0
	for k := len(b) - 1; k >= 0 && b[k] == l.escape; k-- {
		n++
	}
	return n
}

func (l *LineLocator) readFull(p []byte, off int64) error {
	n, err := l.r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("read %d bytes at offset %d: %w", len(p), off, err)
}
