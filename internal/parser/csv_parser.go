package parser

import (
	"fmt"
)

// Action is what the tokenizer does with a single input byte
type Action int

const (
	ActionSkip Action = iota
	ActionAppend
	ActionEndCell
	ActionEndRow
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionAppend:
		return "append"
	case ActionEndCell:
		return "end-cell"
	case ActionEndRow:
		return "end-row"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Dialect contains the single-byte characters that drive tokenization.
// A zero Quote disables quoting, a zero Escape disables escaping.
type Dialect struct {
	Separator byte // Field delimiter
	LineBreak byte // Record terminator
	Escape    byte // Makes the following byte literal
	Quote     byte // Toggles quoted mode
}

// DefaultDialect returns comma separated, newline terminated, backslash
// escaped records with quoting disabled.
func DefaultDialect() Dialect {
	return Dialect{
		Separator: ',',
		LineBreak: '\n',
		Escape:    '\\',
	}
}

// WithoutQuote returns a copy of d with quoting disabled
func (d Dialect) WithoutQuote() Dialect {
	d.Quote = 0
	return d
}

// State is the two-bit state of the tokenizer between bytes
type State struct {
	Escaped bool
	Quoted  bool
}

// Step applies one byte to the state machine. Rules are evaluated in
// priority order: quote toggle, cell/row boundary, escape, literal.
func Step(d Dialect, s State, c byte) (State, Action) {
	if d.Quote != 0 && c == d.Quote && !s.Escaped {
		s.Quoted = !s.Quoted
		return s, ActionSkip
	}

	if (c == d.Separator || c == d.LineBreak) && !s.Quoted && !s.Escaped {
		if c == d.LineBreak {
			return s, ActionEndRow
		}
		return s, ActionEndCell
	}

	if d.Escape != 0 && c == d.Escape && !s.Escaped {
		s.Escaped = true
		return s, ActionSkip
	}

	s.Escaped = false
	return s, ActionAppend
}

// RowFunc receives every completed row. The slice is owned by the callee.
type RowFunc func(row []string)

// Tokenizer turns a byte stream into rows of cells
type Tokenizer struct {
	dialect  Dialect
	state    State
	cell     []byte
	row      []string
	emit     RowFunc
	consumed int64
	rows     int64
}

// NewTokenizer creates a tokenizer that hands completed rows to emit
func NewTokenizer(d Dialect, emit RowFunc) *Tokenizer {
	return &Tokenizer{
		dialect: d,
		cell:    make([]byte, 0, 64),
		row:     make([]string, 0, 16),
		emit:    emit,
	}
}

// WriteByte feeds a single byte
func (t *Tokenizer) WriteByte(c byte) error {
	var action Action
	t.state, action = Step(t.dialect, t.state, c)
	t.consumed++

	switch action {
	case ActionAppend:
		t.cell = append(t.cell, c)
	case ActionEndCell:
		t.closeCell()
	case ActionEndRow:
		t.closeCell()
		t.closeRow()
	}
	return nil
}

// Write feeds p and always consumes all of it
func (t *Tokenizer) Write(p []byte) (int, error) {
	for _, c := range p {
		t.WriteByte(c)
	}
	return len(p), nil
}

// Flush closes a pending row that was not terminated by a line break.
// Nothing is emitted when no byte arrived since the last row.
func (t *Tokenizer) Flush() {
	if len(t.cell) == 0 && len(t.row) == 0 {
		return
	}
	t.closeCell()
	t.closeRow()
}

// Reset discards buffered input and returns to the initial state
func (t *Tokenizer) Reset() {
	t.state = State{}
	t.cell = t.cell[:0]
	t.row = t.row[:0]
}

// State returns the current escape/quote state
func (t *Tokenizer) State() State {
	return t.state
}

// Consumed returns the number of bytes fed so far
func (t *Tokenizer) Consumed() int64 {
	return t.consumed
}

// Rows returns the number of rows emitted so far
func (t *Tokenizer) Rows() int64 {
	return t.rows
}

func (t *Tokenizer) closeCell() {
	t.row = append(t.row, string(t.cell))
	t.cell = t.cell[:0]
}

func (t *Tokenizer) closeRow() {
	row := make([]string, len(t.row))
	copy(row, t.row)
	t.row = t.row[:0]
	t.rows++
	if t.emit != nil {
		t.emit(row)
	}
}

// Tokenize splits data into rows, flushing an unterminated final row
func Tokenize(d Dialect, data []byte) [][]string {
	var rows [][]string
	t := NewTokenizer(d, func(row []string) {
		rows = append(rows, row)
	})
	t.Write(data)
	t.Flush()
	return rows
}

// DetectDelimiter attempts to detect the delimiter in CSV data
func DetectDelimiter(data []byte, lineBreak byte) byte {
	candidates := []byte{',', ';', '\t', '|'}
	counts := make(map[byte]int, len(candidates))

	lines := 0
	for i := 0; i < len(data) && lines < 5; i++ {
		if data[i] == lineBreak {
			lines++
			continue
		}
		for _, delim := range candidates {
			if data[i] == delim {
				counts[delim]++
			}
		}
	}

	// Ties resolve to the earlier candidate
	best := byte(',')
	maxCount := 0
	for _, delim := range candidates {
		if counts[delim] > maxCount {
			maxCount = counts[delim]
			best = delim
		}
	}
	return best
}
