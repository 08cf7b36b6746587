package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoted() Dialect {
	d := DefaultDialect()
	d.Quote = '"'
	return d
}

func TestStepPriority(t *testing.T) {
	d := quoted()

	tests := []struct {
		name   string
		state  State
		c      byte
		want   State
		action Action
	}{
		{"quote opens", State{}, '"', State{Quoted: true}, ActionSkip},
		{"quote closes", State{Quoted: true}, '"', State{}, ActionSkip},
		{"escaped quote is literal", State{Escaped: true}, '"', State{}, ActionAppend},
		{"separator ends cell", State{}, ',', State{}, ActionEndCell},
		{"line break ends row", State{}, '\n', State{}, ActionEndRow},
		{"quoted separator is literal", State{Quoted: true}, ',', State{Quoted: true}, ActionAppend},
		{"quoted line break is literal", State{Quoted: true}, '\n', State{Quoted: true}, ActionAppend},
		{"escaped separator is literal", State{Escaped: true}, ',', State{}, ActionAppend},
		{"escape sets flag", State{}, '\\', State{Escaped: true}, ActionSkip},
		{"escaped escape is literal", State{Escaped: true}, '\\', State{}, ActionAppend},
		{"escape inside quotes", State{Quoted: true}, '\\', State{Quoted: true, Escaped: true}, ActionSkip},
		{"plain byte", State{}, 'x', State{}, ActionAppend},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, action := Step(d, tc.state, tc.c)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.action, action)
		})
	}
}

func TestStepQuoteDisabled(t *testing.T) {
	d := DefaultDialect()

	s, action := Step(d, State{}, '"')
	assert.Equal(t, State{}, s)
	assert.Equal(t, ActionAppend, action)

	// A zero byte in the input must not toggle quoting either
	s, action = Step(d, State{}, 0)
	assert.Equal(t, State{}, s)
	assert.Equal(t, ActionAppend, action)
}

func TestTokenizeEscapedDelimiter(t *testing.T) {
	rows := Tokenize(DefaultDialect(), []byte("a\\,b,c\n"))
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a,b", "c"}, rows[0])
}

func TestTokenizeQuotedLineBreak(t *testing.T) {
	rows := Tokenize(quoted(), []byte("\"first\nline\",1\nsecond,2\n"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"first\nline", "1"}, rows[0])
	assert.Equal(t, []string{"second", "2"}, rows[1])
}

func TestTokenizeTrailingLineBreak(t *testing.T) {
	rows := Tokenize(DefaultDialect(), []byte("a,b\nc,d\n"))
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)

	rows = Tokenize(DefaultDialect(), []byte("a,b\nc,d"))
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}

func TestTokenizeEmptyCells(t *testing.T) {
	rows := Tokenize(DefaultDialect(), []byte(",\n,,x\n"))
	assert.Equal(t, [][]string{{"", ""}, {"", "", "x"}}, rows)
}

func TestTokenizerCounters(t *testing.T) {
	var got [][]string
	tok := NewTokenizer(DefaultDialect(), func(row []string) { got = append(got, row) })

	n, err := tok.Write([]byte("h1,h2\n1,2"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, int64(9), tok.Consumed())
	assert.Equal(t, int64(1), tok.Rows())

	tok.Flush()
	assert.Equal(t, int64(2), tok.Rows())
	assert.Equal(t, [][]string{{"h1", "h2"}, {"1", "2"}}, got)
}

func TestTokenizerReset(t *testing.T) {
	var got [][]string
	tok := NewTokenizer(quoted(), func(row []string) { got = append(got, row) })

	tok.Write([]byte("\"unbalanced,x"))
	assert.True(t, tok.State().Quoted)

	tok.Reset()
	assert.Equal(t, State{}, tok.State())

	tok.Write([]byte("a,b\n"))
	assert.Equal(t, [][]string{{"a", "b"}}, got)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, byte(';'), DetectDelimiter([]byte("a;b;c\n1;2;3\n"), '\n'))
	assert.Equal(t, byte('\t'), DetectDelimiter([]byte("a\tb\n1\t2\n"), '\n'))
	assert.Equal(t, byte(','), DetectDelimiter([]byte("single\n"), '\n'))
}
