package profiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderHeader(t *testing.T) {
	b := NewBuilder(true)
	b.Add([]string{"col1", "col2"}, 1)
	b.Add([]string{"a", "b"}, 1)
	b.Add([]string{"a", "c"}, 1)

	assert.Equal(t, []string{"col1", "col2"}, b.Names())
	assert.Equal(t, int64(2), b.Rows())
	require.Len(t, b.Tables(), 2)
	assert.Equal(t, FrequencyTable{"a": 2}, b.Tables()[0])
	assert.Equal(t, FrequencyTable{"b": 1, "c": 1}, b.Tables()[1])
	assert.False(t, b.Overflow())
}

func TestBuilderWithoutHeader(t *testing.T) {
	b := NewBuilder(false)
	b.Add([]string{"col1", "col2"}, 1)
	b.Add([]string{"a", "b"}, 1)

	assert.Empty(t, b.Names())
	assert.Equal(t, int64(2), b.Rows())
	assert.Equal(t, FrequencyTable{"col1": 1, "a": 1}, b.Tables()[0])
	assert.False(t, b.Overflow())
}

func TestBuilderDynamicColumns(t *testing.T) {
	b := NewBuilder(true)
	b.Add([]string{"only"}, 1)
	b.Add([]string{"1"}, 1)
	b.Add([]string{"2", "extra", "more"}, 1)
	b.Add([]string{"3", "x"}, 1)

	tables := b.Tables()
	require.Len(t, tables, 3)
	assert.Equal(t, 3.0, tables[0].Total())
	assert.Equal(t, 2.0, tables[1].Total())
	assert.Equal(t, 1.0, tables[2].Total())
	assert.True(t, b.Overflow())
}

func TestBuilderSetNames(t *testing.T) {
	b := NewBuilder(true)
	b.SetNames([]string{"x", "y"})
	b.Add([]string{"1", "2"}, 0.5)

	assert.Equal(t, []string{"x", "y"}, b.Names())
	assert.Equal(t, int64(1), b.Rows())
	assert.Equal(t, FrequencyTable{"1": 0.5}, b.Tables()[0])
}

func TestWeightConservation(t *testing.T) {
	rows := [][]string{{"h1", "h2"}}
	for i := 0; i < 1000; i++ {
		rows = append(rows, []string{fmt.Sprintf("v%d", i%37), fmt.Sprintf("%d", i%11)})
	}

	tables, _ := BuildTables(rows, true, nil)
	for _, table := range tables {
		assert.Equal(t, 1000.0, table.Total())
	}
}

func TestBuildTablesRowSizes(t *testing.T) {
	rows := [][]string{
		{"name"},
		{"short"},
		{"loooooooooong"},
	}

	tables, names := BuildTables(rows, true, []int{6, 14})
	assert.Equal(t, []string{"name"}, names)
	assert.InDelta(t, 1.0/6, tables[0]["short"], 1e-12)
	assert.InDelta(t, 1.0/14, tables[0]["loooooooooong"], 1e-12)

	tables, _ = BuildTables(rows[1:], false, []int{6, 14})
	assert.InDelta(t, 1.0/6, tables[0]["short"], 1e-12)
}
