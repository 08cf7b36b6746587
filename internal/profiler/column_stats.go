package profiler

// FrequencyTable maps a cell value to its accumulated weight
type FrequencyTable map[string]float64

// Add accumulates weight for value
func (f FrequencyTable) Add(value string, weight float64) {
	f[value] += weight
}

// Total returns the sum of all weights in the table
func (f FrequencyTable) Total() float64 {
	var total float64
	for _, key := range sortedKeys(f) {
		total += f[key]
	}
	return total
}

// Builder accumulates one frequency table per column. Columns are
// discovered as rows arrive: the table slice grows to the widest row seen.
type Builder struct {
	header     bool
	seenHeader bool
	names      []string
	tables     []FrequencyTable
	rows       int64
}

// NewBuilder creates a builder. In header mode the first row added
// supplies the column names and is not counted.
func NewBuilder(header bool) *Builder {
	return &Builder{
		header: header,
		tables: make([]FrequencyTable, 0, 16),
	}
}

// Add records every cell of row with the given weight
func (b *Builder) Add(row []string, weight float64) {
	if b.header && !b.seenHeader {
		b.seenHeader = true
		b.names = append(b.names, row...)
		return
	}

	for len(b.tables) < len(row) {
		b.tables = append(b.tables, make(FrequencyTable))
	}
	for j, value := range row {
		b.tables[j].Add(value, weight)
	}
	b.rows++
}

// SetNames installs column names read outside the row stream, as the
// sampling reader does with the header line.
func (b *Builder) SetNames(names []string) {
	b.names = append(b.names[:0], names...)
	b.seenHeader = true
}

// Names returns the header names, empty without header mode
func (b *Builder) Names() []string {
	return b.names
}

// Tables returns the per-column frequency tables
func (b *Builder) Tables() []FrequencyTable {
	return b.tables
}

// Rows returns the number of data rows added
func (b *Builder) Rows() int64 {
	return b.rows
}

// Overflow reports whether some data row had more cells than the header
func (b *Builder) Overflow() bool {
	return b.header && len(b.tables) > len(b.names)
}

// BuildTables counts cell values per column for a materialized row
// sequence. An empty rowSizes gives every occurrence weight 1; otherwise
// the i-th data row is weighted by 1/rowSizes[i].
func BuildTables(rows [][]string, header bool, rowSizes []int) ([]FrequencyTable, []string) {
	b := NewBuilder(header)
	for i, row := range rows {
		weight := 1.0
		if len(rowSizes) > 0 {
			idx := i
			if header {
				idx--
			}
			if idx >= 0 && rowSizes[idx] > 0 {
				weight = 1 / float64(rowSizes[idx])
			}
		}
		b.Add(row, weight)
	}
	return b.Tables(), b.Names()
}
