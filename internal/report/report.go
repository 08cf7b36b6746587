package report

import (
	"strconv"
	"time"

	"github.com/peekknuf/csvsum/internal/engine"
	"github.com/peekknuf/csvsum/internal/profiler"
)

// Column pairs a column name with its statistics
type Column struct {
	Name  string
	Stats profiler.CellStats
}

// Report is everything a renderer needs for one file
type Report struct {
	Path           string
	Mode           string
	RowCount       int64
	Exact          bool
	Samples        int
	FileSize       int64
	Columns        []Column
	Warnings       []string
	ProcessingTime time.Duration
}

// Assemble pairs names with statistics. Columns beyond the header are
// named by their zero-based index.
func Assemble(res *engine.Result) Report {
	rep := Report{
		Path:           res.Path,
		Mode:           res.Mode.String(),
		RowCount:       res.RowCount,
		Exact:          res.Exact,
		Samples:        res.Samples,
		FileSize:       res.FileSize,
		Warnings:       res.Warnings,
		ProcessingTime: res.ReadTime + res.StatsTime,
		Columns:        make([]Column, len(res.Stats)),
	}

	for i, stats := range res.Stats {
		name := strconv.Itoa(i)
		if i < len(res.Names) {
			name = res.Names[i]
		}
		rep.Columns[i] = Column{Name: name, Stats: stats}
	}
	return rep
}
