package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// jsonFloat encodes infinities and NaN as the strings "+Inf", "-Inf" and
// "NaN", which plain JSON numbers cannot hold
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return []byte(strconv.Quote(strconv.FormatFloat(v, 'g', -1, 64))), nil
	}
	return json.Marshal(v)
}

type jsonColumn struct {
	Name                string     `json:"name"`
	NumericFraction     float64    `json:"numeric_fraction"`
	HasNumericRows      bool       `json:"has_numeric_rows"`
	Avg                 *jsonFloat `json:"avg,omitempty"`
	Min                 *jsonFloat `json:"min,omitempty"`
	Max                 *jsonFloat `json:"max,omitempty"`
	DistinctCount       int        `json:"distinct_count"`
	MostFrequent        []string   `json:"most_frequent"`
	MostFrequentWeights []float64  `json:"most_frequent_weights"`
}

type jsonReport struct {
	Path     string       `json:"path"`
	Mode     string       `json:"mode"`
	RowCount int64        `json:"row_count"`
	Exact    bool         `json:"exact"`
	Samples  int          `json:"samples,omitempty"`
	FileSize int64        `json:"file_size"`
	Warnings []string     `json:"warnings,omitempty"`
	Columns  []jsonColumn `json:"columns"`
}

func toJSON(rep Report) jsonReport {
	out := jsonReport{
		Path:     rep.Path,
		Mode:     rep.Mode,
		RowCount: rep.RowCount,
		Exact:    rep.Exact,
		Samples:  rep.Samples,
		FileSize: rep.FileSize,
		Warnings: rep.Warnings,
		Columns:  make([]jsonColumn, len(rep.Columns)),
	}
	for i, c := range rep.Columns {
		col := jsonColumn{
			Name:                c.Name,
			NumericFraction:     c.Stats.FloatFrac,
			HasNumericRows:      c.Stats.HasNumericRows,
			DistinctCount:       c.Stats.DistinctCount,
			MostFrequent:        c.Stats.MostFrequent,
			MostFrequentWeights: c.Stats.MostFrequentWeights,
		}
		if c.Stats.HasNumericRows {
			avg, lo, hi := jsonFloat(c.Stats.Avg), jsonFloat(c.Stats.Min), jsonFloat(c.Stats.Max)
			col.Avg, col.Min, col.Max = &avg, &lo, &hi
		}
		out.Columns[i] = col
	}
	return out
}

// WriteJSON writes all reports as one indented JSON array
func WriteJSON(w io.Writer, reps []Report) error {
	out := make([]jsonReport, len(reps))
	for i, rep := range reps {
		out[i] = toJSON(rep)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var sheetNameCleaner = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// sheetName derives a unique, valid worksheet name from a file path
func sheetName(path string, used map[string]bool) string {
	base := sheetNameCleaner.Replace(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if base == "" {
		base = "report"
	}
	if runes := []rune(base); len(runes) > 28 {
		base = string(runes[:28])
	}

	name := base
	for i := 2; used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s~%d", base, i)
	}
	used[strings.ToLower(name)] = true
	return name
}

// WriteXLSX saves one worksheet per report
func WriteXLSX(path string, reps []Report) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	used := make(map[string]bool)

	for i, rep := range reps {
		name := sheetName(rep.Path, used)
		idx, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("failed to create sheet for %s: %w", rep.Path, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, name, rep); err != nil {
			return fmt.Errorf("failed to write sheet for %s: %w", rep.Path, err)
		}
	}

	if len(reps) > 0 && !used[strings.ToLower(defaultSheet)] {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rep Report) error {
	rowsLabel := "Rows"
	if !rep.Exact {
		rowsLabel = "Estimated rows"
	}

	meta := [][]any{
		{"File", rep.Path},
		{rowsLabel, rep.RowCount},
		{"Mode", rep.Mode},
	}
	if !rep.Exact {
		meta = append(meta, []any{"Samples", rep.Samples})
	}

	row := 1
	for _, values := range meta {
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	row++

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := setRow(f, sheet, row, header); err != nil {
		return err
	}
	row++

	for _, c := range rep.Columns {
		values := []any{c.Name, c.Stats.FloatFrac * 100, nil, nil, nil, c.Stats.DistinctCount, FrequentValues(c)}
		if c.Stats.HasNumericRows {
			values[2], values[3], values[4] = sheetFloat(c.Stats.Avg), sheetFloat(c.Stats.Min), sheetFloat(c.Stats.Max)
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

// sheetFloat writes non-finite values as text, spreadsheets have no
// number for them
func sheetFloat(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
