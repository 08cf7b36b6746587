package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

var cellEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// formatFloat prints four significant digits
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}

// FrequentValues joins the most frequent values, highest weight first
func FrequentValues(c Column) string {
	values := make([]string, len(c.Stats.MostFrequent))
	for i, v := range c.Stats.MostFrequent {
		values[i] = cellEscaper.Replace(v)
	}
	return strings.Join(values, ", ")
}

// Headers are the column titles shared by every renderer
var Headers = []string{
	"Column",
	"Numeric Vals (%)",
	"Avg",
	"Min",
	"Max",
	"No Distinct",
	"Frequent Vals",
}

// Row renders one column as strings. Numeric cells are blank when the
// column has no numeric values.
func Row(c Column) []string {
	row := []string{
		cellEscaper.Replace(c.Name),
		formatFloat(c.Stats.FloatFrac * 100),
		"", "", "",
		strconv.Itoa(c.Stats.DistinctCount),
		FrequentValues(c),
	}
	if c.Stats.HasNumericRows {
		row[2] = formatFloat(c.Stats.Avg)
		row[3] = formatFloat(c.Stats.Min)
		row[4] = formatFloat(c.Stats.Max)
	}
	return row
}

// WriteTable renders one report as an aligned text table
func WriteTable(w io.Writer, rep Report, verbose bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s (%s)\n", rep.Path, humanize.Bytes(uint64(rep.FileSize)))
	if rep.Exact {
		fmt.Fprintf(&b, "Total no rows: %s\n", humanize.Comma(rep.RowCount))
	} else {
		fmt.Fprintf(&b, "Estimated total no rows: %s\n", humanize.Comma(rep.RowCount))
		fmt.Fprintf(&b, "Statistics on sample of size %s:\n", humanize.Comma(int64(rep.Samples)))
	}
	if verbose {
		fmt.Fprintf(&b, "Processing time: %v\n", rep.ProcessingTime)
	}
	for _, warning := range rep.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(Headers, "\t"))
	fmt.Fprintln(tw, strings.Join(separatorRow(), "\t"))
	for _, c := range rep.Columns {
		fmt.Fprintln(tw, strings.Join(Row(c), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func separatorRow() []string {
	row := make([]string, len(Headers))
	for i, h := range Headers {
		row[i] = strings.Repeat("-", len(h))
	}
	return row
}
