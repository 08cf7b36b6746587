package profiler

import (
	"container/heap"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultTopK is the number of most frequent values kept per column
const DefaultTopK = 3

// CellStats summarizes one column. Min, Max and Avg are only meaningful
// when HasNumericRows is set.
type CellStats struct {
	Max            float64
	Min            float64
	Avg            float64
	FloatFrac      float64
	DistinctCount  int
	HasNumericRows bool

	// Most frequent values, highest weight first
	MostFrequent        []string
	MostFrequentWeights []float64

	TotalWeight float64
}

type weighted struct {
	value  string
	weight float64
}

// topHeap is a min-heap on strength: the root is the entry evicted first.
// Among equal weights the lexicographically larger value is weaker.
type topHeap []weighted

func (h topHeap) Len() int { return len(h) }

func (h topHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].value > h[j].value
}

func (h topHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *topHeap) Push(x any) { *h = append(*h, x.(weighted)) }

func (h *topHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// parseNumeric reports whether value parses as a float.
// NaN and out of range literals are not numeric.
func parseNumeric(value string) (float64, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func sortedKeys(table FrequencyTable) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reduce turns a column's frequency table into its statistics, keeping at
// most k frequent values in a bounded heap.
func Reduce(table FrequencyTable, k int) CellStats {
	stats := CellStats{
		DistinctCount: len(table),
	}
	if k < 0 {
		k = 0
	}

	// Sorted iteration keeps the floating point sums reproducible
	keys := sortedKeys(table)

	top := make(topHeap, 0, k+1)
	var numbers, numberWeights []float64
	var total float64

	for _, value := range keys {
		w := table[value]
		total += w

		if f, ok := parseNumeric(value); ok {
			numbers = append(numbers, f)
			numberWeights = append(numberWeights, w)
		}

		heap.Push(&top, weighted{value: value, weight: w})
		if top.Len() > k {
			heap.Pop(&top)
		}
	}

	stats.TotalWeight = total

	if len(numbers) > 0 {
		stats.HasNumericRows = true
		stats.Min = floats.Min(numbers)
		stats.Max = floats.Max(numbers)

		numericWeight := floats.Sum(numberWeights)
		if numericWeight > 0 {
			stats.Avg = stat.Mean(numbers, numberWeights)
		}
		if total > 0 {
			stats.FloatFrac = numericWeight / total
		}
	}

	n := top.Len()
	stats.MostFrequent = make([]string, n)
	stats.MostFrequentWeights = make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		item := heap.Pop(&top).(weighted)
		stats.MostFrequent[i] = item.value
		stats.MostFrequentWeights[i] = item.weight
	}

	return stats
}

// ReduceAll reduces every column independently
func ReduceAll(tables []FrequencyTable, k int) []CellStats {
	stats := make([]CellStats, len(tables))
	for i, table := range tables {
		stats[i] = Reduce(table, k)
	}
	return stats
}
