package profiler

import (
	"fmt"
	"testing"
)

func benchmarkRows(n int) [][]string {
	rows := make([][]string, 0, n+1)
	rows = append(rows, []string{"col1", "col2", "col3", "col4", "col5"})
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("value%d", i%1000),
			fmt.Sprintf("unique_%d", i),
			fmt.Sprintf("%d.5", i%500),
			fmt.Sprintf("item_%d", i%200),
			fmt.Sprintf("%d", i%100),
		})
	}
	return rows
}

// BenchmarkBuildTables measures frequency accumulation over 100k rows
func BenchmarkBuildTables(b *testing.B) {
	rows := benchmarkRows(100000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tables, _ := BuildTables(rows, true, nil)
		if len(tables) != 5 {
			b.Fatalf("Expected 5 tables, got %d", len(tables))
		}
	}
}

// BenchmarkReduce compares reducer cost for different K
func BenchmarkReduce(b *testing.B) {
	tables, _ := BuildTables(benchmarkRows(100000), true, nil)

	for _, k := range []int{1, 3, 10, 100} {
		b.Run(fmt.Sprintf("TopK_%d", k), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				stats := ReduceAll(tables, k)
				if stats[1].DistinctCount != 100000 {
					b.Errorf("Expected 100000 distinct values, got %d", stats[1].DistinctCount)
				}
			}
		})
	}
}
