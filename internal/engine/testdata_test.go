package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const simpleNoQuote = "letter,value\nA,0.2\nBBBBBBBBB,0.8\nA,0.5\n"

func writeCSV(t testing.TB, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
