package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommandStructure(t *testing.T) {
	assert.Equal(t, "list", listCmd.Use)
	assert.NotEmpty(t, listCmd.Short)
	assert.Contains(t, listCmd.Long, "gapreport list")
	assert.NotNil(t, listCmd.RunE)
}

func TestRunList(t *testing.T) {
	w := newTestWorkspace(t)
	w.standard()
	w.output("other", "only", "x", "1")

	out := captured(listCmd)
	require.NoError(t, runList(listCmd, nil))

	text := out.String()
	assert.Contains(t, text, "1. b\n")
	assert.Contains(t, text, "2. other\n")
	assert.Contains(t, text, "Runs:      2")
	assert.Contains(t, text, "      - r1\n      - r2\n")
	assert.Contains(t, text, filepath.Join(w.data, "data_b.csv")+" (ok)")
	assert.Contains(t, text, filepath.Join(w.data, "data_other.csv")+" (missing)")
	assert.Contains(t, text, "Total: 2 benchmark(s)")
}

func TestRunListEmpty(t *testing.T) {
	w := newTestWorkspace(t)
	require.NoError(t, os.RemoveAll(w.results))

	out := captured(listCmd)
	require.NoError(t, runList(listCmd, nil))
	assert.Contains(t, out.String(), "No benchmarks found")
}
