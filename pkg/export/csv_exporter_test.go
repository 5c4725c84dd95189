package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	data, err := exporter.Render(Table{
		Title:   "Leaderboard",
		Columns: []string{"Rank", "Name", "Points"},
		Rows: [][]string{
			{"1", "김블로그", "100"},
			{"2", "이, 수익", "80"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Rank,Name,Points", lines[0])
	// Cells containing commas get quoted.
	assert.Equal(t, `2,"이, 수익",80`, lines[2])
}

func TestCSVExporterRejectsMisalignedRow(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Table{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"only one cell"}},
	})
	require.Error(t, err)
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Table{Rows: [][]string{{"x"}}})
	require.Error(t, err)
}
