package dcurves

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTable(t *testing.T) *Table {
	data := newFrame(t, []string{"cancer", "famhistory"}, binOutcome, binFam)
	tbl, err := DCA(data, "cancer", []string{"famhistory"}, &Options{Thresholds: []float64{0, 0.5}})
	require.NoError(t, err)
	return tbl
}

func TestTableAccessors(t *testing.T) {
	tbl := smallTable(t)

	assert.Equal(t, Columns, tbl.Columns())
	assert.Len(t, tbl.Model("famhistory"), 2)
	assert.Empty(t, tbl.Model("nope"))

	// Returned slices are copies
	rows := tbl.Rows()
	rows[0].NetBenefit = 99
	assert.NotEqual(t, 99.0, tbl.Rows()[0].NetBenefit)

	models := tbl.Models()
	models[0] = "x"
	assert.Equal(t, "famhistory", tbl.Models()[0])
}

func TestTableWriteCSV(t *testing.T) {
	tbl := smallTable(t)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, strings.Join(Columns, ","), lines[0])

	// famhistory at threshold 0: interventions avoided is undefined
	assert.Equal(t, "famhistory,0,10,0.3,0,1,0.3,0.7,0.3,", lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "all,0,10,"))
}

func TestTableJSON(t *testing.T) {
	tbl := smallTable(t)

	data, err := json.Marshal(tbl)
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 6)

	assert.Equal(t, "famhistory", rows[0]["model"])
	assert.Equal(t, 0.0, rows[0]["threshold"])
	assert.Equal(t, 10.0, rows[0]["n"])
	assert.Nil(t, rows[0]["net_intervention_avoided"])
	assert.Contains(t, rows[0], "net_intervention_avoided")
	assert.NotNil(t, rows[1]["net_intervention_avoided"])

	// Keys follow the column order
	first := string(data[:bytes.IndexByte(data, '}')])
	last := -1
	for _, c := range Columns {
		k := strings.Index(first, `"`+c+`":`)
		require.GreaterOrEqual(t, k, 0, c)
		assert.Greater(t, k, last, c)
		last = k
	}
}

func TestLegacyTableOutput(t *testing.T) {
	data := newFrame(t, []string{"cancer", "famhistory"}, binOutcome, binFam)
	tbl, err := BinaryDCA(data, "cancer", []string{"famhistory"}, nil, nil, []float64{0.25, 0.5, 0.25}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(Columns[:len(Columns)-1], ","), header)

	data2, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.NotContains(t, string(data2), "net_intervention_avoided")
}
