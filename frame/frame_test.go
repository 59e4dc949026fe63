package frame

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) *Frame {
	f, err := New([]string{"y", "x", "z"}, [][]float64{
		{1, 0, 1, 0},
		{0.5, 1.5, math.NaN(), 3},
		{4, 3, 2, 1},
	})
	require.NoError(t, err)
	return f
}

func TestNew(t *testing.T) {
	f := testFrame(t)
	assert.Equal(t, []string{"y", "x", "z"}, f.Names())
	assert.Equal(t, 4, f.NumRows())
	assert.Equal(t, 3, f.NumVar())
	assert.True(t, f.Has("x"))
	assert.False(t, f.Has("w"))

	_, err := New([]string{"a", "b"}, [][]float64{{1, 2}, {1}})
	assert.Error(t, err)

	_, err = New([]string{"a"}, [][]float64{{1}, {2}})
	assert.Error(t, err)

	_, err = New([]string{"a", "b", "a"}, [][]float64{{1}, {2}, {3}})
	assert.ErrorContains(t, err, "duplicate column name")
}

func TestCol(t *testing.T) {
	f := testFrame(t)

	z, err := f.Col("z")
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 3, 2, 1}, z)

	_, err = f.Col("w")
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), `"w"`)
}

func TestWith(t *testing.T) {
	f := testFrame(t)

	g, err := f.With("z", []float64{9, 9, 9, 9})
	require.NoError(t, err)
	gz, _ := g.Col("z")
	fz, _ := f.Col("z")
	assert.Equal(t, []float64{9, 9, 9, 9}, gz)
	assert.Equal(t, []float64{4, 3, 2, 1}, fz, "original frame must not change")
	assert.Equal(t, f.Names(), g.Names())

	g, err = f.With("w", []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x", "z", "w"}, g.Names())
	assert.False(t, f.Has("w"))

	_, err = f.With("w", []float64{1})
	assert.Error(t, err)
}

func TestFilterSelect(t *testing.T) {
	f := testFrame(t)

	g, err := f.Filter([]bool{true, false, false, true})
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumRows())
	z, _ := g.Col("z")
	assert.Equal(t, []float64{4, 1}, z)

	_, err = f.Filter([]bool{true})
	assert.Error(t, err)

	h, err := f.Select("z", "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y"}, h.Names())
	assert.Equal(t, 4, h.NumRows())

	_, err = f.Select("w")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestDescribe(t *testing.T) {
	st := testFrame(t).Describe()

	x := st["x"]
	assert.Equal(t, 3, x.N)
	assert.Equal(t, 1, x.NaN)
	assert.InDelta(t, 5.0/3, x.Mean, 1e-12)
	assert.Equal(t, 0.5, x.Min)
	assert.Equal(t, 3.0, x.Max)

	z := st["z"]
	assert.Equal(t, 0, z.NaN)
	assert.InDelta(t, 2.5, z.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3), z.SD, 1e-12)
}

func TestReadCSV(t *testing.T) {
	in := "cancer, famhistory,marker\nTRUE,1,0.5\nfalse,0,NA\n1,0,\n"

	f, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"cancer", "famhistory", "marker"}, f.Names())
	assert.Equal(t, 3, f.NumRows())

	y, _ := f.Col("cancer")
	assert.Equal(t, []float64{1, 0, 1}, y)
	m, _ := f.Col("marker")
	assert.Equal(t, 0.5, m[0])
	assert.True(t, math.IsNaN(m[1]))
	assert.True(t, math.IsNaN(m[2]))

	_, err = ReadCSV(strings.NewReader("a,b\n1,x\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("x,y,x\n1,2,3\n"))
	assert.ErrorContains(t, err, "duplicate column name")
}

func TestCSVRoundTrip(t *testing.T) {
	f := testFrame(t)

	var buf bytes.Buffer
	require.NoError(t, f.WriteCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "y,x,z\n1,0.5,4\n"))

	g, err := ReadCSV(&buf)
	require.NoError(t, err)
	gx, _ := g.Col("x")
	assert.True(t, math.IsNaN(gx[2]))
	assert.Equal(t, 3.0, gx[3])
}

func TestBCols(t *testing.T) {
	f := testFrame(t)
	dir := filepath.Join(t.TempDir(), "data")

	require.NoError(t, f.WriteBCols(dir))
	for _, fn := range []string{"y.bin.gz", "x.bin.gz", "z.bin.gz", "dtypes.json"} {
		_, err := os.Stat(filepath.Join(dir, fn))
		assert.NoError(t, err, fn)
	}

	g, err := ReadBCols(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, g.Names())
	assert.Equal(t, 4, g.NumRows())

	for _, na := range f.Names() {
		want, _ := f.Col(na)
		got, _ := g.Col(na)
		require.Len(t, got, len(want))
		for i := range want {
			if math.IsNaN(want[i]) {
				assert.True(t, math.IsNaN(got[i]))
			} else {
				assert.Equal(t, want[i], got[i])
			}
		}
	}

	_, err = ReadBCols(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
