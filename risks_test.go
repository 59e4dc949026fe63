package dcurves

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brookluers/dcurves/frame"
)

func newFrame(t *testing.T, names []string, cols ...[]float64) *frame.Frame {
	f, err := frame.New(names, cols)
	require.NoError(t, err)
	return f
}

func TestConvertToRiskBinary(t *testing.T) {
	x := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	y := []float64{1, 0, 0, 0, 1, 1, 1, 0}
	data := newFrame(t, []string{"cancer", "x", "other"}, y, x, x)

	risks, err := ConvertToRisk(data, "cancer", []string{"x"}, Binary{})
	require.NoError(t, err)

	// The stored value is the risk of cancer == 1, not of cancer == 0
	got, err := risks.Col("x")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25, 0.75, 0.75, 0.75, 0.75}, got, 1e-6)

	// Other columns and the input are unchanged
	other, _ := risks.Col("other")
	assert.Equal(t, x, other)
	orig, _ := data.Col("x")
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 1, 1, 1}, orig)
	assert.Equal(t, data.Names(), risks.Names())
}

func TestConvertToRiskNone(t *testing.T) {
	data := newFrame(t, []string{"cancer", "x"}, []float64{1, 0}, []float64{0.3, 0.6})
	risks, err := ConvertToRisk(data, "cancer", nil, Binary{})
	require.NoError(t, err)
	x, _ := risks.Col("x")
	assert.Equal(t, []float64{0.3, 0.6}, x)
}

func TestConvertToRiskSurvival(t *testing.T) {
	time := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	status := []float64{1, 1, 0, 1, 1, 0, 1, 0}
	marker := []float64{3, 2.5, 1, 2, 0.5, 1.5, 0, -1}
	data := newFrame(t, []string{"cancer", "ttcancer", "marker"}, status, time, marker)

	oc := Survival{Time: 4.5, TimeCol: "ttcancer"}
	risks, err := ConvertToRisk(data, "cancer", []string{"marker"}, oc)
	require.NoError(t, err)

	r, _ := risks.Col("marker")
	require.Len(t, r, 8)
	for i, v := range r {
		assert.True(t, v > 0 && v < 1, "risk %d = %v", i, v)
	}

	// Risk increases with the marker
	assert.Greater(t, r[0], r[1])
	assert.Greater(t, r[1], r[3])
	assert.Greater(t, r[6], r[7])
}

func TestConvertToRiskErrors(t *testing.T) {
	data := newFrame(t, []string{"cancer", "x"}, []float64{1, 0}, []float64{0.3, 0.6})

	_, err := ConvertToRisk(data, "cancer", []string{"missing"}, Binary{})
	assert.ErrorIs(t, err, ErrMissingData)
	assert.Contains(t, err.Error(), `converting "missing" to risk`)

	_, err = ConvertToRisk(data, "cancer", []string{"x"}, Survival{Time: 1, TimeCol: "ttcancer"})
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestRectifyRiskBoundaries(t *testing.T) {
	data := newFrame(t, []string{"cancer", "m"},
		[]float64{1, 0, 1, 0},
		[]float64{-0.5, 0.3, 1.7, math.NaN()})

	rect, err := RectifyRiskBoundaries(data, []string{"m"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cancer", "m", All, None}, rect.Names())

	m, _ := rect.Col("m")
	assert.Equal(t, []float64{0, 0.3, 1}, m[:3])
	assert.True(t, math.IsNaN(m[3]))

	all, _ := rect.Col(All)
	none, _ := rect.Col(None)
	for i := range all {
		assert.Greater(t, all[i], 1.0)
		assert.Less(t, none[i], 0.0)
	}

	// The input is not modified
	orig, _ := data.Col("m")
	assert.Equal(t, -0.5, orig[0])
	assert.False(t, data.Has(All))

	_, err = RectifyRiskBoundaries(data, []string{"missing"})
	assert.ErrorIs(t, err, ErrMissingData)
}
