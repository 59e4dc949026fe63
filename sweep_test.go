package dcurves

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ten records, three cases, prevalence 0.3
var (
	binOutcome = []float64{1, 1, 1, 0, 0, 0, 0, 0, 0, 0}
	binFam     = []float64{1, 1, 0, 1, 0, 0, 0, 0, 0, 0}
)

// Six records with Kaplan-Meier survival 5/6, 2/3, 4/9, 4/9, 0 at times
// 1 to 5
var (
	survTime   = []float64{1, 2, 2, 3, 4, 5}
	survStatus = []float64{1, 1, 0, 1, 0, 1}
	survModel  = []float64{0.9, 0.8, 0.1, 0.7, 0.2, 0.3}
)

func TestTestPosRate(t *testing.T) {
	got := TestPosRate([]float64{0.1, 0.5, 0.5, 0.9}, []float64{0, 0.5, 0.6, 1})
	assert.Equal(t, []float64{1, 0.75, 0.25, 0}, got)

	assert.Equal(t, []float64{0, 0}, TestPosRate(nil, []float64{0.1, 0.2}))

	// NaN risks are never test positive
	got = TestPosRate([]float64{math.NaN(), 0.5}, []float64{0})
	assert.Equal(t, []float64{0.5}, got)
}

func TestBinaryRates(t *testing.T) {
	tp, fp := BinaryRates(binFam, binOutcome, []float64{0, 0.2, 1.5}, 0.3)
	assert.InDeltaSlice(t, []float64{0.3, 0.2, 0}, tp, 1e-12)
	assert.InDeltaSlice(t, []float64{0.7, 0.1, 0}, fp, 1e-12)
}

func TestBinaryRatesEmptyGroup(t *testing.T) {
	// No cases: the true positive rate is 0, not undefined
	tp, fp := BinaryRates([]float64{0.2, 0.8}, []float64{0, 0}, []float64{0.5}, 0)
	assert.Equal(t, []float64{0}, tp)
	assert.Equal(t, []float64{0.5}, fp)

	// No controls
	tp, fp = BinaryRates([]float64{0.2, 0.8}, []float64{1, 1}, []float64{0.5}, 1)
	assert.Equal(t, []float64{0.5}, tp)
	assert.Equal(t, []float64{0}, fp)
}

func TestRiskRateAmongTestPos(t *testing.T) {
	thresholds := []float64{0.5, 0.85, 0.95, 0}

	rr, err := RiskRateAmongTestPos(survModel, survTime, survStatus, thresholds, 2.5)
	require.NoError(t, err)
	require.Len(t, rr, 4)

	// Records 0, 1, 3 all fail by time 3
	assert.InDelta(t, 2.0/3, rr[0], 1e-12)

	// Only record 0, followed to time 1 < 2.5
	assert.True(t, math.IsNaN(rr[1]))

	// Nobody qualifies
	assert.Equal(t, 0.0, rr[2])

	// Everybody qualifies
	assert.InDelta(t, 1.0/3, rr[3], 1e-12)
}

func TestRiskRateHorizonBeyondFollowup(t *testing.T) {
	rr, err := RiskRateAmongTestPos(survModel, survTime, survStatus, []float64{0, 0.95}, 6)
	require.NoError(t, err)
	for _, v := range rr {
		assert.True(t, math.IsNaN(v))
	}
}

func TestSurvivalRates(t *testing.T) {
	tp, fp := SurvivalRates([]float64{2.0 / 3, 0, math.NaN()}, []float64{0.5, 0, 1.0 / 6})
	assert.InDelta(t, 1.0/3, tp[0], 1e-12)
	assert.InDelta(t, 1.0/6, fp[0], 1e-12)
	assert.Equal(t, 0.0, tp[1])
	assert.Equal(t, 0.0, fp[1])
	assert.True(t, math.IsNaN(tp[2]))
	assert.True(t, math.IsNaN(fp[2]))
}
