package dcurves

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		th      []float64
		wantErr bool
	}{
		{"defaults", DefaultThresholds(), false},
		{"bounds", []float64{0, 1}, false},
		{"unordered", []float64{0.5, 0.1}, false},
		{"empty", nil, true},
		{"negative", []float64{-0.1}, true},
		{"above one", []float64{0.5, 1.01}, true},
		{"NaN", []float64{math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThresholds(tt.th)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStrList(t *testing.T) {
	assert.NoError(t, ValidateStrList(nil))
	assert.NoError(t, ValidateStrList([]string{"a", "b"}))
	assert.ErrorIs(t, ValidateStrList([]string{"a", ""}), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateStrList([]string{"a", "b", "a"}), ErrInvalidArgument)
}

func TestOutcomeFor(t *testing.T) {
	oc, err := outcomeFor(nil, "")
	assert.NoError(t, err)
	assert.Equal(t, Binary{}, oc)
	assert.Equal(t, "binary", oc.String())

	tm := 2.5
	oc, err = outcomeFor(&tm, "ttcancer")
	assert.NoError(t, err)
	assert.Equal(t, Survival{Time: 2.5, TimeCol: "ttcancer"}, oc)
	assert.Equal(t, "survival(ttcancer, t=2.5)", oc.String())

	// A time without a time column is a binary analysis
	oc, err = outcomeFor(&tm, "")
	assert.NoError(t, err)
	assert.Equal(t, Binary{}, oc)

	_, err = outcomeFor(nil, "ttcancer")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidateOutcome(t *testing.T) {
	data := newFrame(t, []string{"cancer", "ttcancer", "bad"},
		[]float64{1, 0, 1}, []float64{1, 2, math.NaN()}, []float64{1, 0, math.NaN()})

	assert.NoError(t, validateOutcome(data, "cancer", Binary{}))
	assert.ErrorIs(t, validateOutcome(data, "bad", Binary{}), ErrInvalidArgument)
	assert.ErrorIs(t, validateOutcome(data, "cancer", Survival{Time: 1, TimeCol: "ttcancer"}), ErrInvalidArgument)
	assert.ErrorIs(t, validateOutcome(data, "cancer", Survival{Time: math.Inf(1), TimeCol: "cancer"}), ErrInvalidArgument)
	assert.NoError(t, validateOutcome(data, "cancer", Survival{Time: 1, TimeCol: "cancer"}))
}
