package dcurves

import (
	"fmt"

	"github.com/brookluers/dcurves/frame"
	"github.com/brookluers/dcurves/survival"
)

// EstimatePrevalence returns the outcome prevalence for the analysis.
//
// For a binary outcome a supplied prevalence (from a case-control design)
// is returned unchanged, otherwise the observed proportion of cases is
// used.  For a survival outcome the prevalence is the Kaplan-Meier
// cumulative incidence at the time horizon, and supplying a prevalence is
// an error.
func EstimatePrevalence(data *frame.Frame, outcome string, prevalence *float64, oc Outcome) (float64, error) {

	y, err := data.Col(outcome)
	if err != nil {
		return 0, err
	}

	switch oc := oc.(type) {
	case Binary:
		if prevalence != nil {
			return *prevalence, nil
		}
		if len(y) == 0 {
			return 0, fmt.Errorf("%w: no records", ErrInvalidArgument)
		}
		return float64(countEqual(y, 1)) / float64(len(y)), nil

	case Survival:
		if prevalence != nil {
			return 0, fmt.Errorf("%w: in survival outcomes, prevalence should not be supplied", ErrInvalidCombination)
		}
		time, err := data.Col(oc.TimeCol)
		if err != nil {
			return 0, err
		}
		sf, err := survival.NewSurvfuncRight(time, y)
		if err != nil {
			return 0, err
		}
		return sf.CumInc(oc.Time), nil
	}

	return 0, fmt.Errorf("%w: unknown outcome type %T", ErrInvalidArgument, oc)
}

// countEqual returns the number of elements of x equal to v.
func countEqual(x []float64, v float64) int {
	var n int
	for _, z := range x {
		if z == v {
			n++
		}
	}
	return n
}
