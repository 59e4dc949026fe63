package dcurves

import (
	"fmt"
	"math"

	"github.com/brookluers/dcurves/frame"
)

// legacySentinel stands in for a threshold of exactly 0 in BinaryDCA.
const legacySentinel = 1e-9

// DefaultThreshTriple is the default (lower, upper, step) threshold range
// of BinaryDCA.
var DefaultThreshTriple = []float64{0.01, 0.99, 0.01}

// LegacyThresholds expands a (lower, upper, step) triple into the
// thresholds used by BinaryDCA: lower, lower+step, ... up to and including
// upper, preceded by a near-zero sentinel.  The sentinel stands in for a
// threshold of exactly 0, and values above 1 are dropped.
func LegacyThresholds(triple []float64) ([]float64, error) {

	if err := ValidateThreshTriple(triple); err != nil {
		return nil, err
	}
	lo, hi, step := triple[0], triple[1], triple[2]

	n := int(math.Ceil((hi + step - lo) / step))
	th := make([]float64, 1, n+1)
	th[0] = legacySentinel
	for i := 0; i < n; i++ {
		t := lo + float64(i)*step
		if t == 0 || t > 1 {
			continue
		}
		th = append(th, t)
	}

	return th, nil
}

// BinaryDCA is the original binary-outcome decision curve analysis.
//
// Each predictor column holds a risk, or is converted to one by logistic
// regression if it is listed in predictorsToProb.  The "all" and "none"
// strategies use risks of exactly 1 and 0.  threshVals is a (lower, upper,
// step) triple, DefaultThreshTriple if nil.  The table has no net
// interventions avoided.
func BinaryDCA(data *frame.Frame, outcome string, predictors []string, harm map[string]float64,
	predictorsToProb []string, threshVals []float64, prevalence *float64) (*Table, error) {

	if threshVals == nil {
		threshVals = DefaultThreshTriple
	}
	thresholds, err := LegacyThresholds(threshVals)
	if err != nil {
		return nil, err
	}

	models := append(append([]string(nil), predictors...), All, None)
	if err := validateModels(data, predictors); err != nil {
		return nil, err
	}
	if err := validateSubset(predictorsToProb, predictors, "predictor to convert"); err != nil {
		return nil, err
	}
	if err := validateHarm(harm, models); err != nil {
		return nil, err
	}
	if err := validatePrevalence(prevalence); err != nil {
		return nil, err
	}
	if err := validateOutcome(data, outcome, Binary{}); err != nil {
		return nil, err
	}

	risks, err := ConvertToRisk(data, outcome, predictorsToProb, Binary{})
	if err != nil {
		return nil, err
	}

	n := risks.NumRows()
	all := make([]float64, n)
	for i := range all {
		all[i] = 1
	}
	if risks, err = risks.With(All, all); err != nil {
		return nil, err
	}
	if risks, err = risks.With(None, make([]float64, n)); err != nil {
		return nil, err
	}

	y, err := risks.Col(outcome)
	if err != nil {
		return nil, err
	}
	prev := 0.0
	switch {
	case prevalence != nil:
		prev = *prevalence
	case n > 0:
		prev = float64(countEqual(y, 1)) / float64(n)
	}

	nt := len(thresholds)
	rows := skeleton(models, thresholds, n, prev, harm)
	for k, m := range models {
		r := rows[k*nt : (k+1)*nt]
		if err := sweepModel(r, risks, outcome, m, thresholds, prev, Binary{}); err != nil {
			return nil, fmt.Errorf("predictor %q: %w", m, err)
		}
		for j := range r {
			r[j].NetBenefit = NetBenefit(r[j].TPRate, r[j].FPRate, r[j].Threshold, r[j].Harm)
			r[j].NetInterventionAvoided = math.NaN()
		}
	}

	return newTable(rows, models, false), nil
}
