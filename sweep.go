package dcurves

import (
	"math"

	"github.com/brookluers/dcurves/frame"
	"github.com/brookluers/dcurves/survival"
)

// TestPosRate returns, for each threshold, the fraction of records with
// risk at or above the threshold.
func TestPosRate(risk, thresholds []float64) []float64 {

	rate := make([]float64, len(thresholds))
	if len(risk) == 0 {
		return rate
	}
	for j, t := range thresholds {
		rate[j] = float64(countAtLeast(risk, t)) / float64(len(risk))
	}

	return rate
}

// countAtLeast returns the number of elements of x that are >= t.
func countAtLeast(x []float64, t float64) int {
	var n int
	for _, v := range x {
		if v >= t {
			n++
		}
	}
	return n
}

// BinaryRates returns the true and false positive rates at each threshold
// for a binary outcome.  Among cases (outcome == 1) and non-cases the
// fraction called positive is scaled by the prevalence and one minus the
// prevalence.  A group with no members contributes a rate of 0.
func BinaryRates(risk, outcome, thresholds []float64, prevalence float64) (tp, fp []float64) {

	var cases, controls []float64
	for i, y := range outcome {
		if y == 1 {
			cases = append(cases, risk[i])
		} else {
			controls = append(controls, risk[i])
		}
	}

	tp = make([]float64, len(thresholds))
	fp = make([]float64, len(thresholds))
	for j, t := range thresholds {
		tp[j] = fractionAtLeast(cases, t) * prevalence
		fp[j] = fractionAtLeast(controls, t) * (1 - prevalence)
	}

	return tp, fp
}

// fractionAtLeast returns the fraction of x that is >= t, or 0 if x is
// empty.
func fractionAtLeast(x []float64, t float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return float64(countAtLeast(x, t)) / float64(len(x))
}

// RiskRateAmongTestPos returns, for each threshold, the Kaplan-Meier
// cumulative incidence at the horizon among records with risk at or above
// the threshold.  The rate is 0 if no record qualifies and NaN if the
// follow-up of the data, or of the qualifying records, ends before the
// horizon.
func RiskRateAmongTestPos(risk, time, status, thresholds []float64, horizon float64) ([]float64, error) {

	rate := make([]float64, len(thresholds))

	maxTime := math.Inf(-1)
	for _, t := range time {
		maxTime = math.Max(maxTime, t)
	}

	var tsub, ssub []float64
	for j, thresh := range thresholds {
		if maxTime < horizon {
			rate[j] = math.NaN()
			continue
		}

		tsub, ssub = tsub[:0], ssub[:0]
		for i, r := range risk {
			if r >= thresh {
				tsub = append(tsub, time[i])
				ssub = append(ssub, status[i])
			}
		}
		if len(tsub) == 0 {
			rate[j] = 0
			continue
		}

		sf, err := survival.NewSurvfuncRight(tsub, ssub)
		if err != nil {
			return nil, err
		}
		if sf.MaxTime() < horizon {
			rate[j] = math.NaN()
			continue
		}
		rate[j] = sf.CumInc(horizon)
	}

	return rate, nil
}

// SurvivalRates returns the true and false positive rates at each
// threshold for a survival outcome, splitting the test positive rate by
// the risk among test positives.
func SurvivalRates(riskAmongPos, testPosRate []float64) (tp, fp []float64) {

	tp = make([]float64, len(testPosRate))
	fp = make([]float64, len(testPosRate))
	for j, tpr := range testPosRate {
		tp[j] = riskAmongPos[j] * tpr
		fp[j] = (1 - riskAmongPos[j]) * tpr
	}

	return tp, fp
}

// sweepModel fills the rate columns of rows, which hold one model's rows
// in threshold order.
func sweepModel(rows []Row, data *frame.Frame, outcome, model string, thresholds []float64,
	prevalence float64, oc Outcome) error {

	risk, err := data.Col(model)
	if err != nil {
		return err
	}
	y, err := data.Col(outcome)
	if err != nil {
		return err
	}

	tpr := TestPosRate(risk, thresholds)

	var tp, fp []float64
	switch oc := oc.(type) {
	case Binary:
		tp, fp = BinaryRates(risk, y, thresholds, prevalence)
	case Survival:
		time, err := data.Col(oc.TimeCol)
		if err != nil {
			return err
		}
		rr, err := RiskRateAmongTestPos(risk, time, y, thresholds, oc.Time)
		if err != nil {
			return err
		}
		tp, fp = SurvivalRates(rr, tpr)
	}

	for j := range rows {
		rows[j].TestPosRate = tpr[j]
		rows[j].TPRate = tp[j]
		rows[j].FPRate = fp[j]
	}

	return nil
}
