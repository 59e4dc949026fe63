package dcurves

import (
	"fmt"
	"math"

	"github.com/brookluers/dcurves/frame"
	"github.com/brookluers/dcurves/glm"
	"github.com/brookluers/dcurves/survival"
)

// Names of the reference strategies.
const (
	All  = "all"
	None = "none"
)

// The reference strategies sit just outside [0, 1] so that every threshold
// in [0, 1] calls "all" positive and "none" negative.
const boundaryShift = 1e-10

// ConvertToRisk returns a copy of data in which each column named in
// modelsToProb is replaced by a risk score in [0, 1] derived from a single
// predictor regression of the outcome.  Other columns are unchanged and
// data is not modified.
func ConvertToRisk(data *frame.Frame, outcome string, modelsToProb []string, oc Outcome) (*frame.Frame, error) {

	out := data.Copy()
	for _, model := range modelsToProb {
		var risk []float64
		var err error
		switch oc := oc.(type) {
		case Binary:
			risk, err = binaryRisks(data, outcome, model)
		case Survival:
			risk, err = survivalRisks(data, outcome, model, oc)
		default:
			return nil, fmt.Errorf("%w: unknown outcome type %T", ErrInvalidArgument, oc)
		}
		if err != nil {
			return nil, fmt.Errorf("converting %q to risk: %w", model, err)
		}

		out, err = out.With(model, risk)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// binaryRisks fits a logistic regression of the outcome's reference level
// (outcome == 0) on the predictor and returns 1 minus the fitted values,
// which is the fitted risk of outcome == 1.
func binaryRisks(data *frame.Frame, outcome, model string) ([]float64, error) {

	y, err := data.Col(outcome)
	if err != nil {
		return nil, err
	}
	x, err := data.Col(model)
	if err != nil {
		return nil, err
	}

	ref := make([]float64, len(y))
	for i, v := range y {
		ref[i] = 1 - v
	}

	rslt, err := glm.NewLogit(ref, [][]float64{x}, []string{model}).Fit()
	if err != nil {
		return nil, err
	}

	// NOTE: the 1 - p flip only yields risk of the positive outcome
	// because the model above is fit to the reference level.
	fv := rslt.FittedValues(nil)
	for i := range fv {
		fv[i] = 1 - fv[i]
	}

	return fv, nil
}

// survivalRisks fits a Cox model of the time to outcome on the predictor
// and returns the predicted probability of the event by the horizon.
func survivalRisks(data *frame.Frame, outcome, model string, oc Survival) ([]float64, error) {

	status, err := data.Col(outcome)
	if err != nil {
		return nil, err
	}
	time, err := data.Col(oc.TimeCol)
	if err != nil {
		return nil, err
	}
	x, err := data.Col(model)
	if err != nil {
		return nil, err
	}

	xv := [][]float64{x}
	rslt, err := survival.NewPHReg(time, status, xv, []string{model}).Done().Fit()
	if err != nil {
		return nil, err
	}

	sp, err := rslt.PredictSurvival(oc.Time, xv)
	if err != nil {
		return nil, err
	}
	for i := range sp {
		sp[i] = 1 - sp[i]
	}

	return sp, nil
}

// RectifyRiskBoundaries returns a copy of data in which the model columns
// are clipped to [0, 1] and the "all" and "none" reference columns are
// added.
func RectifyRiskBoundaries(data *frame.Frame, modelnames []string) (*frame.Frame, error) {

	out := data.Copy()
	for _, model := range modelnames {
		if model == All || model == None {
			continue
		}

		x, err := data.Col(model)
		if err != nil {
			return nil, err
		}
		z := make([]float64, len(x))
		for i, v := range x {
			z[i] = clip(v)
		}
		if out, err = out.With(model, z); err != nil {
			return nil, err
		}
	}

	n := data.NumRows()
	all := make([]float64, n)
	none := make([]float64, n)
	for i := 0; i < n; i++ {
		all[i] = 1 + boundaryShift
		none[i] = 0 - boundaryShift
	}

	var err error
	if out, err = out.With(All, all); err != nil {
		return nil, err
	}
	return out.With(None, none)
}

// clip maps v to the nearest point of [0, 1].  NaN is unchanged.
func clip(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
