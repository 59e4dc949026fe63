package dcurves

import (
	"fmt"
	"math"

	"github.com/brookluers/dcurves/frame"
)

// ValidateThresholds checks that thresholds is non-empty and that every
// value is a probability.
func ValidateThresholds(thresholds []float64) error {

	if len(thresholds) == 0 {
		return fmt.Errorf("%w: thresholds must contain at least 1 value", ErrInvalidArgument)
	}
	for _, t := range thresholds {
		if math.IsNaN(t) || t < 0 || t > 1 {
			return fmt.Errorf("%w: threshold %g is not in [0, 1]", ErrInvalidArgument, t)
		}
	}

	return nil
}

// ValidateThreshTriple checks a legacy (lower, upper, step) threshold
// specification.
func ValidateThreshTriple(v []float64) error {

	if len(v) != 3 {
		return fmt.Errorf("%w: threshold range must contain 3 values, got %d", ErrInvalidArgument, len(v))
	}
	lo, hi, step := v[0], v[1], v[2]
	switch {
	case math.IsNaN(lo) || math.IsNaN(hi) || math.IsNaN(step):
		return fmt.Errorf("%w: threshold range contains NaN", ErrInvalidArgument)
	case step <= 0:
		return fmt.Errorf("%w: threshold step must be positive", ErrInvalidArgument)
	case lo > hi:
		return fmt.Errorf("%w: threshold lower bound %g exceeds upper bound %g", ErrInvalidArgument, lo, hi)
	case lo < 0 || hi > 1:
		return fmt.Errorf("%w: threshold range [%g, %g] is not within [0, 1]", ErrInvalidArgument, lo, hi)
	}

	return nil
}

// ValidateStrList checks that no element of names is empty or repeated.
func ValidateStrList(names []string) error {

	seen := make(map[string]bool, len(names))
	for _, na := range names {
		if na == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidArgument)
		}
		if seen[na] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidArgument, na)
		}
		seen[na] = true
	}

	return nil
}

// validateModels checks that the model names are usable and present in
// data.
func validateModels(data *frame.Frame, modelnames []string) error {

	if err := ValidateStrList(modelnames); err != nil {
		return err
	}
	for _, m := range modelnames {
		if m == All || m == None {
			return fmt.Errorf("%w: model name %q is reserved", ErrInvalidArgument, m)
		}
		if !data.Has(m) {
			return fmt.Errorf("%w: model %q", ErrMissingData, m)
		}
	}

	return nil
}

// validateSubset checks that every element of sub is one of names.
func validateSubset(sub, names []string, what string) error {

	in := make(map[string]bool, len(names))
	for _, na := range names {
		in[na] = true
	}
	for _, s := range sub {
		if !in[s] {
			return fmt.Errorf("%w: %s %q is not a model", ErrInvalidArgument, what, s)
		}
	}

	return nil
}

// validateOutcome checks the outcome column, and the time column for a
// survival outcome.
func validateOutcome(data *frame.Frame, outcome string, oc Outcome) error {

	y, err := data.Col(outcome)
	if err != nil {
		return err
	}
	for _, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: outcome %q has value %g, expected 0 or 1", ErrInvalidArgument, outcome, v)
		}
	}

	sv, ok := oc.(Survival)
	if !ok {
		return nil
	}
	if math.IsNaN(sv.Time) || math.IsInf(sv.Time, 0) || sv.Time < 0 {
		return fmt.Errorf("%w: time %g must be finite and non-negative", ErrInvalidArgument, sv.Time)
	}
	tm, err := data.Col(sv.TimeCol)
	if err != nil {
		return err
	}
	for _, v := range tm {
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("%w: time-to-outcome %q has value %g", ErrInvalidArgument, sv.TimeCol, v)
		}
	}

	return nil
}

// validateHarm checks that every harm key is a model.
func validateHarm(harm map[string]float64, models []string) error {

	keys := make([]string, 0, len(harm))
	for k, v := range harm {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: harm for %q is NaN", ErrInvalidArgument, k)
		}
		keys = append(keys, k)
	}

	return validateSubset(keys, models, "harm key")
}

// validatePrevalence checks an optional prevalence override.
func validatePrevalence(p *float64) error {
	if p != nil && (math.IsNaN(*p) || *p < 0 || *p > 1) {
		return fmt.Errorf("%w: prevalence %g is not in [0, 1]", ErrInvalidArgument, *p)
	}
	return nil
}
