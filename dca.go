package dcurves

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/brookluers/dcurves/frame"
)

// Options holds the optional parameters of DCA.  The zero value runs a
// binary analysis over DefaultThresholds with no harms.
type Options struct {

	// Thresholds are the risk thresholds to evaluate, in output order.
	// DefaultThresholds is used if empty.
	Thresholds []float64

	// Harm maps a model name (including "all" or "none") to the harm
	// subtracted from its net benefit.  Missing models have harm 0.
	Harm map[string]float64

	// ModelsToProb lists the models whose columns are predictors to be
	// converted to risks by regression on the outcome.
	ModelsToProb []string

	// Prevalence overrides the observed prevalence of a binary outcome,
	// as needed for case-control data.
	Prevalence *float64

	// Time is the horizon for a survival outcome.
	Time *float64

	// TimeToOutcomeCol names the event or censoring time column.  Setting
	// it makes the analysis a survival analysis.
	TimeToOutcomeCol string

	// NPer scales net interventions avoided; 0 means 1.
	NPer int

	// Logger receives debug tracing.  Nothing is logged if nil.
	Logger logrus.FieldLogger
}

// DefaultThresholds returns the thresholds 0, 0.01, ..., 0.99.
func DefaultThresholds() []float64 {
	th := make([]float64, 100)
	for i := range th {
		th[i] = float64(i) / 100
	}
	return th
}

func discardLogger() logrus.FieldLogger {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg
}

// DCA performs decision curve analysis of the models in modelnames
// against the outcome column of data.
//
// Each model column holds a risk score, or a predictor if it is listed in
// opts.ModelsToProb.  The result has one row per model and threshold for
// the given models followed by the "all" and "none" reference strategies.
// The outcome column holds 0/1 values; for a survival analysis it is the
// event indicator and opts.TimeToOutcomeCol and opts.Time must be set.
// data is not modified.
func DCA(data *frame.Frame, outcome string, modelnames []string, opts *Options) (*Table, error) {

	if opts == nil {
		opts = new(Options)
	}
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}

	oc, err := outcomeFor(opts.Time, opts.TimeToOutcomeCol)
	if err != nil {
		return nil, err
	}

	thresholds := opts.Thresholds
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds()
	}
	thresholds = append([]float64(nil), thresholds...)

	models := append(append([]string(nil), modelnames...), All, None)
	if err := validateArgs(data, outcome, modelnames, models, thresholds, oc, opts); err != nil {
		return nil, err
	}

	log = log.WithField("outcome_type", oc.String())
	log.WithFields(logrus.Fields{
		"models":     len(modelnames),
		"thresholds": len(thresholds),
		"n":          data.NumRows(),
	}).Debug("starting decision curve analysis")

	risks, err := ConvertToRisk(data, outcome, opts.ModelsToProb, oc)
	if err != nil {
		return nil, err
	}

	risks, err = RectifyRiskBoundaries(risks, modelnames)
	if err != nil {
		return nil, err
	}

	prev, err := EstimatePrevalence(risks, outcome, opts.Prevalence, oc)
	if err != nil {
		return nil, err
	}
	log.WithField("prevalence", prev).Debug("estimated prevalence")

	nt := len(thresholds)
	rows := skeleton(models, thresholds, risks.NumRows(), prev, opts.Harm)
	for k, m := range models {
		if err := sweepModel(rows[k*nt:(k+1)*nt], risks, outcome, m, thresholds, prev, oc); err != nil {
			return nil, err
		}
		log.WithField("model", m).Debug("swept thresholds")
	}

	CalcNetBenefit(rows, opts.NPer)

	return newTable(rows, models, true), nil
}

func validateArgs(data *frame.Frame, outcome string, modelnames, models []string, thresholds []float64,
	oc Outcome, opts *Options) error {

	if err := ValidateThresholds(thresholds); err != nil {
		return err
	}
	if err := validateModels(data, modelnames); err != nil {
		return err
	}
	if err := validateSubset(opts.ModelsToProb, modelnames, "model to convert"); err != nil {
		return err
	}
	if err := validateHarm(opts.Harm, models); err != nil {
		return err
	}
	if err := validatePrevalence(opts.Prevalence); err != nil {
		return err
	}
	if opts.NPer < 0 {
		return fmt.Errorf("%w: nper %d is negative", ErrInvalidArgument, opts.NPer)
	}

	return validateOutcome(data, outcome, oc)
}

// skeleton returns one row per model and threshold with the constant
// columns filled in.
func skeleton(models []string, thresholds []float64, n int, prev float64, harm map[string]float64) []Row {

	rows := make([]Row, 0, len(models)*len(thresholds))
	for _, m := range models {
		for _, t := range thresholds {
			rows = append(rows, Row{
				Model:      m,
				Threshold:  t,
				N:          n,
				Prevalence: prev,
				Harm:       harm[m],
			})
		}
	}

	return rows
}
