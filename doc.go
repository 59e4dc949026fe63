/*
Package dcurves performs decision curve analysis for binary and
time-to-event outcomes.

A decision curve shows the net benefit of acting on a prediction model's
risk scores across a range of threshold probabilities, together with the
two reference strategies "all" (treat everyone) and "none" (treat no one).
DCA converts raw predictors to risks if requested, estimates the outcome
prevalence, sweeps the thresholds for every model and returns a Table with
one row per model and threshold.

	tbl, err := dcurves.DCA(data, "cancer", []string{"famhistory", "marker"},
		&dcurves.Options{ModelsToProb: []string{"marker"}})

Survival outcomes are requested by naming a time-to-event column and the
time horizon of interest:

	t := 1.0
	tbl, err := dcurves.DCA(data, "cancer", []string{"marker"},
		&dcurves.Options{Time: &t, TimeToOutcomeCol: "ttcancer"})
*/
package dcurves
