package dcurves

import "math"

// thresholdOdds returns t / (1 - t), which is NaN or infinite at t = 1.
func thresholdOdds(t float64) float64 {
	if t == 1 {
		return math.NaN()
	}
	return t / (1 - t)
}

// NetBenefit returns tp - t/(1-t) * fp - harm.
func NetBenefit(tp, fp, threshold, harm float64) float64 {
	return tp - thresholdOdds(threshold)*fp - harm
}

// InterventionsAvoided returns the net number of interventions avoided
// per nper patients, relative to treating everyone.  The value is NaN when
// the threshold odds are 0 or undefined.
func InterventionsAvoided(nb, nbAll, threshold float64, nper int) float64 {
	odds := thresholdOdds(threshold)
	if odds == 0 || math.IsNaN(odds) || math.IsInf(odds, 0) {
		return math.NaN()
	}
	return (nb - nbAll) / odds * float64(nper)
}

// CalcNetBenefit fills NetBenefit and NetInterventionAvoided for rows,
// which are grouped by model with the thresholds in the same order in
// every group.  The net benefit of the "all" strategy at the same position
// is the reference for interventions avoided.  A non-positive nper is
// treated as 1.
func CalcNetBenefit(rows []Row, nper int) {

	if nper <= 0 {
		nper = 1
	}

	for i := range rows {
		r := &rows[i]
		r.NetBenefit = NetBenefit(r.TPRate, r.FPRate, r.Threshold, r.Harm)
	}

	var nbAll []float64
	for _, r := range rows {
		if r.Model == All {
			nbAll = append(nbAll, r.NetBenefit)
		}
	}

	pos := make(map[string]int)
	for i := range rows {
		r := &rows[i]
		j := pos[r.Model]
		pos[r.Model]++
		if j >= len(nbAll) {
			r.NetInterventionAvoided = math.NaN()
			continue
		}
		r.NetInterventionAvoided = InterventionsAvoided(r.NetBenefit, nbAll[j], r.Threshold, nper)
	}
}
