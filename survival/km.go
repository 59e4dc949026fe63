// Package survival implements the right-censored survival estimators used
// for decision curves: the Kaplan-Meier product limit estimator and Cox
// proportional hazards regression.
package survival

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotConverged is returned when a model fit does not reach a
// stationary point.
var ErrNotConverged = errors.New("survival: fit did not converge")

// SurvfuncRight is the Kaplan-Meier estimate of a survival function from
// right censored data.
type SurvfuncRight struct {

	// Distinct observed times, including 0, in increasing order
	time []float64

	// Survival probability just after each time
	survProb []float64

	// Number at risk just before each time
	nRisk []float64

	// Number of events at each time
	nEvents []float64
}

// NewSurvfuncRight estimates the survival function from event or
// censoring times and status indicators (1 = event, 0 = censored).
func NewSurvfuncRight(time, status []float64) (*SurvfuncRight, error) {

	if len(time) != len(status) {
		return nil, fmt.Errorf("survival: %d times for %d status values", len(time), len(status))
	}

	ii := make([]int, len(time))
	for i := range ii {
		if math.IsNaN(time[i]) || time[i] < 0 {
			return nil, fmt.Errorf("survival: invalid time %v at position %d", time[i], i)
		}
		if status[i] != 0 && status[i] != 1 {
			return nil, fmt.Errorf("survival: invalid status %v at position %d", status[i], i)
		}
		ii[i] = i
	}
	sort.SliceStable(ii, func(a, b int) bool { return time[ii[a]] < time[ii[b]] })

	sf := &SurvfuncRight{
		time:     []float64{0},
		survProb: []float64{1},
		nRisk:    []float64{float64(len(time))},
		nEvents:  []float64{0},
	}

	sp := 1.0
	nrisk := float64(len(time))
	for j := 0; j < len(ii); {

		t := time[ii[j]]
		var d, c float64
		for ; j < len(ii) && time[ii[j]] == t; j++ {
			if status[ii[j]] == 1 {
				d++
			} else {
				c++
			}
		}

		if d > 0 {
			sp *= 1 - d/nrisk
		}

		if t == 0 {
			// Events at time zero drop the curve at its origin
			sf.survProb[0] = sp
			sf.nEvents[0] = d
		} else {
			sf.time = append(sf.time, t)
			sf.survProb = append(sf.survProb, sp)
			sf.nRisk = append(sf.nRisk, nrisk)
			sf.nEvents = append(sf.nEvents, d)
		}
		nrisk -= d + c
	}

	return sf, nil
}

// Time returns the distinct observed times, starting with 0.
func (sf *SurvfuncRight) Time() []float64 {
	return sf.time
}

// SurvProb returns the estimated survival probability at each time
// returned by Time.
func (sf *SurvfuncRight) SurvProb() []float64 {
	return sf.survProb
}

// NumRisk returns the number at risk just before each time.
func (sf *SurvfuncRight) NumRisk() []float64 {
	return sf.nRisk
}

// NumEvents returns the number of events at each time.
func (sf *SurvfuncRight) NumEvents() []float64 {
	return sf.nEvents
}

// MaxTime returns the largest observed time, event or censoring.
func (sf *SurvfuncRight) MaxTime() float64 {
	return sf.time[len(sf.time)-1]
}

// At evaluates the survival step function at t.  Beyond the largest
// observed time the last estimate is carried forward.
func (sf *SurvfuncRight) At(t float64) float64 {

	if t < 0 {
		return 1
	}

	// Largest time <= t
	j := sort.Search(len(sf.time), func(i int) bool { return sf.time[i] > t }) - 1

	return sf.survProb[j]
}

// CumInc returns the cumulative incidence 1 - S(t).
func (sf *SurvfuncRight) CumInc(t float64) float64 {
	return 1 - sf.At(t)
}

// Censoring estimates the censoring distribution, treating censoring as
// the event of interest (the reverse Kaplan-Meier estimator).
func Censoring(time, status []float64) (*SurvfuncRight, error) {

	rev := make([]float64, len(status))
	for i, s := range status {
		rev[i] = 1 - s
	}

	return NewSurvfuncRight(time, rev)
}
