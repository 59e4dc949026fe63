package survival

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/brookluers/dcurves/utils"
)

// PHReg is a Cox proportional hazards regression model for right censored
// data.  Ties are handled with Efron's method.  Covariates are centered at
// their means before fitting, so the baseline hazard refers to a subject
// with average covariate values.
type PHReg struct {
	time   []float64
	status []float64

	// Covariate columns and their names
	x     [][]float64
	names []string

	opt *optimize.Settings

	// Centered covariates and the means that were removed
	xc    [][]float64
	means []float64

	// Record indices ordered by decreasing time
	ord []int

	err error
}

// NewPHReg returns a proportional hazards model for the given times,
// status indicators (1 = event) and covariate columns.  Call Done before
// fitting.
func NewPHReg(time, status []float64, x [][]float64, names []string) *PHReg {
	return &PHReg{
		time:   time,
		status: status,
		x:      x,
		names:  names,
	}
}

// OptSettings sets the optimizer settings used by Fit.
func (ph *PHReg) OptSettings(opt *optimize.Settings) *PHReg {
	ph.opt = opt
	return ph
}

// Done validates the data and prepares the model for fitting.
func (ph *PHReg) Done() *PHReg {

	n := len(ph.time)
	switch {
	case len(ph.status) != n:
		ph.err = fmt.Errorf("survival: %d times for %d status values", n, len(ph.status))
		return ph
	case len(ph.names) != len(ph.x):
		ph.err = fmt.Errorf("survival: %d names for %d covariates", len(ph.names), len(ph.x))
		return ph
	case n == 0:
		ph.err = fmt.Errorf("survival: no observations")
		return ph
	}

	for i := 0; i < n; i++ {
		if math.IsNaN(ph.time[i]) || ph.time[i] < 0 {
			ph.err = fmt.Errorf("survival: invalid time %v at position %d", ph.time[i], i)
			return ph
		}
		if ph.status[i] != 0 && ph.status[i] != 1 {
			ph.err = fmt.Errorf("survival: invalid status %v at position %d", ph.status[i], i)
			return ph
		}
	}

	ph.means = make([]float64, len(ph.x))
	ph.xc = make([][]float64, len(ph.x))
	for k, z := range ph.x {
		if len(z) != n {
			ph.err = fmt.Errorf("survival: covariate %q has length %d, expected %d", ph.names[k], len(z), n)
			return ph
		}
		mn := floats.Sum(z) / float64(n)
		if math.IsNaN(mn) {
			ph.err = fmt.Errorf("survival: covariate %q has missing values", ph.names[k])
			return ph
		}
		ph.means[k] = mn
		zc := make([]float64, n)
		copy(zc, z)
		floats.AddConst(-mn, zc)
		ph.xc[k] = zc
	}

	ph.ord = make([]int, n)
	for i := range ph.ord {
		ph.ord[i] = i
	}
	sort.SliceStable(ph.ord, func(a, b int) bool { return ph.time[ph.ord[a]] > ph.time[ph.ord[b]] })

	return ph
}

// linpred returns the linear predictor for the centered covariates.
func (ph *PHReg) linpred(params []float64) []float64 {
	eta := make([]float64, len(ph.time))
	for k, z := range ph.xc {
		floats.AddScaled(eta, params[k], z)
	}
	return eta
}

// loglike returns the Efron partial log-likelihood at params.  If score
// is not nil it receives the gradient, and if info is not nil it receives
// the observed information (the negative Hessian).
func (ph *PHReg) loglike(params, score []float64, info *mat.SymDense) float64 {

	p := len(params)
	eta := ph.linpred(params)

	// Risk set sums
	s0 := 0.0
	s1 := make([]float64, p)
	s2 := mat.NewSymDense(max(p, 1), nil)

	// Sums over the tied events at one time
	d1 := make([]float64, p)
	d2 := mat.NewSymDense(max(p, 1), nil)

	if score != nil {
		for k := range score {
			score[k] = 0
		}
	}
	if info != nil {
		info.Zero()
	}

	ll := 0.0
	a1 := make([]float64, p)
	for j := 0; j < len(ph.ord); {

		t := ph.time[ph.ord[j]]
		d0 := 0.0
		dn := 0
		deta := 0.0
		for k := range d1 {
			d1[k] = 0
		}
		d2.Zero()

		// Add everyone at this time to the risk set, tracking events.
		for ; j < len(ph.ord) && ph.time[ph.ord[j]] == t; j++ {
			i := ph.ord[j]
			e := math.Exp(eta[i])
			s0 += e
			for k := 0; k < p; k++ {
				xk := ph.xc[k][i]
				s1[k] += e * xk
				for l := 0; l <= k; l++ {
					s2.SetSym(k, l, s2.At(k, l)+e*xk*ph.xc[l][i])
				}
			}
			if ph.status[i] != 1 {
				continue
			}
			dn++
			d0 += e
			deta += eta[i]
			for k := 0; k < p; k++ {
				xk := ph.xc[k][i]
				d1[k] += e * xk
				if score != nil {
					score[k] += xk
				}
				for l := 0; l <= k; l++ {
					d2.SetSym(k, l, d2.At(k, l)+e*xk*ph.xc[l][i])
				}
			}
		}

		if dn == 0 {
			continue
		}

		ll += deta
		for r := 0; r < dn; r++ {
			phi := float64(r) / float64(dn)
			a0 := s0 - phi*d0
			ll -= math.Log(a0)
			for k := 0; k < p; k++ {
				a1[k] = s1[k] - phi*d1[k]
			}
			if score != nil {
				floats.AddScaled(score, -1/a0, a1)
			}
			if info != nil {
				for k := 0; k < p; k++ {
					for l := 0; l <= k; l++ {
						a2 := s2.At(k, l) - phi*d2.At(k, l)
						info.SetSym(k, l, info.At(k, l)+a2/a0-a1[k]*a1[l]/(a0*a0))
					}
				}
			}
		}
	}

	return ll
}

// Fit estimates the regression parameters by maximizing the partial
// likelihood.
func (ph *PHReg) Fit() (*PHResults, error) {

	if ph.ord == nil && ph.err == nil {
		ph.Done()
	}
	if ph.err != nil {
		return nil, ph.err
	}

	p := len(ph.x)
	params := make([]float64, p)
	if p > 0 {
		prob := optimize.Problem{
			Func: func(x []float64) float64 {
				return -ph.loglike(x, nil, nil)
			},
			Grad: func(grad, x []float64) {
				ph.loglike(x, grad, nil)
				floats.Scale(-1, grad)
			},
			Hess: func(hess *mat.SymDense, x []float64) {
				ph.loglike(x, nil, hess)
			},
		}

		var err error
		params, err = utils.NewtonFit(prob, params, ph.opt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotConverged, err)
		}
	}

	rslt := &PHResults{
		names:  ph.names,
		params: params,
		means:  ph.means,
		ll:     ph.loglike(params, nil, nil),
		xc:     ph.xc,
	}
	rslt.btime, rslt.bcumhaz = ph.breslow(params)

	return rslt, nil
}

// breslow returns the Breslow estimate of the baseline cumulative hazard
// at each distinct event time.
func (ph *PHReg) breslow(params []float64) ([]float64, []float64) {

	eta := ph.linpred(params)

	var tm, haz []float64
	s0 := 0.0
	for j := 0; j < len(ph.ord); {
		t := ph.time[ph.ord[j]]
		d := 0.0
		for ; j < len(ph.ord) && ph.time[ph.ord[j]] == t; j++ {
			i := ph.ord[j]
			s0 += math.Exp(eta[i])
			d += ph.status[i]
		}
		if d > 0 {
			tm = append(tm, t)
			haz = append(haz, d/s0)
		}
	}

	// Accumulate in increasing time order
	floats.Reverse(tm)
	floats.Reverse(haz)
	floats.CumSum(haz, haz)

	return tm, haz
}

// PHResults holds the results of fitting a proportional hazards model.
type PHResults struct {
	names  []string
	params []float64
	means  []float64
	ll     float64

	// Centered covariates used in the fit
	xc [][]float64

	// Baseline cumulative hazard at the covariate means
	btime   []float64
	bcumhaz []float64
}

// Params returns the estimated log hazard ratios.
func (rslt *PHResults) Params() []float64 {
	return rslt.params
}

// Names returns the covariate names.
func (rslt *PHResults) Names() []string {
	return rslt.names
}

// LogLike returns the maximized partial log-likelihood.
func (rslt *PHResults) LogLike() float64 {
	return rslt.ll
}

// BaselineCumHaz returns the event times and the baseline cumulative
// hazard at each of them.
func (rslt *PHResults) BaselineCumHaz() ([]float64, []float64) {
	return rslt.btime, rslt.bcumhaz
}

// CumHazAt evaluates the baseline cumulative hazard step function at t.
func (rslt *PHResults) CumHazAt(t float64) float64 {
	j := sort.Search(len(rslt.btime), func(i int) bool { return rslt.btime[i] > t })
	if j == 0 {
		return 0
	}
	return rslt.bcumhaz[j-1]
}

// FittedValues returns the centered linear predictor for each record of
// the fitted data, storing it in dst if dst is not nil.
func (rslt *PHResults) FittedValues(dst []float64) []float64 {

	if len(rslt.xc) == 0 {
		return dst
	}
	n := len(rslt.xc[0])
	if dst == nil {
		dst = make([]float64, n)
	}
	for i := range dst {
		dst[i] = 0
	}
	for k, z := range rslt.xc {
		floats.AddScaled(dst, rslt.params[k], z)
	}

	return dst
}

// SurvivalAt returns the predicted survival probability at time t for a
// subject with covariate vector x (on the original, uncentered scale).
func (rslt *PHResults) SurvivalAt(t float64, x []float64) float64 {
	lp := 0.0
	for k, v := range x {
		lp += rslt.params[k] * (v - rslt.means[k])
	}
	return math.Exp(-rslt.CumHazAt(t) * math.Exp(lp))
}

// PredictSurvival returns the predicted survival probability at time t for
// every record described by the covariate columns x.
func (rslt *PHResults) PredictSurvival(t float64, x [][]float64) ([]float64, error) {

	if len(x) != len(rslt.params) {
		return nil, fmt.Errorf("survival: %d covariates for %d parameters", len(x), len(rslt.params))
	}

	var n int
	if len(x) > 0 {
		n = len(x[0])
	}
	h0 := rslt.CumHazAt(t)
	sp := make([]float64, n)
	for i := range sp {
		lp := 0.0
		for k := range x {
			lp += rslt.params[k] * (x[k][i] - rslt.means[k])
		}
		sp[i] = math.Exp(-h0 * math.Exp(lp))
	}

	return sp, nil
}

// Summary returns a short text table of the parameter estimates.
func (rslt *PHResults) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-20s %12s %12s\n", "Variable", "Coef", "HR")
	for k, na := range rslt.names {
		fmt.Fprintf(&sb, "%-20s %12.6f %12.6f\n", na, rslt.params[k], math.Exp(rslt.params[k]))
	}
	fmt.Fprintf(&sb, "Log likelihood: %f\n", rslt.ll)
	return sb.String()
}
