// Package glm fits binomial generalized linear models with the logit
// link.
package glm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/brookluers/dcurves/utils"
)

// ErrNotConverged is returned when the likelihood maximization fails.
var ErrNotConverged = errors.New("glm: fit did not converge")

// GLM is a logistic regression model.  An intercept is always included
// as the first parameter.
type GLM struct {
	y     []float64
	x     [][]float64
	names []string

	opt *optimize.Settings
}

// NewLogit returns a logistic regression of the 0/1 response y on the
// covariate columns x.
func NewLogit(y []float64, x [][]float64, names []string) *GLM {
	return &GLM{
		y:     y,
		x:     x,
		names: names,
	}
}

// OptSettings sets the optimizer settings used by Fit.
func (m *GLM) OptSettings(opt *optimize.Settings) *GLM {
	m.opt = opt
	return m
}

func (m *GLM) check() error {

	if len(m.names) != len(m.x) {
		return fmt.Errorf("glm: %d names for %d covariates", len(m.names), len(m.x))
	}
	if len(m.y) == 0 {
		return fmt.Errorf("glm: no observations")
	}
	for i, v := range m.y {
		if v != 0 && v != 1 {
			return fmt.Errorf("glm: response value %v at position %d is not 0/1", v, i)
		}
	}
	for k, z := range m.x {
		if len(z) != len(m.y) {
			return fmt.Errorf("glm: covariate %q has length %d, expected %d", m.names[k], len(z), len(m.y))
		}
		for i, v := range z {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("glm: covariate %q has non-finite value at position %d", m.names[k], i)
			}
		}
	}

	return nil
}

// linpred computes the linear predictor, intercept first.
func linpred(params []float64, x [][]float64, n int) []float64 {
	eta := make([]float64, n)
	for i := range eta {
		eta[i] = params[0]
	}
	for k, z := range x {
		floats.AddScaled(eta, params[k+1], z)
	}
	return eta
}

// loglike returns the Bernoulli log-likelihood.  If score is not nil it
// receives the gradient, and if info is not nil it receives the Fisher
// information.
func (m *GLM) loglike(params, score []float64, info *mat.SymDense) float64 {

	p := len(params)
	eta := linpred(params, m.x, len(m.y))

	if score != nil {
		for k := range score {
			score[k] = 0
		}
	}
	if info != nil {
		info.Zero()
	}

	// Covariate value j for record i, with the intercept as column 0
	xv := func(j, i int) float64 {
		if j == 0 {
			return 1
		}
		return m.x[j-1][i]
	}

	ll := 0.0
	for i, y := range m.y {
		e := eta[i]

		// log(1 + exp(e)) without overflow
		var l1pe float64
		if e > 0 {
			l1pe = e + math.Log1p(math.Exp(-e))
		} else {
			l1pe = math.Log1p(math.Exp(e))
		}
		ll += y*e - l1pe

		mu := 1 / (1 + math.Exp(-e))
		if score != nil {
			r := y - mu
			for j := 0; j < p; j++ {
				score[j] += r * xv(j, i)
			}
		}
		if info != nil {
			w := mu * (1 - mu)
			for j := 0; j < p; j++ {
				xj := xv(j, i)
				for k := 0; k <= j; k++ {
					info.SetSym(j, k, info.At(j, k)+w*xj*xv(k, i))
				}
			}
		}
	}

	return ll
}

// Fit estimates the parameters by maximum likelihood.
func (m *GLM) Fit() (*GLMResults, error) {

	if err := m.check(); err != nil {
		return nil, err
	}

	prob := optimize.Problem{
		Func: func(x []float64) float64 {
			return -m.loglike(x, nil, nil)
		},
		Grad: func(grad, x []float64) {
			m.loglike(x, grad, nil)
			floats.Scale(-1, grad)
		},
		Hess: func(hess *mat.SymDense, x []float64) {
			m.loglike(x, nil, hess)
		},
	}

	// Start at the marginal log odds, which is the exact solution for an
	// intercept-only model.
	params := make([]float64, len(m.x)+1)
	ybar := floats.Sum(m.y) / float64(len(m.y))
	if ybar > 0 && ybar < 1 {
		params[0] = math.Log(ybar / (1 - ybar))
	}

	params, err := utils.NewtonFit(prob, params, m.opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConverged, err)
	}

	return &GLMResults{
		names:  append([]string{"icept"}, m.names...),
		params: params,
		x:      m.x,
		n:      len(m.y),
		ll:     m.loglike(params, nil, nil),
	}, nil
}

// GLMResults holds the results of a logistic regression fit.
type GLMResults struct {
	names  []string
	params []float64
	x      [][]float64
	n      int
	ll     float64
}

// Params returns the parameter estimates, intercept first.
func (rslt *GLMResults) Params() []float64 {
	return rslt.params
}

// Names returns the parameter names, starting with "icept".
func (rslt *GLMResults) Names() []string {
	return rslt.names
}

// LogLike returns the maximized log-likelihood.
func (rslt *GLMResults) LogLike() float64 {
	return rslt.ll
}

// FittedValues returns the fitted probabilities for the data used in the
// fit, storing them in dst if dst is not nil.
func (rslt *GLMResults) FittedValues(dst []float64) []float64 {

	if dst == nil {
		dst = make([]float64, rslt.n)
	}
	eta := linpred(rslt.params, rslt.x, rslt.n)
	for i, e := range eta {
		dst[i] = 1 / (1 + math.Exp(-e))
	}

	return dst
}

// Predict returns predicted probabilities for new covariate columns.
func (rslt *GLMResults) Predict(x [][]float64) ([]float64, error) {

	if len(x) != len(rslt.params)-1 {
		return nil, fmt.Errorf("glm: %d covariates for %d slopes", len(x), len(rslt.params)-1)
	}

	var n int
	if len(x) > 0 {
		n = len(x[0])
	}
	eta := linpred(rslt.params, x, n)
	for i, e := range eta {
		eta[i] = 1 / (1 + math.Exp(-e))
	}

	return eta, nil
}

// Summary returns a short text table of the parameter estimates.
func (rslt *GLMResults) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-20s %12s %12s\n", "Variable", "Coef", "OR")
	for k, na := range rslt.names {
		fmt.Fprintf(&sb, "%-20s %12.6f %12.6f\n", na, rslt.params[k], math.Exp(rslt.params[k]))
	}
	fmt.Fprintf(&sb, "Log likelihood: %f\n", rslt.ll)
	return sb.String()
}
