package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

const (
	// A fit is accepted when the remaining Newton step is below this size.
	stepTol = 1e-6

	// Used instead of stepTol when the Hessian is singular at the optimum.
	gradTol = 1e-8
)

// DefaultSettings returns the optimization settings used for likelihood
// fits when the caller does not supply any.
func DefaultSettings() *optimize.Settings {
	return &optimize.Settings{
		GradientThreshold: 1e-10,
		MajorIterations:   200,
	}
}

// NewtonFit minimizes a smooth convex objective with Newton's method,
// starting from x0.  The problem must provide Func, Grad and Hess.
//
// The line search may stop with ErrNoProgress once the iterates are at
// machine precision, so convergence is judged here from the size of the
// Newton step at the returned location rather than from the status.
func NewtonFit(prob optimize.Problem, x0 []float64, settings *optimize.Settings) ([]float64, error) {

	if settings == nil {
		settings = DefaultSettings()
	}

	result, err := optimize.Minimize(prob, x0, settings, &optimize.Newton{})
	if result == nil {
		return nil, err
	}

	x := append([]float64(nil), result.X...)
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite parameter estimate (status %v)", result.Status)
		}
	}

	if !stationary(prob, x) {
		if err != nil {
			return nil, fmt.Errorf("status %v: %w", result.Status, err)
		}
		return nil, fmt.Errorf("status %v after %d iterations", result.Status, result.MajorIterations)
	}

	return x, nil
}

// stationary reports whether x is a stationary point of the problem.
func stationary(prob optimize.Problem, x []float64) bool {

	p := len(x)
	grad := make([]float64, p)
	prob.Grad(grad, x)
	for _, g := range grad {
		if math.IsNaN(g) {
			return false
		}
	}

	hess := mat.NewSymDense(p, nil)
	prob.Hess(hess, x)

	var chol mat.Cholesky
	if chol.Factorize(hess) {
		step := mat.NewVecDense(p, nil)
		if err := chol.SolveVecTo(step, mat.NewVecDense(p, grad)); err == nil {
			return floats.Norm(step.RawVector().Data, math.Inf(1)) < stepTol
		}
	}

	return floats.Norm(grad, math.Inf(1)) < gradTol
}
