package dcurves

import (
	"errors"

	"github.com/brookluers/dcurves/frame"
)

var (
	// ErrInvalidArgument indicates a parameter of the wrong shape or range.
	ErrInvalidArgument = errors.New("dcurves: invalid argument")

	// ErrInvalidCombination indicates parameters that cannot be used
	// together, such as a prevalence with a survival outcome.
	ErrInvalidCombination = errors.New("dcurves: invalid combination of arguments")

	// ErrMissingData indicates that a referenced column is not in the data.
	ErrMissingData = frame.ErrMissingColumn
)
