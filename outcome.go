package dcurves

import "fmt"

// Outcome describes the type of outcome being analyzed.  It is either
// Binary or Survival.
type Outcome interface {
	fmt.Stringer
	isOutcome()
}

// Binary is a cross-sectional outcome: the outcome column holds 1 for a
// case and 0 otherwise.
type Binary struct{}

// Survival is a time-to-event outcome observed with right censoring.  The
// outcome column is the event indicator, TimeCol holds the event or
// censoring time and Time is the horizon at which risk is assessed.
type Survival struct {
	Time    float64
	TimeCol string
}

func (Binary) isOutcome()   {}
func (Survival) isOutcome() {}

func (Binary) String() string {
	return "binary"
}

func (s Survival) String() string {
	return fmt.Sprintf("survival(%s, t=%g)", s.TimeCol, s.Time)
}

// outcomeFor decides the outcome type from the optional time arguments.
func outcomeFor(time *float64, timeCol string) (Outcome, error) {

	if timeCol == "" {
		return Binary{}, nil
	}
	if time == nil {
		return nil, fmt.Errorf("%w: time is required with time-to-outcome column %q", ErrInvalidArgument, timeCol)
	}

	return Survival{Time: *time, TimeCol: timeCol}, nil
}
