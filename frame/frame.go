// Package frame holds a small in-memory columnar data set.  All columns
// are float64 slices of equal length; Boolean values are stored as 1/0
// and missing values as NaN.
package frame

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrMissingColumn is returned when a named column is not in the frame.
var ErrMissingColumn = errors.New("frame: column not found")

// Frame is a set of named columns of equal length.
type Frame struct {

	// Column names, in order
	names []string

	// Column data, keyed by name
	cols map[string][]float64

	nrow int
}

// New returns a frame containing the given columns.  The data slices are
// not copied.
func New(names []string, data [][]float64) (*Frame, error) {

	if len(names) != len(data) {
		return nil, fmt.Errorf("frame: %d names for %d columns", len(names), len(data))
	}

	f := &Frame{
		cols: make(map[string][]float64, len(names)),
	}

	for j, na := range names {
		if _, ok := f.cols[na]; ok {
			return nil, fmt.Errorf("frame: duplicate column name %q", na)
		}
		if j == 0 {
			f.nrow = len(data[j])
		}
		if err := f.set(na, data[j]); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func (f *Frame) set(name string, x []float64) error {

	if len(f.names) > 0 && len(x) != f.nrow {
		return fmt.Errorf("frame: column %q has length %d, expected %d", name, len(x), f.nrow)
	}
	if len(f.names) == 0 {
		f.nrow = len(x)
	}
	if _, ok := f.cols[name]; !ok {
		f.names = append(f.names, name)
	}
	f.cols[name] = x

	return nil
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	return append([]string(nil), f.names...)
}

// NumRows returns the number of records.
func (f *Frame) NumRows() int {
	return f.nrow
}

// NumVar returns the number of columns.
func (f *Frame) NumVar() int {
	return len(f.names)
}

// Has reports whether the named column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Col returns the named column.  The returned slice is shared with the
// frame and must not be modified.
func (f *Frame) Col(name string) ([]float64, error) {
	x, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return x, nil
}

// Copy returns a shallow copy of the frame.  Column slices are shared, so
// replacing a column in the copy with With does not affect the original.
func (f *Frame) Copy() *Frame {

	g := &Frame{
		names: append([]string(nil), f.names...),
		cols:  make(map[string][]float64, len(f.cols)),
		nrow:  f.nrow,
	}
	for k, v := range f.cols {
		g.cols[k] = v
	}

	return g
}

// With returns a copy of the frame in which the named column is set to x,
// appending it if it does not already exist.
func (f *Frame) With(name string, x []float64) (*Frame, error) {
	g := f.Copy()
	if err := g.set(name, x); err != nil {
		return nil, err
	}
	return g, nil
}

// Filter returns a new frame containing the rows for which keep is true.
func (f *Frame) Filter(keep []bool) (*Frame, error) {

	if len(keep) != f.nrow {
		return nil, fmt.Errorf("frame: filter has length %d, expected %d", len(keep), f.nrow)
	}

	var m int
	for _, k := range keep {
		if k {
			m++
		}
	}

	g := &Frame{
		names: append([]string(nil), f.names...),
		cols:  make(map[string][]float64, len(f.cols)),
		nrow:  m,
	}
	for _, na := range f.names {
		x := f.cols[na]
		y := make([]float64, 0, m)
		for i, k := range keep {
			if k {
				y = append(y, x[i])
			}
		}
		g.cols[na] = y
	}

	return g, nil
}

// Select returns a frame with only the named columns.
func (f *Frame) Select(names ...string) (*Frame, error) {

	g := &Frame{
		cols: make(map[string][]float64, len(names)),
		nrow: f.nrow,
	}
	for _, na := range names {
		x, err := f.Col(na)
		if err != nil {
			return nil, err
		}
		g.names = append(g.names, na)
		g.cols[na] = x
	}

	return g, nil
}

// Stats holds summary statistics for one column.
type Stats struct {
	N    int
	NaN  int
	Mean float64
	SD   float64
	Min  float64
	Max  float64
}

// Describe returns summary statistics for every column, skipping NaN
// values.
func (f *Frame) Describe() map[string]Stats {

	st := make(map[string]Stats, len(f.names))
	for _, na := range f.names {
		var z []float64
		nan := 0
		for _, v := range f.cols[na] {
			if math.IsNaN(v) {
				nan++
				continue
			}
			z = append(z, v)
		}

		s := Stats{N: len(z), NaN: nan, Mean: math.NaN(), SD: math.NaN(),
			Min: math.NaN(), Max: math.NaN()}
		if len(z) > 0 {
			s.Mean, s.SD = stat.MeanStdDev(z, nil)
			s.Min = floats.Min(z)
			s.Max = floats.Max(z)
		}
		st[na] = s
	}

	return st
}
