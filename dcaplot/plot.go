// Package dcaplot draws decision curves from a dcurves.Table.
package dcaplot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/brookluers/dcurves"
)

// Graph types.
const (
	NetBenefit             = "net_benefit"
	NetInterventionAvoided = "net_intervention_avoided"
)

// ErrInvalidPlot indicates plot arguments that cannot be drawn.
var ErrInvalidPlot = errors.New("dcaplot: invalid plot arguments")

// Default output size of Save.
var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// ValidateGraphType checks that graphType is a known graph type.
func ValidateGraphType(graphType string) error {
	switch graphType {
	case NetBenefit, NetInterventionAvoided:
		return nil
	}
	return fmt.Errorf("%w: graph type must be either %s or %s, got %q",
		ErrInvalidPlot, NetBenefit, NetInterventionAvoided, graphType)
}

// ValidateLimits checks that limits is an increasing pair.
func ValidateLimits(limits []float64) error {
	if len(limits) != 2 {
		return fmt.Errorf("%w: limits must contain 2 values, got %d", ErrInvalidPlot, len(limits))
	}
	if !(limits[0] < limits[1]) {
		return fmt.Errorf("%w: limits %v are not increasing", ErrInvalidPlot, limits)
	}
	return nil
}

// lookupColors maps color names (as in golang.org/x/image/colornames) to
// colors.  If names is empty the default plotutil palette is used.
func lookupColors(names []string, n int) ([]color.Color, error) {

	cols := make([]color.Color, n)
	if len(names) == 0 {
		for i := range cols {
			cols[i] = plotutil.Color(i)
		}
		return cols, nil
	}

	if len(names) != n {
		return nil, fmt.Errorf("%w: %d color names for %d models", ErrInvalidPlot, len(names), n)
	}
	for i, na := range names {
		c, ok := colornames.Map[strings.ToLower(na)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidPlot, na)
		}
		cols[i] = c
	}

	return cols, nil
}

// segments splits one model's curve into runs of points that are defined
// and within [lo, hi].
func segments(rows []dcurves.Row, value func(dcurves.Row) float64, lo, hi float64) []plotter.XYs {

	var segs []plotter.XYs
	var cur plotter.XYs
	for _, r := range rows {
		y := value(r)
		if math.IsNaN(y) || math.IsInf(y, 0) || y < lo || y > hi {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: r.Threshold, Y: y})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}

	return segs
}

// PlotGraphs draws one curve per model of tbl against the threshold.
// graphType selects net benefit or net interventions avoided, yLimits
// gives the vertical range and colorNames, if not empty, gives one color
// per model in tbl.Models() order.
func PlotGraphs(tbl *dcurves.Table, graphType string, yLimits []float64, colorNames []string) (*plot.Plot, error) {

	if err := ValidateGraphType(graphType); err != nil {
		return nil, err
	}
	if err := ValidateLimits(yLimits); err != nil {
		return nil, err
	}
	if err := dcurves.ValidateStrList(colorNames); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlot, err)
	}
	if graphType == NetInterventionAvoided && !tbl.HasInterventionsAvoided() {
		return nil, fmt.Errorf("%w: table has no %s column", ErrInvalidPlot, NetInterventionAvoided)
	}

	models := tbl.Models()
	cols, err := lookupColors(colorNames, len(models))
	if err != nil {
		return nil, err
	}

	value := func(r dcurves.Row) float64 { return r.NetBenefit }
	ylab := "Net Benefit"
	if graphType == NetInterventionAvoided {
		value = func(r dcurves.Row) float64 { return r.NetInterventionAvoided }
		ylab = "Net Reduction of Interventions"
	}

	p := plot.New()
	p.X.Label.Text = "Threshold Probability"
	p.Y.Label.Text = ylab
	p.Legend.Top = true

	for i, m := range models {
		for j, seg := range segments(tbl.Model(m), value, yLimits[0], yLimits[1]) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, err
			}
			line.Color = cols[i]
			line.Width = vg.Points(1.5)
			p.Add(line)
			if j == 0 {
				p.Legend.Add(m, line)
			}
		}
	}

	p.Y.Min = yLimits[0]
	p.Y.Max = yLimits[1]

	return p, nil
}

// Save writes p to fname in the format given by its extension (png, svg,
// pdf, ...).
func Save(p *plot.Plot, fname string) error {
	return p.Save(Width, Height, fname)
}
