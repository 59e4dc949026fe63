package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brookluers/dcurves/config"
)

var runFlags struct {
	analysis     string
	data         string
	outcome      string
	models       []string
	modelsToProb []string
	thresholds   []float64
	threshRange  []float64
	harm         map[string]string
	prevalence   float64
	time         float64
	timeCol      string
	nper         int
	out          string
	format       string
	plot         string
	graphType    string
	yLimits      []float64
	colors       []string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one decision curve analysis",
	Long: `Run one decision curve analysis, taken from flags or from a named
analysis in the config file with flags overriding its settings.

Examples:
  # Binary outcome, famhistory as a risk score
  dca run --data df_binary.csv --outcome cancer --models famhistory

  # Survival outcome at 1.5 years, converting marker to a risk
  dca run --data df_surv.csv --outcome cancer --models marker \
    --models-to-prob marker --time 1.5 --time-col ttcancer --plot nb.png`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.analysis, "analysis", "", "named analysis from the config file")
	f.StringVar(&runFlags.data, "data", "", "CSV file or binary column directory")
	f.StringVar(&runFlags.outcome, "outcome", "", "outcome column (0/1, event indicator for survival)")
	f.StringSliceVar(&runFlags.models, "models", nil, "model columns")
	f.StringSliceVar(&runFlags.modelsToProb, "models-to-prob", nil, "model columns to convert to risks")
	f.Float64SliceVar(&runFlags.thresholds, "thresholds", nil, "risk thresholds (default 0, 0.01, ..., 0.99)")
	f.Float64SliceVar(&runFlags.threshRange, "thresh-range", nil, "threshold range as lower,upper,step")
	f.StringToStringVar(&runFlags.harm, "harm", nil, "harm per model, as model=value")
	f.Float64Var(&runFlags.prevalence, "prevalence", 0, "outcome prevalence for case-control data")
	f.Float64Var(&runFlags.time, "time", 0, "time horizon for a survival outcome")
	f.StringVar(&runFlags.timeCol, "time-col", "", "time to outcome column for a survival outcome")
	f.IntVar(&runFlags.nper, "nper", 1, "scale of net interventions avoided")
	f.StringVarP(&runFlags.out, "out", "o", "-", "output file")
	f.StringVar(&runFlags.format, "format", "", "output format: csv or json (default from config)")
	f.StringVar(&runFlags.plot, "plot", "", "plot file (png, svg or pdf)")
	f.StringVar(&runFlags.graphType, "graph-type", "net_benefit", "net_benefit or net_intervention_avoided")
	f.Float64SliceVar(&runFlags.yLimits, "y-limits", nil, "plot y limits as lower,upper")
	f.StringSliceVar(&runFlags.colors, "colors", nil, "plot color per model, including all and none")
}

// analysisFromFlags returns the named config analysis, or an empty one,
// with the flags that were set applied.
func analysisFromFlags(cmd *cobra.Command) (config.Analysis, error) {

	var a config.Analysis
	if runFlags.analysis != "" {
		found := false
		for _, b := range cfg.Analyses {
			if b.Name == runFlags.analysis {
				a, found = b, true
				break
			}
		}
		if !found {
			return a, fmt.Errorf("no analysis named %q in config", runFlags.analysis)
		}
	}

	f := cmd.Flags()
	if f.Changed("data") {
		a.Data = runFlags.data
	}
	if f.Changed("outcome") {
		a.Outcome = runFlags.outcome
	}
	if f.Changed("models") {
		a.Models = runFlags.models
	}
	if f.Changed("models-to-prob") {
		a.ModelsToProb = runFlags.modelsToProb
	}
	if f.Changed("thresholds") {
		a.Thresholds, a.ThreshRange = runFlags.thresholds, nil
	}
	if f.Changed("thresh-range") {
		a.ThreshRange, a.Thresholds = runFlags.threshRange, nil
	}
	if f.Changed("harm") {
		harm, err := parseHarm(runFlags.harm)
		if err != nil {
			return a, err
		}
		a.Harm = harm
	}
	if f.Changed("prevalence") {
		p := runFlags.prevalence
		a.Prevalence = &p
	}
	if f.Changed("time") {
		t := runFlags.time
		a.Time = &t
	}
	if f.Changed("time-col") {
		a.TimeToOutcomeCol = runFlags.timeCol
	}
	if f.Changed("nper") {
		a.NPer = runFlags.nper
	}
	if f.Changed("plot") {
		a.Plot.File = runFlags.plot
	}
	if f.Changed("graph-type") || a.Plot.GraphType == "" {
		a.Plot.GraphType = runFlags.graphType
	}
	if f.Changed("y-limits") {
		a.Plot.YLimits = runFlags.yLimits
	}
	if f.Changed("colors") {
		a.Plot.Colors = runFlags.colors
	}

	if a.Name == "" {
		a.Name = "run"
	}

	return a, a.Validate()
}

func runRun(cmd *cobra.Command, args []string) error {

	a, err := analysisFromFlags(cmd)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if runFlags.format != "" {
		format = runFlags.format
	}

	log := logger.WithField("analysis", a.Name)
	log.WithField("data", a.Data).Debug("running analysis")

	return runAnalysis(a, runFlags.out, format, log)
}
