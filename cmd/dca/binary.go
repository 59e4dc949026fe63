package main

import (
	"github.com/spf13/cobra"

	"github.com/brookluers/dcurves"
)

var binaryFlags struct {
	data             string
	outcome          string
	predictors       []string
	predictorsToProb []string
	threshVals       []float64
	harm             map[string]string
	prevalence       float64
	out              string
	format           string
}

var binaryCmd = &cobra.Command{
	Use:   "binary",
	Short: "Run the original binary-outcome decision curve analysis",
	Long: `Run the original binary-only analysis: thresholds from a
lower,upper,step range with a near-zero first threshold, and no net
interventions avoided.

Examples:
  dca binary --data df_binary.csv --outcome cancer \
    --predictors cancerpredmarker,famhistory --thresh-vals 0.01,0.99,0.01`,
	Args: cobra.NoArgs,
	RunE: runBinary,
}

func init() {
	f := binaryCmd.Flags()
	f.StringVar(&binaryFlags.data, "data", "", "CSV file or binary column directory")
	f.StringVar(&binaryFlags.outcome, "outcome", "", "0/1 outcome column")
	f.StringSliceVar(&binaryFlags.predictors, "predictors", nil, "predictor columns")
	f.StringSliceVar(&binaryFlags.predictorsToProb, "predictors-to-prob", nil, "predictor columns to convert to risks")
	f.Float64SliceVar(&binaryFlags.threshVals, "thresh-vals", dcurves.DefaultThreshTriple, "threshold range as lower,upper,step")
	f.StringToStringVar(&binaryFlags.harm, "harm", nil, "harm per predictor, as predictor=value")
	f.Float64Var(&binaryFlags.prevalence, "prevalence", 0, "outcome prevalence for case-control data")
	f.StringVarP(&binaryFlags.out, "out", "o", "-", "output file")
	f.StringVar(&binaryFlags.format, "format", "", "output format: csv or json (default from config)")
	_ = binaryCmd.MarkFlagRequired("data")
	_ = binaryCmd.MarkFlagRequired("outcome")
	_ = binaryCmd.MarkFlagRequired("predictors")
}

func runBinary(cmd *cobra.Command, args []string) error {

	data, err := loadData(binaryFlags.data)
	if err != nil {
		return err
	}
	harm, err := parseHarm(binaryFlags.harm)
	if err != nil {
		return err
	}

	var prev *float64
	if cmd.Flags().Changed("prevalence") {
		prev = &binaryFlags.prevalence
	}

	tbl, err := dcurves.BinaryDCA(data, binaryFlags.outcome, binaryFlags.predictors, harm,
		binaryFlags.predictorsToProb, binaryFlags.threshVals, prev)
	if err != nil {
		return err
	}
	logger.WithField("rows", tbl.Len()).Info("completed binary decision curve analysis")

	format := cfg.Output.Format
	if binaryFlags.format != "" {
		format = binaryFlags.format
	}

	return writeTable(tbl, binaryFlags.out, format)
}
