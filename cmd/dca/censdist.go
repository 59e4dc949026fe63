package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/brookluers/dcurves/frame"
	"github.com/brookluers/dcurves/survival"
)

var censdistFlags struct {
	data      string
	timeCol   string
	statusCol string
	filterCol string
	min       float64
	out       string
}

var censdistCmd = &cobra.Command{
	Use:   "censdist",
	Short: "Estimate the censoring distribution of survival data",
	Long: `Write the reverse Kaplan-Meier estimate of the censoring
distribution as time,prob rows.  The probability of remaining under
follow-up at the analysis horizon bounds how far out risks can be
assessed.

Examples:
  # Censoring distribution among records with age >= 50
  dca censdist --data df_surv.csv --time-col ttcancer --status-col cancer \
    --filter-col age --min 50`,
	Args: cobra.NoArgs,
	RunE: runCensdist,
}

func init() {
	f := censdistCmd.Flags()
	f.StringVar(&censdistFlags.data, "data", "", "CSV file or binary column directory")
	f.StringVar(&censdistFlags.timeCol, "time-col", "", "event or censoring time column")
	f.StringVar(&censdistFlags.statusCol, "status-col", "", "event indicator column")
	f.StringVar(&censdistFlags.filterCol, "filter-col", "", "only use records with this column at least --min")
	f.Float64Var(&censdistFlags.min, "min", 0, "minimum value of --filter-col")
	f.StringVarP(&censdistFlags.out, "out", "o", "-", "output file")
	_ = censdistCmd.MarkFlagRequired("data")
	_ = censdistCmd.MarkFlagRequired("time-col")
	_ = censdistCmd.MarkFlagRequired("status-col")
}

// censoringDist returns the reverse Kaplan-Meier estimate for the records
// of data whose filterCol value is at least minval.
func censoringDist(data *frame.Frame, timeCol, statusCol, filterCol string, minval float64) (*survival.SurvfuncRight, error) {

	if filterCol != "" {
		x, err := data.Col(filterCol)
		if err != nil {
			return nil, err
		}
		keep := make([]bool, len(x))
		for i, v := range x {
			keep[i] = v >= minval
		}
		if data, err = data.Filter(keep); err != nil {
			return nil, err
		}
	}

	time, err := data.Col(timeCol)
	if err != nil {
		return nil, err
	}
	status, err := data.Col(statusCol)
	if err != nil {
		return nil, err
	}

	return survival.Censoring(time, status)
}

func writeSurvfunc(w io.Writer, sf *survival.SurvfuncRight) error {

	ti := sf.Time()
	sp := sf.SurvProb()

	wr := csv.NewWriter(w)
	if err := wr.Write([]string{"time", "prob"}); err != nil {
		return err
	}
	for i := range ti {
		rec := []string{strconv.FormatFloat(ti[i], 'f', 6, 64), strconv.FormatFloat(sp[i], 'f', 6, 64)}
		if err := wr.Write(rec); err != nil {
			return err
		}
	}
	wr.Flush()

	return wr.Error()
}

func runCensdist(cmd *cobra.Command, args []string) error {

	data, err := loadData(censdistFlags.data)
	if err != nil {
		return err
	}

	sf, err := censoringDist(data, censdistFlags.timeCol, censdistFlags.statusCol,
		censdistFlags.filterCol, censdistFlags.min)
	if err != nil {
		return err
	}
	logger.WithField("times", len(sf.Time())).Debug("estimated censoring distribution")

	fn := censdistFlags.out
	if fn == "" || fn == "-" {
		return writeSurvfunc(os.Stdout, sf)
	}

	fid, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := writeSurvfunc(fid, sf); err != nil {
		fid.Close()
		return err
	}

	return fid.Close()
}
