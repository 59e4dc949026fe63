package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brookluers/dcurves/frame"
)

var convertCmd = &cobra.Command{
	Use:   "convert <csv file> <directory>",
	Short: "Convert a CSV file to binary columns",
	Long: `Write each column of a CSV file to <directory>/<name>.bin.gz as
gzip compressed little-endian float64 values, with the column types in
dtypes.json.  The directory can be given to --data in place of the CSV
file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {

		data, err := frame.ReadCSVFile(args[0])
		if err != nil {
			return err
		}
		if err := data.WriteBCols(args[1]); err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"columns": data.NumVar(),
			"rows":    data.NumRows(),
			"dir":     args[1],
		}).Info("wrote binary columns")

		for na, st := range data.Describe() {
			logger.WithFields(logrus.Fields{
				"column": na,
				"n":      st.N,
				"nan":    st.NaN,
				"mean":   st.Mean,
				"min":    st.Min,
				"max":    st.Max,
			}).Debug("column summary")
		}

		return nil
	},
}
