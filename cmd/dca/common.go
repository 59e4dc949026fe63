package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/brookluers/dcurves"
	"github.com/brookluers/dcurves/config"
	"github.com/brookluers/dcurves/dcaplot"
	"github.com/brookluers/dcurves/frame"
)

// loadData reads a CSV file, or a directory of binary columns.
func loadData(path string) (*frame.Frame, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return frame.ReadBCols(path)
	}
	return frame.ReadCSVFile(path)
}

// writeTable writes tbl in the given format to fname, or to stdout if
// fname is empty or "-".
func writeTable(tbl *dcurves.Table, fname, format string) error {

	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown output format %q", format)
	}

	if fname == "" || fname == "-" {
		return encodeTable(os.Stdout, tbl, format)
	}

	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return err
	}
	fid, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := encodeTable(fid, tbl, format); err != nil {
		fid.Close()
		return err
	}

	return fid.Close()
}

func encodeTable(w io.Writer, tbl *dcurves.Table, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tbl)
	}
	return tbl.WriteCSV(w)
}

// makePlot draws and saves the plot described by pc, if any.
func makePlot(tbl *dcurves.Table, pc config.PlotConfig, log logrus.FieldLogger) error {

	if pc.File == "" {
		return nil
	}
	graphType := pc.GraphType
	if graphType == "" {
		graphType = dcaplot.NetBenefit
	}
	ylim := pc.YLimits
	if len(ylim) == 0 {
		ylim = []float64{-0.05, 1}
	}

	p, err := dcaplot.PlotGraphs(tbl, graphType, ylim, pc.Colors)
	if err != nil {
		return err
	}
	if err := dcaplot.Save(p, pc.File); err != nil {
		return err
	}
	log.WithField("file", pc.File).Info("saved plot")

	return nil
}

// runAnalysis runs one configured analysis and writes its results to
// fname.
func runAnalysis(a config.Analysis, fname, format string, log logrus.FieldLogger) error {

	data, err := loadData(a.Data)
	if err != nil {
		return err
	}

	opts, err := a.Options()
	if err != nil {
		return err
	}
	opts.Logger = log

	tbl, err := dcurves.DCA(data, a.Outcome, a.Models, opts)
	if err != nil {
		return err
	}
	log.WithField("rows", tbl.Len()).Info("completed decision curve analysis")

	if err := writeTable(tbl, fname, format); err != nil {
		return err
	}

	return makePlot(tbl, a.Plot, log)
}

// parseHarm converts model=value pairs to harms.
func parseHarm(m map[string]string) (map[string]float64, error) {
	if len(m) == 0 {
		return nil, nil
	}
	harm := make(map[string]float64, len(m))
	for k, v := range m {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("harm for %q: %w", k, err)
		}
		harm[k] = x
	}
	return harm, nil
}
