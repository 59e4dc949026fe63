package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// parseValue converts one CSV cell.  Boolean spellings map to 1/0 and
// empty or NA cells map to NaN.
func parseValue(s string) (float64, error) {

	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null":
		return math.NaN(), nil
	case "true", "t", "yes":
		return 1, nil
	case "false", "f", "no":
		return 0, nil
	}

	return strconv.ParseFloat(s, 64)
}

// ReadCSV reads a frame from CSV data with a header row.  Every column
// must be numeric or Boolean.
func ReadCSV(r io.Reader) (*Frame, error) {

	rd := csv.NewReader(r)
	rd.TrimLeadingSpace = true

	names, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("frame: reading header: %w", err)
	}
	for j := range names {
		names[j] = strings.TrimSpace(names[j])
	}

	da := make([][]float64, len(names))
	for line := 2; ; line++ {
		row, err := rd.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("frame: line %d: %w", line, err)
		}

		for j, s := range row {
			v, err := parseValue(s)
			if err != nil {
				return nil, fmt.Errorf("frame: line %d, column %q: %w", line, names[j], err)
			}
			da[j] = append(da[j], v)
		}
	}

	for j := range da {
		if da[j] == nil {
			da[j] = []float64{}
		}
	}

	return New(names, da)
}

// ReadCSVFile reads a frame from the named CSV file.
func ReadCSVFile(fname string) (*Frame, error) {

	fid, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	return ReadCSV(fid)
}

// WriteCSV writes the frame as CSV with a header row.  NaN values are
// written as empty cells.
func (f *Frame) WriteCSV(w io.Writer) error {

	wr := csv.NewWriter(w)
	if err := wr.Write(f.names); err != nil {
		return err
	}

	rec := make([]string, len(f.names))
	for i := 0; i < f.nrow; i++ {
		for j, na := range f.names {
			v := f.cols[na][i]
			if math.IsNaN(v) {
				rec[j] = ""
			} else {
				rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := wr.Write(rec); err != nil {
			return err
		}
	}
	wr.Flush()

	return wr.Error()
}
