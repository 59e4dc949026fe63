package dcurves

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"
)

// Columns lists the output columns in order.
var Columns = []string{
	"model",
	"threshold",
	"n",
	"prevalence",
	"harm",
	"test_pos_rate",
	"tp_rate",
	"fp_rate",
	"net_benefit",
	"net_intervention_avoided",
}

// Row holds the decision curve statistics for one model at one threshold.
// Undefined values are NaN.
type Row struct {
	Model                  string
	Threshold              float64
	N                      int
	Prevalence             float64
	Harm                   float64
	TestPosRate            float64
	TPRate                 float64
	FPRate                 float64
	NetBenefit             float64
	NetInterventionAvoided float64
}

// Table is the result of a decision curve analysis.  It is not modified
// after it is returned.
type Table struct {
	rows   []Row
	models []string

	// False for the legacy binary output, which has no
	// net_intervention_avoided column
	nia bool
}

func newTable(rows []Row, models []string, nia bool) *Table {
	return &Table{
		rows:   rows,
		models: append([]string(nil), models...),
		nia:    nia,
	}
}

// Len returns the number of rows.
func (tb *Table) Len() int {
	return len(tb.rows)
}

// Rows returns a copy of all rows, grouped by model in model order and
// by threshold within model.
func (tb *Table) Rows() []Row {
	return append([]Row(nil), tb.rows...)
}

// Models returns the model names in output order, including "all" and
// "none".
func (tb *Table) Models() []string {
	return append([]string(nil), tb.models...)
}

// Model returns the rows for one model in threshold order.
func (tb *Table) Model(name string) []Row {
	var rows []Row
	for _, r := range tb.rows {
		if r.Model == name {
			rows = append(rows, r)
		}
	}
	return rows
}

// HasInterventionsAvoided reports whether net_intervention_avoided was
// computed.
func (tb *Table) HasInterventionsAvoided() bool {
	return tb.nia
}

// Columns returns the names of the columns present in the table.
func (tb *Table) Columns() []string {
	if tb.nia {
		return append([]string(nil), Columns...)
	}
	return append([]string(nil), Columns[:len(Columns)-1]...)
}

func (r Row) values() []float64 {
	return []float64{r.Threshold, float64(r.N), r.Prevalence, r.Harm, r.TestPosRate,
		r.TPRate, r.FPRate, r.NetBenefit, r.NetInterventionAvoided}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the table with a header row.  Undefined values are
// written as empty cells.
func (tb *Table) WriteCSV(w io.Writer) error {

	cols := tb.Columns()
	wr := csv.NewWriter(w)
	if err := wr.Write(cols); err != nil {
		return err
	}

	rec := make([]string, len(cols))
	for _, r := range tb.rows {
		rec[0] = r.Model
		for j, v := range r.values()[:len(cols)-1] {
			rec[j+1] = formatFloat(v)
		}
		if err := wr.Write(rec); err != nil {
			return err
		}
	}
	wr.Flush()

	return wr.Error()
}

type jsonRow struct {
	Model       string   `json:"model"`
	Threshold   *float64 `json:"threshold"`
	N           *float64 `json:"n"`
	Prevalence  *float64 `json:"prevalence"`
	Harm        *float64 `json:"harm"`
	TestPosRate *float64 `json:"test_pos_rate"`
	TPRate      *float64 `json:"tp_rate"`
	FPRate      *float64 `json:"fp_rate"`
	NetBenefit  *float64 `json:"net_benefit"`
}

type jsonRowNIA struct {
	jsonRow
	NetInterventionAvoided *float64 `json:"net_intervention_avoided"`
}

// jsonValue returns nil for values JSON cannot represent.
func jsonValue(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (r Row) jsonRow() jsonRow {
	return jsonRow{
		Model:       r.Model,
		Threshold:   jsonValue(r.Threshold),
		N:           jsonValue(float64(r.N)),
		Prevalence:  jsonValue(r.Prevalence),
		Harm:        jsonValue(r.Harm),
		TestPosRate: jsonValue(r.TestPosRate),
		TPRate:      jsonValue(r.TPRate),
		FPRate:      jsonValue(r.FPRate),
		NetBenefit:  jsonValue(r.NetBenefit),
	}
}

// MarshalJSON encodes the table as an array of objects whose keys follow
// the column order.  Undefined values are encoded as null.
func (tb *Table) MarshalJSON() ([]byte, error) {

	if !tb.nia {
		out := make([]jsonRow, len(tb.rows))
		for i, r := range tb.rows {
			out[i] = r.jsonRow()
		}
		return json.Marshal(out)
	}

	out := make([]jsonRowNIA, len(tb.rows))
	for i, r := range tb.rows {
		out[i] = jsonRowNIA{
			jsonRow:                r.jsonRow(),
			NetInterventionAvoided: jsonValue(r.NetInterventionAvoided),
		}
	}

	return json.Marshal(out)
}
