package frame

import (
	"compress/gzip"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
)

// The binary column format stores every column in its own gzip
// compressed file <dir>/<name>.bin.gz as little-endian float64 values.
// A dtypes.json file in the same directory maps column names to their
// type, which is always float64.

const dtypesFile = "dtypes.json"

// colWriter manages output for one column.
type colWriter struct {

	// Write directly to the file
	fw io.WriteCloser

	// Write compressed data to the file
	zw io.WriteCloser
}

func newColWriter(dir, name string) (*colWriter, error) {

	fw, err := os.Create(path.Join(dir, fmt.Sprintf("%s.bin.gz", name)))
	if err != nil {
		return nil, err
	}

	return &colWriter{fw: fw, zw: gzip.NewWriter(fw)}, nil
}

// Close closes the io writers.
func (cw *colWriter) Close() error {
	zerr := cw.zw.Close() // order is important here
	ferr := cw.fw.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// WriteBCols stores the frame as binary columns in dir, creating the
// directory if needed.
func (f *Frame) WriteBCols(dir string) error {

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	dt := make(map[string]string)
	for _, na := range f.names {
		cw, err := newColWriter(dir, na)
		if err != nil {
			return err
		}
		err = binary.Write(cw.zw, binary.LittleEndian, f.cols[na])
		cerr := cw.Close()
		if err != nil {
			return fmt.Errorf("frame: writing column %q: %w", na, err)
		}
		if cerr != nil {
			return cerr
		}
		dt[na] = "float64"
	}

	out, err := os.Create(path.Join(dir, dtypesFile))
	if err != nil {
		return err
	}
	if err := json.NewEncoder(out).Encode(&dt); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

// ReadBCols loads a frame previously stored with WriteBCols.  Columns are
// ordered by name.
func ReadBCols(dir string) (*Frame, error) {

	fid, err := os.Open(path.Join(dir, dtypesFile))
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	dt := make(map[string]string)
	if err := json.NewDecoder(fid).Decode(&dt); err != nil {
		return nil, fmt.Errorf("frame: reading %s: %w", dtypesFile, err)
	}

	var names []string
	for na, ty := range dt {
		if ty != "float64" {
			return nil, fmt.Errorf("frame: column %q has unsupported type %q", na, ty)
		}
		names = append(names, na)
	}
	sort.Strings(names)

	da := make([][]float64, len(names))
	for j, na := range names {
		x, err := readCol(dir, na)
		if err != nil {
			return nil, fmt.Errorf("frame: reading column %q: %w", na, err)
		}
		da[j] = x
	}

	return New(names, da)
}

func readCol(dir, name string) ([]float64, error) {

	fid, err := os.Open(path.Join(dir, fmt.Sprintf("%s.bin.gz", name)))
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	gid, err := gzip.NewReader(fid)
	if err != nil {
		return nil, err
	}
	defer gid.Close()

	x := []float64{}
	for {
		var v float64
		err := binary.Read(gid, binary.LittleEndian, &v)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		x = append(x, v)
	}

	return x, nil
}
