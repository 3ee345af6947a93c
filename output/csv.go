package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/notargets/hydro1d/solver"
)

// CSVWriter writes every snapshot it receives to its own file,
// <Dir>/<Prefix>_<seq>.csv.
type CSVWriter struct {
	Dir       string
	Prefix    string
	Precision int
	Files     []string
}

func NewCSVWriter(dir, prefix string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "snapshot"
	}
	return &CSVWriter{Dir: dir, Prefix: prefix, Precision: 8}, nil
}

func (cw *CSVWriter) OnSnapshot(snap *solver.Snapshot) (err error) {
	path := filepath.Join(cw.Dir, fmt.Sprintf("%s_%04d.csv", cw.Prefix, len(cw.Files)))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = WriteCSV(f, snap, cw.Precision); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	cw.Files = append(cw.Files, path)
	return
}

// WriteCSV writes one row per cell: x, the primitive variables, then the
// conserved variables not already written as primitives.
func WriteCSV(w io.Writer, snap *solver.Snapshot, precision int) error {
	var (
		cw     = csv.NewWriter(w)
		header = append([]string{"x"}, snap.PrimitiveNames...)
		seen   = make(map[string]bool)
		consN  []int
	)
	for _, name := range snap.PrimitiveNames {
		seen[name] = true
	}
	for n, name := range snap.ConservedNames {
		if !seen[name] {
			header = append(header, name)
			consN = append(consN, n)
		}
	}
	format := func(v float64) string { return strconv.FormatFloat(v, 'e', precision, 64) }
	if err := cw.Write([]string{"# time", format(snap.Time), "iteration", strconv.Itoa(snap.Iteration)}); err != nil {
		return err
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	_, nPrim := snap.Prim.Dims()
	for i, x := range snap.X {
		row := make([]string, 0, len(header))
		row = append(row, format(x))
		for n := 0; n < nPrim; n++ {
			row = append(row, format(snap.Prim.At(i, n)))
		}
		for _, n := range consN {
			row = append(row, format(snap.Cons.At(i, n)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
