package convOrder

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

var ErrStudy = errors.New("convOrder: invalid study")

// Study collects error norms of one quantity over a sequence of grids.
type Study struct {
	Title string
	Cells []int
	L1    []float64
	RMS   []float64
	Max   []float64
}

func NewStudy(title string) *Study {
	return &Study{Title: title}
}

// Add records the pointwise errors of a run on a grid with the given number
// of cells.
func (cs *Study) Add(cells int, errs []float64) {
	n := float64(len(errs))
	cs.AddNorms(cells, floats.Norm(errs, 1)/n, floats.Norm(errs, 2)/math.Sqrt(n), floats.Norm(errs, math.Inf(1)))
}

func (cs *Study) AddNorms(cells int, l1, rms, linf float64) {
	cs.Cells = append(cs.Cells, cells)
	cs.L1 = append(cs.L1, l1)
	cs.RMS = append(cs.RMS, rms)
	cs.Max = append(cs.Max, linf)
}

// Orders returns the observed order of accuracy between successive grids,
// log(e[i-1]/e[i]) / log(N[i]/N[i-1]), for each norm.
func (cs *Study) Orders() (l1, rms, linf []float64, err error) {
	if len(cs.Cells) < 2 {
		err = fmt.Errorf("%w: %q needs at least two grids, has %d", ErrStudy, cs.Title, len(cs.Cells))
		return
	}
	order := func(e []float64, i int) float64 {
		return math.Log(e[i-1]/e[i]) / math.Log(float64(cs.Cells[i])/float64(cs.Cells[i-1]))
	}
	for i := 1; i < len(cs.Cells); i++ {
		if cs.Cells[i] <= cs.Cells[i-1] {
			err = fmt.Errorf("%w: %q grids must be increasing, got %v", ErrStudy, cs.Title, cs.Cells)
			return
		}
		l1 = append(l1, order(cs.L1, i))
		rms = append(rms, order(cs.RMS, i))
		linf = append(linf, order(cs.Max, i))
	}
	return
}

func (cs *Study) Print(w io.Writer) {
	fmt.Fprintf(w, "Title = %s\n", cs.Title)
	fmt.Fprintf(w, "%8s%14s%8s%14s%8s%14s%8s\n", "cells", "L1", "order", "RMS", "order", "Max", "order")
	l1, rms, linf, err := cs.Orders()
	for i := range cs.Cells {
		fmt.Fprintf(w, "%8d%14.6e", cs.Cells[i], cs.L1[i])
		if i == 0 || err != nil {
			fmt.Fprintf(w, "%8s%14.6e%8s%14.6e%8s\n", "", cs.RMS[i], "", cs.Max[i], "")
			continue
		}
		fmt.Fprintf(w, "%8.3f%14.6e%8.3f%14.6e%8.3f\n", l1[i-1], cs.RMS[i], rms[i-1], cs.Max[i], linf[i-1])
	}
}

var csvHeader = []string{"title", "cells", "l1", "rms", "max"}

// WriteCSV appends the study to a CSV stream, one row per grid.
func WriteCSV(w io.Writer, studies ...*Study) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, cs := range studies {
		for i := range cs.Cells {
			rec := []string{cs.Title, strconv.Itoa(cs.Cells[i]),
				strconv.FormatFloat(cs.L1[i], 'g', -1, 64),
				strconv.FormatFloat(cs.RMS[i], 'g', -1, 64),
				strconv.FormatFloat(cs.Max[i], 'g', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads studies written by WriteCSV, sorted by title.
func ReadCSV(r io.Reader) (studies []*Study, err error) {
	var records [][]string
	if records, err = csv.NewReader(bufio.NewReader(r)).ReadAll(); err != nil {
		return
	}
	byTitle := make(map[string]*Study)
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrStudy, i+1, len(rec))
		}
		var (
			cells         int
			l1, rms, linf float64
		)
		if cells, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrStudy, i+1, err)
		}
		for j, p := range []*float64{&l1, &rms, &linf} {
			if *p, err = strconv.ParseFloat(rec[2+j], 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrStudy, i+1, err)
			}
		}
		cs, ok := byTitle[rec[0]]
		if !ok {
			cs = NewStudy(rec[0])
			byTitle[rec[0]] = cs
			studies = append(studies, cs)
		}
		cs.AddNorms(cells, l1, rms, linf)
	}
	sort.Slice(studies, func(i, j int) bool { return studies[i].Title < studies[j].Title })
	return
}
