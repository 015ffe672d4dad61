// internal/result/csv.go
package result

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Tabular layout follows the downstream plotting tooling: first column is
// the row index (repetition number for raw tables, statistic name for the
// stats table) with an empty header cell, then one column per test case.

// WriteColumn persists a single case column to <dir>/<column>.csv, one row
// per repetition. The header cell carries only the case name; the build
// variant lives in the filename. Called after each case so a later failure
// cannot lose completed results.
func (s *Set) WriteColumn(dir, column, caseName string) error {
	rows := [][]string{{"", caseName}}
	for i, v := range s.cols[column] {
		rows = append(rows, []string{strconv.Itoa(i), formatFloat(v)})
	}
	return writeFile(filepath.Join(dir, column+".csv"), rows)
}

// WriteRaw persists the aggregate table: one column per case, one row per
// repetition.
func (s *Set) WriteRaw(path string) error {
	header := append([]string{""}, s.order...)

	depth := 0
	for _, name := range s.order {
		if n := len(s.cols[name]); n > depth {
			depth = n
		}
	}

	rows := [][]string{header}
	for i := 0; i < depth; i++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i))
		for _, name := range s.order {
			col := s.cols[name]
			if i < len(col) {
				row = append(row, formatFloat(col[i]))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return writeFile(path, rows)
}

// WriteStats persists the descriptive-statistics table, one statistic per
// row.
func (s *Set) WriteStats(path string) error {
	summaries := make([]Summary, len(s.order))
	for i, name := range s.order {
		summaries[i] = Describe(s.cols[name])
	}

	rows := [][]string{append([]string{""}, s.order...)}

	stat := func(label string, pick func(Summary) string) {
		row := make([]string, 0, len(s.order)+1)
		row = append(row, label)
		for _, sum := range summaries {
			row = append(row, pick(sum))
		}
		rows = append(rows, row)
	}

	stat("count", func(x Summary) string { return strconv.Itoa(x.Count) })
	stat("mean", func(x Summary) string { return formatFloat(x.Mean) })
	stat("std", func(x Summary) string { return formatFloat(x.Std) })
	stat("min", func(x Summary) string { return formatFloat(x.Min) })
	stat("25%", func(x Summary) string { return formatFloat(x.Q1) })
	stat("50%", func(x Summary) string { return formatFloat(x.Median) })
	stat("75%", func(x Summary) string { return formatFloat(x.Q3) })
	stat("max", func(x Summary) string { return formatFloat(x.Max) })

	return writeFile(path, rows)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "result: create %s", path)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return errors.Wrapf(err, "result: write %s", path)
	}

	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "result: close %s", path)
	}
	return nil
}
