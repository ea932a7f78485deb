package dataset

import (
	"fmt"
	"math"
)

// Frame is an ordered set of named float64 columns with row-major storage.
// Frames are immutable by convention: transforming methods return a new
// Frame and accessors return copies, so callers cannot corrupt shared data.
type Frame struct {
	cols []string
	rows [][]float64
}

// New builds a Frame from column names and rows. Every row must have exactly
// one value per column.
func New(cols []string, rows [][]float64) (*Frame, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("dataset: frame needs at least one column")
	}
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("dataset: row %d has %d values, want %d", i, len(row), len(cols))
		}
	}
	return &Frame{cols: append([]string(nil), cols...), rows: rows}, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string { return append([]string(nil), f.cols...) }

// ColumnIndex resolves a column name to its position.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	for i, c := range f.cols {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []float64 { return append([]float64(nil), f.rows[i]...) }

// Matrix returns a deep copy of all rows.
func (f *Frame) Matrix() [][]float64 {
	out := make([][]float64, len(f.rows))
	for i, row := range f.rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]float64, error) {
	idx, ok := f.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("dataset: unknown column %q", name)
	}
	out := make([]float64, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Drop returns a new Frame without the named columns.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := f.ColumnIndex(n); !ok {
			return nil, fmt.Errorf("dataset: unknown column %q", n)
		}
		drop[n] = true
	}
	keep := make([]int, 0, len(f.cols))
	cols := make([]string, 0, len(f.cols))
	for i, c := range f.cols {
		if !drop[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("dataset: dropping %v leaves no columns", names)
	}
	rows := make([][]float64, len(f.rows))
	for i, row := range f.rows {
		out := make([]float64, len(keep))
		for j, idx := range keep {
			out[j] = row[idx]
		}
		rows[i] = out
	}
	return &Frame{cols: cols, rows: rows}, nil
}

// Filter returns a new Frame holding the rows for which pred is true.
func (f *Frame) Filter(pred func(row []float64) bool) *Frame {
	rows := make([][]float64, 0, len(f.rows))
	for _, row := range f.rows {
		if pred(row) {
			rows = append(rows, append([]float64(nil), row...))
		}
	}
	return &Frame{cols: append([]string(nil), f.cols...), rows: rows}
}

// FilterEq returns the rows whose named column equals v.
func (f *Frame) FilterEq(name string, v float64) (*Frame, error) {
	idx, ok := f.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("dataset: unknown column %q", name)
	}
	return f.Filter(func(row []float64) bool { return row[idx] == v }), nil
}

// FilterRange returns the rows whose named column falls in [lo, hi). Pass
// math.Inf(1) as hi for an open-ended band.
func (f *Frame) FilterRange(name string, lo, hi float64) (*Frame, error) {
	idx, ok := f.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("dataset: unknown column %q", name)
	}
	return f.Filter(func(row []float64) bool { return row[idx] >= lo && row[idx] < hi }), nil
}

// Split separates the named target column from the features: it returns the
// remaining columns as a new Frame and the target values as integer labels.
// Target values must be whole numbers.
func (f *Frame) Split(target string) (*Frame, []int, error) {
	col, err := f.Column(target)
	if err != nil {
		return nil, nil, err
	}
	labels := make([]int, len(col))
	for i, v := range col {
		if v != math.Trunc(v) {
			return nil, nil, fmt.Errorf("dataset: target %q row %d is %v, want an integer label", target, i, v)
		}
		labels[i] = int(v)
	}
	features, err := f.Drop(target)
	if err != nil {
		return nil, nil, err
	}
	return features, labels, nil
}

// Take returns a new Frame holding the rows at the given indices, in order.
func (f *Frame) Take(indices []int) (*Frame, error) {
	rows := make([][]float64, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(f.rows) {
			return nil, fmt.Errorf("dataset: row index %d out of range [0,%d)", idx, len(f.rows))
		}
		rows[i] = append([]float64(nil), f.rows[idx]...)
	}
	return &Frame{cols: append([]string(nil), f.cols...), rows: rows}, nil
}
