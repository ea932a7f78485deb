// Package pca projects feature matrices onto their leading principal
// components. The analysis pipeline uses it only to flatten clustered data
// to two dimensions for scatter plots.
package pca

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Project returns the rows of data projected onto their first `components`
// principal components, computed from the SVD of the mean-centered matrix.
// It requires more rows than components and at least `components` columns.
func Project(data [][]float64, components int) ([][]float64, error) {
	if components < 1 {
		return nil, fmt.Errorf("pca: components must be positive, got %d", components)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("pca: empty data")
	}
	rows := len(data)
	cols := len(data[0])
	if cols < components {
		return nil, fmt.Errorf("pca: %d columns cannot yield %d components", cols, components)
	}
	if rows <= components {
		return nil, fmt.Errorf("pca: need more than %d rows, got %d", components, rows)
	}

	m := mat.NewDense(rows, cols, nil)
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("pca: row %d has %d columns, want %d", i, len(row), cols)
		}
		m.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, fmt.Errorf("pca: decomposition failed")
	}
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	// Center the data before projecting, as the components are computed on
	// the mean-subtracted matrix.
	means := make([]float64, cols)
	for j := 0; j < cols; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, m), nil)
	}
	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, m.At(i, j)-means[j])
		}
	}

	var projected mat.Dense
	projected.Mul(centered, vectors.Slice(0, cols, 0, components))

	out := make([][]float64, rows)
	for i := range out {
		out[i] = mat.Row(nil, i, &projected)
	}
	return out, nil
}
