// Package scale provides z-score standardization for feature matrices. The
// classifier and clustering code assume inputs are already on comparable
// scales; this package is where that happens.
package scale

import (
	"fmt"
	"math"
)

// Scaler standardizes each feature column to zero mean and unit variance
// using the population standard deviation. Columns with zero variance map
// to zero rather than dividing by zero.
type Scaler struct {
	mean []float64
	std  []float64
}

// Fit computes per-column mean and standard deviation from data.
func (s *Scaler) Fit(data [][]float64) error {
	if len(data) == 0 {
		return fmt.Errorf("scale: fit on empty data")
	}
	dim := len(data[0])
	mean := make([]float64, dim)
	for i, row := range data {
		if len(row) != dim {
			return fmt.Errorf("scale: row %d has %d values, want %d", i, len(row), dim)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(data))
	for j := range mean {
		mean[j] /= n
	}
	std := make([]float64, dim)
	for _, row := range data {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
	}
	s.mean, s.std = mean, std
	return nil
}

// Transform returns standardized copies of the rows using the fitted
// statistics.
func (s *Scaler) Transform(data [][]float64) ([][]float64, error) {
	if s.mean == nil {
		return nil, fmt.Errorf("scale: transform before fit")
	}
	out := make([][]float64, len(data))
	for i, row := range data {
		scaled, err := s.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("scale: row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

// TransformRow standardizes a single row.
func (s *Scaler) TransformRow(row []float64) ([]float64, error) {
	if s.mean == nil {
		return nil, fmt.Errorf("scale: transform before fit")
	}
	if len(row) != len(s.mean) {
		return nil, fmt.Errorf("scale: row has %d values, want %d", len(row), len(s.mean))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		if s.std[j] == 0 {
			out[j] = 0
			continue
		}
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out, nil
}

// FitTransform fits on data and returns its standardized copy.
func (s *Scaler) FitTransform(data [][]float64) ([][]float64, error) {
	if err := s.Fit(data); err != nil {
		return nil, err
	}
	return s.Transform(data)
}
