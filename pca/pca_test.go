package pca

import (
	"math"
	"testing"
)

func TestProject_Shape(t *testing.T) {
	data := [][]float64{
		{2.5, 2.4, 1.0},
		{0.5, 0.7, 2.0},
		{2.2, 2.9, 0.5},
		{1.9, 2.2, 1.1},
		{3.1, 3.0, 0.2},
	}
	out, err := Project(data, 2)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(out) != 5 || len(out[0]) != 2 {
		t.Fatalf("Project shape = %dx%d, want 5x2", len(out), len(out[0]))
	}
}

func TestProject_CapturesDominantAxis(t *testing.T) {
	// Points vary strongly along the first column and barely along the
	// second, so the first principal component must track column one's
	// ordering (up to sign).
	data := [][]float64{
		{0, 0.01}, {10, -0.02}, {20, 0.01}, {30, 0.0}, {40, -0.01},
	}
	out, err := Project(data, 1)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	sign := 1.0
	if out[1][0] < out[0][0] {
		sign = -1.0
	}
	for i := 1; i < len(out); i++ {
		if sign*out[i][0] <= sign*out[i-1][0] {
			t.Fatalf("PC1 not monotone along dominant axis: %v", out)
		}
	}
	// Projection of centered data keeps zero mean.
	var mean float64
	for _, row := range out {
		mean += row[0]
	}
	if math.Abs(mean/float64(len(out))) > 1e-9 {
		t.Fatalf("projected mean = %v, want 0", mean)
	}
}

func TestProject_Errors(t *testing.T) {
	if _, err := Project(nil, 2); err == nil {
		t.Fatalf("Project on empty data: err = nil, want error")
	}
	if _, err := Project([][]float64{{1}, {2}, {3}}, 2); err == nil {
		t.Fatalf("Project with too few columns: err = nil, want error")
	}
	if _, err := Project([][]float64{{1, 2}, {3, 4}}, 2); err == nil {
		t.Fatalf("Project with rows <= components: err = nil, want error")
	}
	if _, err := Project([][]float64{{1, 2}, {3, 4}, {5, 6}}, 0); err == nil {
		t.Fatalf("Project with components=0: err = nil, want error")
	}
}
