package cluster

import (
	"fmt"

	"github.com/viant/vec/search"
)

// SilhouetteSamples computes the silhouette coefficient of every row given
// its cluster assignment: (b-a)/max(a,b), where a is the mean distance to
// the row's own cluster and b the lowest mean distance to any other
// cluster. Rows in singleton clusters score 0. At least two distinct
// clusters are required.
func SilhouetteSamples(data [][]float64, labels []int) ([]float64, error) {
	points, _, err := toFloat32(data)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(points) {
		return nil, fmt.Errorf("cluster: %d labels for %d rows", len(labels), len(points))
	}

	sizes := map[int]int{}
	for _, l := range labels {
		sizes[l]++
	}
	if len(sizes) < 2 {
		return nil, fmt.Errorf("cluster: silhouette needs at least 2 clusters, got %d", len(sizes))
	}

	out := make([]float64, len(points))
	sums := make(map[int]float64, len(sizes))
	for i, p := range points {
		own := labels[i]
		if sizes[own] == 1 {
			out[i] = 0
			continue
		}
		for l := range sums {
			delete(sums, l)
		}
		for j, q := range points {
			if j == i {
				continue
			}
			sums[labels[j]] += float64(search.Float32s(p).EuclideanDistance(q))
		}

		a := sums[own] / float64(sizes[own]-1)
		b := 0.0
		firstOther := true
		for l, sum := range sums {
			if l == own {
				continue
			}
			mean := sum / float64(sizes[l])
			if firstOther || mean < b {
				b = mean
				firstOther = false
			}
		}

		max := a
		if b > max {
			max = b
		}
		if max == 0 {
			out[i] = 0
			continue
		}
		out[i] = (b - a) / max
	}
	return out, nil
}

// Silhouette returns the mean silhouette coefficient over all rows. Worst
// is -1, best is 1.
func Silhouette(data [][]float64, labels []int) (float64, error) {
	samples, err := SilhouetteSamples(data, labels)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples)), nil
}
