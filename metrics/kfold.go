package metrics

import (
	"fmt"
	"math/rand"
)

// KFold generates cross-validation index partitions. With Shuffle set, the
// sample order is permuted by a source seeded with Seed before folding, so
// splits are reproducible.
type KFold struct {
	N       int
	Shuffle bool
	Seed    int64
}

// Split describes one fold: the training indices and the held-out test
// indices.
type Split struct {
	Train []int
	Test  []int
}

// Split partitions n sample indices into k.N folds whose sizes differ by at
// most one. Each fold serves as the test partition exactly once.
func (k KFold) Split(n int) ([]Split, error) {
	if k.N < 2 {
		return nil, fmt.Errorf("metrics: k-fold needs at least 2 folds, got %d", k.N)
	}
	if n < k.N {
		return nil, fmt.Errorf("metrics: cannot fold %d samples into %d folds", n, k.N)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if k.Shuffle {
		rng := rand.New(rand.NewSource(k.Seed))
		rng.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
	}

	splits := make([]Split, 0, k.N)
	base := n / k.N
	extra := n % k.N
	start := 0
	for fold := 0; fold < k.N; fold++ {
		size := base
		if fold < extra {
			size++
		}
		test := append([]int(nil), indices[start:start+size]...)
		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[start+size:]...)
		splits = append(splits, Split{Train: train, Test: test})
		start += size
	}
	return splits, nil
}

// TrainTestSplit shuffles n sample indices with a seeded source and splits
// them into train and test partitions, with the test partition holding
// round(n*testFraction) samples.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("metrics: cannot split %d samples", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("metrics: test fraction %v outside (0,1)", testFraction)
	}
	size := int(float64(n)*testFraction + 0.5)
	if size == 0 {
		size = 1
	}
	if size == n {
		size = n - 1
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
	return indices[size:], indices[:size], nil
}
