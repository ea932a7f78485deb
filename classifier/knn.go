package classifier

import (
	"math"
	"sort"
)

// KNN is a nearest-neighbor classifier. The zero value is usable; Fit
// trains it in place and the stored state is immutable afterwards. A fitted
// instance may serve any number of Predict calls; concurrent reads of a
// single fitted instance are safe because Predict never mutates state, but
// Fit must not race with reads.
type KNN struct {
	features [][]float64
	labels   []int
	dim      int
}

// New returns an unfitted classifier.
func New() *KNN { return &KNN{} }

// Fit stores copies of the training features and their labels. Features and
// labels are index-aligned row for row; both must be non-empty and all rows
// must share the same width. Inputs are expected to be scaled already - Fit
// performs no normalization.
func (c *KNN) Fit(features [][]float64, labels []int) error {
	if len(features) != len(labels) {
		return &ShapeError{What: "label count mismatch", Want: len(features), Got: len(labels)}
	}
	if len(features) == 0 {
		return &ShapeError{What: "empty training set", Want: 1, Got: 0}
	}
	dim := len(features[0])
	rows := make([][]float64, len(features))
	for i, row := range features {
		if len(row) != dim {
			return &ShapeError{What: "ragged training row", Want: dim, Got: len(row)}
		}
		rows[i] = append([]float64(nil), row...)
	}
	c.features = rows
	c.labels = append([]int(nil), labels...)
	c.dim = dim
	return nil
}

// Fitted reports whether Fit has completed successfully.
func (c *KNN) Fitted() bool { return len(c.features) > 0 }

// Len returns the number of stored training rows.
func (c *KNN) Len() int { return len(c.features) }

// neighbor pairs a training-row index with its distance to the query. It is
// transient to a single Predict call.
type neighbor struct {
	index    int
	distance float64
}

// Predict classifies a single query vector against the k nearest training
// rows by Euclidean distance. Ranking is stable: rows at equal distance keep
// their training order. The majority label among the k neighbors wins; when
// two or more labels tie on count, the label of the nearest tied neighbor is
// returned, so the result is deterministic.
func (c *KNN) Predict(query []float64, k int) (int, error) {
	if !c.Fitted() {
		return 0, ErrNotFitted
	}
	if len(query) != c.dim {
		return 0, &ShapeError{What: "query width mismatch", Want: c.dim, Got: len(query)}
	}
	if k <= 0 || k > len(c.features) {
		return 0, &KError{K: k, Rows: len(c.features)}
	}

	candidates := make([]neighbor, len(c.features))
	for i, row := range c.features {
		candidates[i] = neighbor{index: i, distance: euclidean(query, row)}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].distance < candidates[b].distance
	})

	nearest := candidates[:k]
	counts := make(map[int]int, k)
	for _, n := range nearest {
		counts[c.labels[n.index]]++
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	// Neighbors are already in ascending distance order, so the first label
	// holding the top count is the nearest member of any tied group.
	for _, n := range nearest {
		if label := c.labels[n.index]; counts[label] == max {
			return label, nil
		}
	}
	return 0, ErrNotFitted // unreachable
}

// PredictBatch classifies each query in turn with a fixed k. It is a
// convenience over Predict and carries no independent semantics; the first
// failing query aborts the batch.
func (c *KNN) PredictBatch(queries [][]float64, k int) ([]int, error) {
	out := make([]int, len(queries))
	for i, q := range queries {
		label, err := c.Predict(q, k)
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}

// euclidean returns the Euclidean distance between two equal-length vectors.
// Every column participates with equal weight.
func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
