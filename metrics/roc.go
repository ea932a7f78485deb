package metrics

import (
	"fmt"
	"math"
	"sort"
)

// ROCCurve holds false-positive and true-positive rates at descending score
// thresholds, starting from the (0,0) operating point.
type ROCCurve struct {
	FPR        []float64
	TPR        []float64
	Thresholds []float64
}

// ROC computes the ROC curve of binary labels (positive class 1) against
// scores. The harness feeds hard 0/1 predictions in as scores, which
// degenerates the curve to a single interior operating point; that matches
// the original evaluation and is intentional. Both classes must be present.
func ROC(yTrue []int, scores []float64) (*ROCCurve, error) {
	if len(yTrue) != len(scores) {
		return nil, fmt.Errorf("metrics: %d labels vs %d scores", len(yTrue), len(scores))
	}
	if len(yTrue) == 0 {
		return nil, fmt.Errorf("metrics: empty label sequences")
	}
	var pos, neg int
	for _, l := range yTrue {
		switch l {
		case 1:
			pos++
		case 0:
			neg++
		default:
			return nil, fmt.Errorf("metrics: ROC requires 0/1 labels, got %d", l)
		}
	}
	if pos == 0 || neg == 0 {
		return nil, fmt.Errorf("metrics: ROC undefined with %d positives and %d negatives", pos, neg)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	curve := &ROCCurve{
		FPR:        []float64{0},
		TPR:        []float64{0},
		Thresholds: []float64{math.Inf(1)},
	}
	tp, fp := 0, 0
	for i := 0; i < len(order); {
		threshold := scores[order[i]]
		// Consume every sample at this score before emitting a point.
		for i < len(order) && scores[order[i]] == threshold {
			if yTrue[order[i]] == 1 {
				tp++
			} else {
				fp++
			}
			i++
		}
		curve.FPR = append(curve.FPR, float64(fp)/float64(neg))
		curve.TPR = append(curve.TPR, float64(tp)/float64(pos))
		curve.Thresholds = append(curve.Thresholds, threshold)
	}
	return curve, nil
}

// AUC returns the trapezoidal area under the ROC curve of yTrue vs scores.
// Best is 1.0; 0.5 is chance level.
func AUC(yTrue []int, scores []float64) (float64, error) {
	curve, err := ROC(yTrue, scores)
	if err != nil {
		return 0, err
	}
	var area float64
	for i := 1; i < len(curve.FPR); i++ {
		area += (curve.FPR[i] - curve.FPR[i-1]) * (curve.TPR[i] + curve.TPR[i-1]) / 2
	}
	return area, nil
}
