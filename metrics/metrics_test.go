package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]int{1, 0, 1, 1}, []int{1, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.75, acc)

	_, err = Accuracy([]int{1}, []int{1, 0})
	assert.Error(t, err)
	_, err = Accuracy(nil, nil)
	assert.Error(t, err)
}

func TestConfusionMatrix(t *testing.T) {
	c, err := ConfusionMatrix(
		[]int{0, 0, 1, 1, 1, 0},
		[]int{0, 1, 1, 1, 0, 0},
	)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, c.Labels)
	assert.Equal(t, [][]int{{2, 1}, {1, 2}}, c.Counts)

	text := c.String()
	assert.Contains(t, text, "true\\pred")

	_, err = ConfusionMatrix([]int{0}, []int{0, 1})
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	report, err := Report(
		[]int{0, 0, 0, 1, 1, 1},
		[]int{0, 0, 1, 1, 1, 0},
	)
	require.NoError(t, err)

	assert.Contains(t, report, "precision")
	assert.Contains(t, report, "accuracy")
	assert.Contains(t, report, "macro avg")
	assert.Contains(t, report, "weighted avg")
	// Both classes: precision = recall = 2/3 -> 0.67 appears per class.
	assert.GreaterOrEqual(t, strings.Count(report, "0.67"), 2)
}

func TestROC_PerfectAndInverted(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}

	auc, err := AUC(yTrue, []float64{0, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, auc)

	auc, err = AUC(yTrue, []float64{1, 1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, auc)
}

func TestROC_HardLabelsDegenerate(t *testing.T) {
	// Hard 0/1 predictions as scores: one interior operating point between
	// (0,0) and (1,1), exactly how the harness consumes classifier output.
	yTrue := []int{0, 0, 1, 1, 1, 0}
	yPred := []float64{0, 1, 1, 1, 0, 0}

	curve, err := ROC(yTrue, yPred)
	require.NoError(t, err)
	require.Len(t, curve.FPR, 3)
	assert.Equal(t, 0.0, curve.FPR[0])
	assert.Equal(t, 0.0, curve.TPR[0])
	assert.InDelta(t, 1.0/3.0, curve.FPR[1], 1e-12)
	assert.InDelta(t, 2.0/3.0, curve.TPR[1], 1e-12)
	assert.Equal(t, 1.0, curve.FPR[2])
	assert.Equal(t, 1.0, curve.TPR[2])

	auc, err := AUC(yTrue, yPred)
	require.NoError(t, err)
	// Trapezoids through the single operating point: 1/9 + 5/9.
	assert.InDelta(t, 2.0/3.0, auc, 1e-12)
}

func TestROC_Errors(t *testing.T) {
	_, err := ROC([]int{1, 1}, []float64{1, 1})
	assert.Error(t, err, "single class has no ROC")

	_, err = ROC([]int{0, 2}, []float64{0, 1})
	assert.Error(t, err, "labels outside 0/1")

	_, err = ROC([]int{0, 1}, []float64{0})
	assert.Error(t, err)
}

func TestKFold_Split(t *testing.T) {
	k := KFold{N: 10, Shuffle: true, Seed: 42}
	splits, err := k.Split(95)
	require.NoError(t, err)
	require.Len(t, splits, 10)

	seen := map[int]int{}
	for _, s := range splits {
		assert.Len(t, s.Train, 95-len(s.Test))
		assert.True(t, len(s.Test) == 9 || len(s.Test) == 10)
		for _, idx := range s.Test {
			seen[idx]++
		}
	}
	// Every index is held out exactly once.
	require.Len(t, seen, 95)
	for idx, n := range seen {
		assert.Equalf(t, 1, n, "index %d held out %d times", idx, n)
	}
}

func TestKFold_Reproducible(t *testing.T) {
	a, err := KFold{N: 5, Shuffle: true, Seed: 7}.Split(23)
	require.NoError(t, err)
	b, err := KFold{N: 5, Shuffle: true, Seed: 7}.Split(23)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKFold_Errors(t *testing.T) {
	_, err := KFold{N: 1}.Split(10)
	assert.Error(t, err)
	_, err = KFold{N: 10}.Split(5)
	assert.Error(t, err)
}

func TestTrainTestSplit(t *testing.T) {
	train, test, err := TrainTestSplit(10, 0.3, 42)
	require.NoError(t, err)
	assert.Len(t, test, 3)
	assert.Len(t, train, 7)

	seen := map[int]bool{}
	for _, idx := range append(append([]int(nil), train...), test...) {
		assert.False(t, seen[idx], "index repeated")
		seen[idx] = true
	}
	assert.Len(t, seen, 10)

	train2, test2, err := TrainTestSplit(10, 0.3, 42)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	_, _, err = TrainTestSplit(1, 0.3, 42)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(10, 1.5, 42)
	assert.Error(t, err)
}
