package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// Accuracy returns the fraction of predictions matching the true labels.
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("metrics: %d true labels vs %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("metrics: empty label sequences")
	}
	hits := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue)), nil
}

// Confusion is a square confusion matrix over the sorted union of labels
// seen in the true and predicted sequences. Counts[i][j] is the number of
// rows with true label Labels[i] predicted as Labels[j].
type Confusion struct {
	Labels []int
	Counts [][]int
}

// ConfusionMatrix tabulates predictions against true labels.
func ConfusionMatrix(yTrue, yPred []int) (*Confusion, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("metrics: %d true labels vs %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, fmt.Errorf("metrics: empty label sequences")
	}
	seen := map[int]bool{}
	for i := range yTrue {
		seen[yTrue[i]] = true
		seen[yPred[i]] = true
	}
	labels := make([]int, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	index := make(map[int]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		counts[index[yTrue[i]]][index[yPred[i]]]++
	}
	return &Confusion{Labels: labels, Counts: counts}, nil
}

// String renders the matrix with a label header row and column.
func (c *Confusion) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%8s", "true\\pred"))
	for _, l := range c.Labels {
		b.WriteString(fmt.Sprintf("%8d", l))
	}
	b.WriteByte('\n')
	for i, l := range c.Labels {
		b.WriteString(fmt.Sprintf("%8d", l))
		for _, n := range c.Counts[i] {
			b.WriteString(fmt.Sprintf("%8d", n))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Report renders per-class precision, recall, F1 and support, followed by
// overall accuracy and macro/weighted averages.
func Report(yTrue, yPred []int) (string, error) {
	c, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return "", err
	}
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return "", err
	}

	n := len(c.Labels)
	precision := make([]float64, n)
	recall := make([]float64, n)
	f1 := make([]float64, n)
	support := make([]int, n)
	colTotals := make([]int, n)
	for i := range c.Labels {
		for j := range c.Labels {
			support[i] += c.Counts[i][j]
			colTotals[j] += c.Counts[i][j]
		}
	}
	for i := range c.Labels {
		tp := float64(c.Counts[i][i])
		if colTotals[i] > 0 {
			precision[i] = tp / float64(colTotals[i])
		}
		if support[i] > 0 {
			recall[i] = tp / float64(support[i])
		}
		if precision[i]+recall[i] > 0 {
			f1[i] = 2 * precision[i] * recall[i] / (precision[i] + recall[i])
		}
	}

	total := len(yTrue)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%12s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support"))
	var macroP, macroR, macroF, weightP, weightR, weightF float64
	for i, l := range c.Labels {
		b.WriteString(fmt.Sprintf("%12d %10.2f %10.2f %10.2f %10d\n", l, precision[i], recall[i], f1[i], support[i]))
		macroP += precision[i]
		macroR += recall[i]
		macroF += f1[i]
		w := float64(support[i]) / float64(total)
		weightP += w * precision[i]
		weightR += w * recall[i]
		weightF += w * f1[i]
	}
	nf := float64(n)
	b.WriteString(fmt.Sprintf("\n%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", acc, total))
	b.WriteString(fmt.Sprintf("%12s %10.2f %10.2f %10.2f %10d\n", "macro avg", macroP/nf, macroR/nf, macroF/nf, total))
	b.WriteString(fmt.Sprintf("%12s %10.2f %10.2f %10.2f %10d\n", "weighted avg", weightP, weightR, weightF, total))
	return b.String(), nil
}
