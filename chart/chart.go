// Package chart renders the analysis plots as PNG files: per-cluster
// silhouette profiles, the 2-D PCA scatter of clustered rows, and ROC
// curves.
package chart

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/datalab/speedeval/metrics"
)

// gap is the vertical spacing between cluster profiles in the silhouette
// plot, in sample rows.
const gap = 10

// SilhouettePlot writes a silhouette profile plot: one filled shape per
// cluster built from its ascending per-sample coefficients, with a dashed
// vertical line at the average score.
func SilhouettePlot(samples []float64, labels []int, avg float64, title, path string) error {
	if len(samples) == 0 || len(samples) != len(labels) {
		return fmt.Errorf("chart: %d samples vs %d labels", len(samples), len(labels))
	}

	byCluster := map[int][]float64{}
	for i, s := range samples {
		byCluster[labels[i]] = append(byCluster[labels[i]], s)
	}
	clusters := make([]int, 0, len(byCluster))
	for c := range byCluster {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "silhouette coefficient"
	p.Y.Label.Text = "cluster"
	p.X.Min = -0.2
	p.X.Max = 1

	yLower := float64(gap)
	for i, c := range clusters {
		values := byCluster[c]
		sort.Float64s(values)

		xys := make(plotter.XYs, 0, len(values)+2)
		xys = append(xys, plotter.XY{X: 0, Y: yLower})
		for j, v := range values {
			xys = append(xys, plotter.XY{X: v, Y: yLower + float64(j)})
		}
		xys = append(xys, plotter.XY{X: 0, Y: yLower + float64(len(values)-1)})

		shape, err := plotter.NewPolygon(xys)
		if err != nil {
			return fmt.Errorf("chart: cluster %d profile: %w", c, err)
		}
		shape.Color = plotutil.Color(i)
		p.Add(shape)
		p.Legend.Add(fmt.Sprintf("cluster %d", c), shape)

		yLower += float64(len(values) + gap)
	}

	avgLine, err := plotter.NewLine(plotter.XYs{
		{X: avg, Y: 0},
		{X: avg, Y: yLower},
	})
	if err != nil {
		return fmt.Errorf("chart: average line: %w", err)
	}
	avgLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(avgLine)

	return p.Save(9*vg.Inch, 7*vg.Inch, path)
}

// ClusterScatter writes the 2-D projected rows colored by cluster
// assignment. Points must carry at least two coordinates; extra columns are
// ignored.
func ClusterScatter(points [][]float64, labels []int, title, path string) error {
	if len(points) == 0 || len(points) != len(labels) {
		return fmt.Errorf("chart: %d points vs %d labels", len(points), len(labels))
	}

	byCluster := map[int]plotter.XYs{}
	for i, pt := range points {
		if len(pt) < 2 {
			return fmt.Errorf("chart: point %d has %d coordinates, want 2", i, len(pt))
		}
		byCluster[labels[i]] = append(byCluster[labels[i]], plotter.XY{X: pt[0], Y: pt[1]})
	}
	clusters := make([]int, 0, len(byCluster))
	for c := range byCluster {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "principal component 1"
	p.Y.Label.Text = "principal component 2"

	for i, c := range clusters {
		scatter, err := plotter.NewScatter(byCluster[c])
		if err != nil {
			return fmt.Errorf("chart: cluster %d scatter: %w", c, err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("cluster %d", c), scatter)
	}

	return p.Save(9*vg.Inch, 7*vg.Inch, path)
}

// ROCPlot writes the ROC polyline together with the chance diagonal.
func ROCPlot(curve *metrics.ROCCurve, title, path string) error {
	if curve == nil || len(curve.FPR) == 0 {
		return fmt.Errorf("chart: empty ROC curve")
	}

	xys := make(plotter.XYs, len(curve.FPR))
	for i := range curve.FPR {
		xys[i] = plotter.XY{X: curve.FPR[i], Y: curve.TPR[i]}
	}
	roc, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("chart: ROC line: %w", err)
	}
	roc.Color = plotutil.Color(1)

	diagonal, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return fmt.Errorf("chart: diagonal: %w", err)
	}
	diagonal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "false positive rate"
	p.Y.Label.Text = "true positive rate"
	p.Add(diagonal, roc)
	p.Legend.Add("chance", diagonal)
	p.Legend.Add("ROC", roc)

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
