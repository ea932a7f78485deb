package analysis

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/datalab/speedeval/chart"
	"github.com/datalab/speedeval/cluster"
	"github.com/datalab/speedeval/pca"
	"github.com/datalab/speedeval/report"
	"github.com/datalab/speedeval/scale"
)

// ClusteringSummary is the outcome of one segment's clustering analysis.
type ClusteringSummary struct {
	Segment    string
	Clusters   int
	Silhouette float64
	Table      []cluster.TuneResult
}

// EvaluateClustering standardizes a segment, tunes the cluster count by
// silhouette score, refits K-Means at the winning count, renders the
// silhouette and PCA scatter plots, and persists the result.
func (r *Runner) EvaluateClustering(ctx context.Context, seg Segment) (*ClusteringSummary, error) {
	var scaler scale.Scaler
	scaled, err := scaler.FitTransform(seg.Frame.Matrix())
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: scaling", seg.Name)
	}

	k, table, err := cluster.TuneClusterCount(scaled, r.cfg.ClusterMin, r.cfg.ClusterMax, r.cfg.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: tuning cluster count", seg.Name)
	}

	model := cluster.NewKMeans(k, r.cfg.Seed)
	if err := model.Fit(scaled); err != nil {
		return nil, errors.Wrapf(err, "segment %s: clustering", seg.Name)
	}
	score, err := cluster.Silhouette(scaled, model.Labels())
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: silhouette", seg.Name)
	}

	r.log.Info("clustering evaluated",
		zap.String("segment", seg.Name),
		zap.Int("rows", seg.Frame.Len()),
		zap.Int("clusters", k),
		zap.Float64("silhouette", score))

	if r.cfg.PlotDir != "" {
		if err := r.renderClusterPlots(seg, scaled, model, k, score); err != nil {
			return nil, err
		}
	}

	if r.store != nil {
		_, err := r.store.SaveClustering(ctx, report.ClusteringResult{
			Segment:    seg.Name,
			Clusters:   k,
			Silhouette: score,
			Centroids:  model.Centroids(),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "segment %s: persisting clustering", seg.Name)
		}
	}

	return &ClusteringSummary{Segment: seg.Name, Clusters: k, Silhouette: score, Table: table}, nil
}

func (r *Runner) renderClusterPlots(seg Segment, scaled [][]float64, model *cluster.KMeans, k int, score float64) error {
	samples, err := cluster.SilhouetteSamples(scaled, model.Labels())
	if err != nil {
		return errors.Wrapf(err, "segment %s: silhouette samples", seg.Name)
	}
	silPath := filepath.Join(r.cfg.PlotDir, seg.Name+"_silhouette.png")
	title := fmt.Sprintf("%s: silhouette analysis, %d clusters (avg %.3f)", seg.Name, k, score)
	if err := chart.SilhouettePlot(samples, model.Labels(), score, title, silPath); err != nil {
		return errors.Wrapf(err, "segment %s: silhouette plot", seg.Name)
	}

	projected, err := pca.Project(scaled, 2)
	if err != nil {
		return errors.Wrapf(err, "segment %s: PCA projection", seg.Name)
	}
	scatterPath := filepath.Join(r.cfg.PlotDir, seg.Name+"_clusters.png")
	scatterTitle := fmt.Sprintf("%s: clustered data, %d clusters", seg.Name, k)
	if err := chart.ClusterScatter(projected, model.Labels(), scatterTitle, scatterPath); err != nil {
		return errors.Wrapf(err, "segment %s: scatter plot", seg.Name)
	}
	return nil
}
