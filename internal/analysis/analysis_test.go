package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalab/speedeval/dataset"
	"github.com/datalab/speedeval/report"
)

// synthetic builds a 40-row frame with two well-separated decision classes
// plus gender and age columns for segment slicing.
func synthetic(t *testing.T) *dataset.Frame {
	t.Helper()
	cols := []string{"gender", "age", "attr", "intel", "dec"}
	rows := make([][]float64, 0, 40)
	for i := 0; i < 40; i++ {
		gender := float64(i % 2)
		age := float64(20 + i%14)
		dec := float64(0)
		attr, intel := float64(i%5)*0.1, float64(i%7)*0.1
		if i%2 == 0 {
			dec = 1
			attr += 5
			intel += 5
		}
		rows = append(rows, []float64{gender, age, attr, intel, dec})
	}
	f, err := dataset.New(cols, rows)
	require.NoError(t, err)
	return f
}

func testConfig(plotDir string) Config {
	cfg := DefaultConfig()
	cfg.Neighbors = 3
	cfg.Folds = 5
	cfg.ClusterMax = 5
	cfg.PlotDir = plotDir
	return cfg
}

func TestSegments(t *testing.T) {
	r := NewRunner(testConfig(""), nil, nil)
	segments := r.Segments(synthetic(t), true)

	names := make([]string, len(segments))
	for i, s := range segments {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"all", "male", "female", "age_20_24", "age_25_29", "age_30_plus"}, names)
	assert.Equal(t, 40, segments[0].Frame.Len())
	assert.Equal(t, 20, segments[1].Frame.Len())
	assert.Equal(t, 20, segments[2].Frame.Len())

	only := r.Segments(synthetic(t), false)
	require.Len(t, only, 1)
	assert.Equal(t, "all", only[0].Name)
}

func TestSegments_MissingColumns(t *testing.T) {
	f, err := dataset.New([]string{"x", "dec"}, [][]float64{{1, 0}, {2, 1}})
	require.NoError(t, err)

	r := NewRunner(testConfig(""), nil, nil)
	segments := r.Segments(f, true)
	require.Len(t, segments, 1)
	assert.Equal(t, "all", segments[0].Name)
}

func TestEvaluateClustering(t *testing.T) {
	plotDir := t.TempDir()
	store, err := report.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	r := NewRunner(testConfig(plotDir), nil, store)
	summary, err := r.EvaluateClustering(context.Background(), Segment{Name: "all", Frame: synthetic(t)})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, summary.Clusters, 2)
	assert.Greater(t, summary.Silhouette, 0.0)
	assert.NotEmpty(t, summary.Table)

	for _, name := range []string{"all_silhouette.png", "all_clusters.png"} {
		info, err := os.Stat(filepath.Join(plotDir, name))
		require.NoErrorf(t, err, "missing plot %s", name)
		assert.Positive(t, info.Size())
	}

	saved, err := store.Clusterings(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, summary.Clusters, saved[0].Clusters)
	assert.NotEmpty(t, saved[0].Centroids)
}

func TestEvaluateKNN(t *testing.T) {
	plotDir := t.TempDir()
	store, err := report.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	r := NewRunner(testConfig(plotDir), nil, store)
	summary, err := r.EvaluateKNN(context.Background(), Segment{Name: "all", Frame: synthetic(t)})
	require.NoError(t, err)

	// The classes are linearly separated by a wide margin, so accuracy and
	// AUC should be high even with per-partition scaling.
	assert.Greater(t, summary.TestAccuracy, 0.6)
	assert.Greater(t, summary.CVAccuracy, 0.6)
	assert.Greater(t, summary.AUC, 0.6)
	assert.Contains(t, summary.Report, "precision")
	assert.NotEmpty(t, summary.Confusion)

	info, err := os.Stat(filepath.Join(plotDir, "all_roc.png"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	saved, err := store.Evaluations(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, 3, saved[0].K)
	assert.Equal(t, summary.CVAccuracy, saved[0].CVAccuracy)
}

func TestEvaluateKNN_Deterministic(t *testing.T) {
	r := NewRunner(testConfig(""), nil, nil)

	a, err := r.EvaluateKNN(context.Background(), Segment{Name: "all", Frame: synthetic(t)})
	require.NoError(t, err)
	b, err := r.EvaluateKNN(context.Background(), Segment{Name: "all", Frame: synthetic(t)})
	require.NoError(t, err)

	assert.Equal(t, a.TestAccuracy, b.TestAccuracy)
	assert.Equal(t, a.CVAccuracy, b.CVAccuracy)
	assert.Equal(t, a.AUC, b.AUC)
	assert.Equal(t, a.Confusion, b.Confusion)
}

func TestEvaluateKNN_MissingTarget(t *testing.T) {
	f, err := dataset.New([]string{"x", "y"}, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	r := NewRunner(testConfig(""), nil, nil)
	_, err = r.EvaluateKNN(context.Background(), Segment{Name: "all", Frame: f})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	r := NewRunner(testConfig(t.TempDir()), nil, nil)
	err := r.Run(context.Background(), synthetic(t), false)
	require.NoError(t, err)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(testConfig(""), nil, nil)
	err := r.Run(ctx, synthetic(t), false)
	assert.ErrorIs(t, err, context.Canceled)
}
