package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Clusterings(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.SaveClustering(ctx, ClusteringResult{
		Segment:    "all",
		Clusters:   3,
		Silhouette: 0.42,
		Centroids:  [][]float32{{1, 2}, {3, 4}, {5, 6}},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = store.SaveClustering(ctx, ClusteringResult{Segment: "male", Clusters: 2, Silhouette: 0.3})
	require.NoError(t, err)

	got, err := store.Clusterings(ctx, "all")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Clusters)
	assert.Equal(t, 0.42, got[0].Silhouette)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}, {5, 6}}, got[0].Centroids)
	assert.False(t, got[0].CreatedAt.IsZero())

	all, err := store.Clusterings(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = store.SaveClustering(ctx, ClusteringResult{})
	assert.Error(t, err, "segment is required")
}

func TestStore_Evaluations(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.SaveEvaluation(ctx, EvaluationResult{
		Segment:    "female",
		K:          5,
		Folds:      10,
		CVAccuracy: 0.81,
		AUC:        0.74,
		Confusion:  "matrix",
		Report:     "report",
	})
	require.NoError(t, err)

	got, err := store.Evaluations(ctx, "female")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].K)
	assert.Equal(t, 10, got[0].Folds)
	assert.Equal(t, 0.81, got[0].CVAccuracy)
	assert.Equal(t, 0.74, got[0].AUC)
	assert.Equal(t, "matrix", got[0].Confusion)

	none, err := store.Evaluations(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCentroidEncoding(t *testing.T) {
	in := [][]float32{{1.5, -2.25, 0}, {3, 4, 5}}
	blob, err := EncodeCentroids(in)
	require.NoError(t, err)

	out, err := DecodeCentroids(blob)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	empty, err := EncodeCentroids(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = EncodeCentroids([][]float32{{1, 2}, {3}})
	assert.Error(t, err, "ragged centroids")

	_, err = DecodeCentroids([]byte{1, 2, 3})
	assert.Error(t, err, "truncated header")

	_, err = DecodeCentroids(blob[:len(blob)-2])
	assert.Error(t, err, "truncated payload")
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
