package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/viant/vec/search"
)

// Defaults matching common K-Means practice.
const (
	DefaultMaxIter  = 300
	DefaultRestarts = 10
	DefaultTol      = 1e-4
)

// KMeans partitions rows into K clusters with Lloyd's algorithm. Seeding is
// k-means++ from an owned, seeded source, and Fit keeps the best of
// Restarts runs by inertia, so results are reproducible for a fixed Seed.
type KMeans struct {
	K        int
	MaxIter  int
	Restarts int
	Tol      float64
	Seed     int64

	centroids [][]float32
	labels    []int
	inertia   float64
	dim       int
}

// NewKMeans returns a KMeans with default iteration limits for the given
// cluster count and seed.
func NewKMeans(k int, seed int64) *KMeans {
	return &KMeans{K: k, MaxIter: DefaultMaxIter, Restarts: DefaultRestarts, Tol: DefaultTol, Seed: seed}
}

// Labels returns the cluster assignment of each training row.
func (m *KMeans) Labels() []int { return m.labels }

// Inertia returns the sum of squared distances from each training row to
// its centroid for the best run.
func (m *KMeans) Inertia() float64 { return m.inertia }

// Centroids returns the fitted cluster centers.
func (m *KMeans) Centroids() [][]float32 { return m.centroids }

// Fit clusters the rows. It requires at least K rows of equal width.
func (m *KMeans) Fit(data [][]float64) error {
	points, dim, err := toFloat32(data)
	if err != nil {
		return err
	}
	if m.K < 1 {
		return fmt.Errorf("cluster: k must be at least 1, got %d", m.K)
	}
	if len(points) < m.K {
		return fmt.Errorf("cluster: %d rows cannot form %d clusters", len(points), m.K)
	}
	maxIter, restarts, tol := m.MaxIter, m.Restarts, m.Tol
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if restarts <= 0 {
		restarts = DefaultRestarts
	}
	if tol <= 0 {
		tol = DefaultTol
	}

	rng := rand.New(rand.NewSource(m.Seed))
	best := math.Inf(1)
	for r := 0; r < restarts; r++ {
		centroids := seedPlusPlus(points, m.K, rng)
		labels, inertia := lloyd(points, centroids, maxIter, tol)
		if inertia < best {
			best = inertia
			m.centroids = centroids
			m.labels = labels
		}
	}
	m.inertia = best
	m.dim = dim
	return nil
}

// Predict assigns each row to its nearest fitted centroid.
func (m *KMeans) Predict(data [][]float64) ([]int, error) {
	if m.centroids == nil {
		return nil, fmt.Errorf("cluster: predict before fit")
	}
	points, dim, err := toFloat32(data)
	if err != nil {
		return nil, err
	}
	if dim != m.dim {
		return nil, fmt.Errorf("cluster: rows have %d columns, fitted on %d", dim, m.dim)
	}
	labels := make([]int, len(points))
	for i, p := range points {
		labels[i], _ = nearest(p, m.centroids)
	}
	return labels, nil
}

// lloyd runs assignment/update iterations until centroids move less than
// tol or maxIter is reached. It mutates centroids in place and returns the
// final assignment with its inertia.
func lloyd(points [][]float32, centroids [][]float32, maxIter int, tol float64) ([]int, float64) {
	k := len(centroids)
	dim := len(centroids[0])
	labels := make([]int, len(points))
	var inertia float64

	for iter := 0; iter < maxIter; iter++ {
		inertia = 0
		for i, p := range points {
			j, d := nearest(p, centroids)
			labels[i] = j
			inertia += float64(d) * float64(d)
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i, p := range points {
			j := labels[i]
			counts[j]++
			for d, v := range p {
				sums[j][d] += float64(v)
			}
		}

		var shift float64
		for j := range centroids {
			if counts[j] == 0 {
				continue // empty cluster keeps its centroid
			}
			updated := make([]float32, dim)
			for d := range updated {
				updated[d] = float32(sums[j][d] / float64(counts[j]))
			}
			moved := float64(search.Float32s(centroids[j]).EuclideanDistance(updated))
			if moved > shift {
				shift = moved
			}
			centroids[j] = updated
		}
		if shift < tol {
			break
		}
	}
	return labels, inertia
}

// seedPlusPlus picks k initial centroids with k-means++: the first uniformly
// at random, each following one with probability proportional to the squared
// distance to the nearest centroid chosen so far.
func seedPlusPlus(points [][]float32, k int, rng *rand.Rand) [][]float32 {
	centroids := make([][]float32, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, append([]float32(nil), first...))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			_, d := nearest(p, centroids)
			dists[i] = float64(d) * float64(d)
			total += dists[i]
		}
		next := 0
		if total > 0 {
			target := rng.Float64() * total
			for i, w := range dists {
				target -= w
				if target <= 0 {
					next = i
					break
				}
			}
		} else {
			next = rng.Intn(len(points))
		}
		centroids = append(centroids, append([]float32(nil), points[next]...))
	}
	return centroids
}

// nearest returns the index of the closest centroid and the distance to it.
func nearest(p []float32, centroids [][]float32) (int, float32) {
	bestIdx := 0
	bestDist := search.Float32s(p).EuclideanDistance(centroids[0])
	for j := 1; j < len(centroids); j++ {
		if d := search.Float32s(p).EuclideanDistance(centroids[j]); d < bestDist {
			bestIdx, bestDist = j, d
		}
	}
	return bestIdx, bestDist
}

// toFloat32 mirrors float64 rows into float32 points for the SIMD distance
// routines, validating rectangular shape.
func toFloat32(data [][]float64) ([][]float32, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("cluster: empty data")
	}
	dim := len(data[0])
	if dim == 0 {
		return nil, 0, fmt.Errorf("cluster: rows have no columns")
	}
	points := make([][]float32, len(data))
	for i, row := range data {
		if len(row) != dim {
			return nil, 0, fmt.Errorf("cluster: row %d has %d columns, want %d", i, len(row), dim)
		}
		p := make([]float32, dim)
		for j, v := range row {
			p[j] = float32(v)
		}
		points[i] = p
	}
	return points, dim, nil
}
