package cluster

import "fmt"

// TuneResult records the silhouette score achieved by one candidate
// cluster count.
type TuneResult struct {
	K     int
	Score float64
}

// TuneClusterCount fits K-Means for every candidate k in [lo, hi) and
// returns the k with the highest mean silhouette score together with the
// full score table. Candidates that cannot be formed from the data (k >=
// rows) are skipped; at least one candidate must be evaluable.
func TuneClusterCount(data [][]float64, lo, hi int, seed int64) (int, []TuneResult, error) {
	if lo < 2 {
		return 0, nil, fmt.Errorf("cluster: tuning starts at k=2, got %d", lo)
	}
	if hi <= lo {
		return 0, nil, fmt.Errorf("cluster: empty candidate range [%d,%d)", lo, hi)
	}

	var results []TuneResult
	bestK := 0
	bestScore := 0.0
	for k := lo; k < hi; k++ {
		if k >= len(data) {
			break
		}
		m := NewKMeans(k, seed)
		if err := m.Fit(data); err != nil {
			return 0, nil, err
		}
		score, err := Silhouette(data, m.Labels())
		if err != nil {
			return 0, nil, err
		}
		results = append(results, TuneResult{K: k, Score: score})
		if bestK == 0 || score > bestScore {
			bestK, bestScore = k, score
		}
	}
	if bestK == 0 {
		return 0, nil, fmt.Errorf("cluster: no evaluable cluster count in [%d,%d) for %d rows", lo, hi, len(data))
	}
	return bestK, results, nil
}
