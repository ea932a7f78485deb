// Package cluster implements K-Means clustering with k-means++ seeding and
// silhouette-based evaluation of cluster counts. Distances in the
// assignment and silhouette hot paths run over float32 mirrors of the data
// using SIMD-accelerated routines; the quality metrics involved tolerate
// the reduced precision.
package cluster
