// Package report persists analysis results to SQLite so segment runs stay
// comparable across invocations: clustering outcomes with their tuned
// cluster count, silhouette score and centroids, and classifier evaluations
// with cross-validated accuracy, AUC and the rendered confusion/report
// text.
package report
