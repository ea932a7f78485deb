// Package classifier implements a k-nearest-neighbor classifier over
// pre-scaled tabular features. It is the one hand-written model in this
// project; callers own scaling, train/test partitioning, and metric
// aggregation. The search is a brute-force linear scan with stable
// distance ranking, so predictions are fully deterministic.
package classifier
