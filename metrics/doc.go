// Package metrics scores classifier output: accuracy, confusion matrix,
// per-class text report, ROC curve and AUC for the binary decision target,
// plus the seeded k-fold and train/test index splitters the evaluation
// harness drives predictions with.
package metrics
