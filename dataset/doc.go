// Package dataset provides a minimal column-named numeric frame for the
// analysis pipeline: CSV loading with boolean-to-integer coercion, column
// selection, row filtering, and target extraction. All values are float64;
// anything richer belongs upstream in data preparation.
package dataset
