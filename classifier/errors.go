package classifier

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned by Predict when the classifier has not been
// trained yet.
var ErrNotFitted = errors.New("classifier: predict called before fit")

// ShapeError reports a dimensional mismatch: feature/label row counts that
// disagree at fit time, ragged training rows, or a query vector whose width
// differs from the training schema.
type ShapeError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("classifier: %s: want %d, got %d", e.What, e.Want, e.Got)
}

// KError reports an invalid neighbor count: k must be positive and must not
// exceed the number of stored training rows.
type KError struct {
	K    int
	Rows int
}

func (e *KError) Error() string {
	if e.K <= 0 {
		return fmt.Sprintf("classifier: k must be positive, got %d", e.K)
	}
	return fmt.Sprintf("classifier: k %d exceeds %d training rows", e.K, e.Rows)
}
