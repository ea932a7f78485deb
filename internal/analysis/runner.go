// Package analysis wires the pipeline together: it slices the dataset into
// segments, runs clustering with silhouette-tuned cluster counts, and
// evaluates the nearest-neighbor classifier with cross-validation, charts
// and persisted results.
package analysis

import (
	"math"

	"go.uber.org/zap"

	"github.com/datalab/speedeval/dataset"
	"github.com/datalab/speedeval/report"
)

// Config carries the analysis parameters. DefaultConfig matches the
// original study: decision target, 5 neighbors, 10 shuffled folds seeded
// with 42, a 30% test split, and cluster counts swept over [2, 30).
type Config struct {
	Target       string
	Neighbors    int
	Folds        int
	Seed         int64
	TestFraction float64
	ClusterMin   int
	ClusterMax   int
	GenderColumn string
	AgeColumn    string
	PlotDir      string
}

// DefaultConfig returns the parameters of the original study.
func DefaultConfig() Config {
	return Config{
		Target:       "dec",
		Neighbors:    5,
		Folds:        10,
		Seed:         42,
		TestFraction: 0.3,
		ClusterMin:   2,
		ClusterMax:   30,
		GenderColumn: "gender",
		AgeColumn:    "age",
	}
}

// Runner executes the analysis suite over dataset segments.
type Runner struct {
	cfg   Config
	log   *zap.Logger
	store *report.Store
}

// NewRunner builds a Runner. The logger may be nil; the store may be nil to
// skip persistence.
func NewRunner(cfg Config, log *zap.Logger, store *report.Store) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log, store: store}
}

// Segment is a named slice of the dataset.
type Segment struct {
	Name  string
	Frame *dataset.Frame
}

// Segments slices the frame the way the original study does: the whole
// dataset, both genders, and the age bands [20,25), [25,30) and 30+.
// Slices whose column is missing or that hold no rows are skipped with a
// warning; the full dataset is always first.
func (r *Runner) Segments(f *dataset.Frame, includeSlices bool) []Segment {
	segments := []Segment{{Name: "all", Frame: f}}
	if !includeSlices {
		return segments
	}

	if _, ok := f.ColumnIndex(r.cfg.GenderColumn); ok {
		male, _ := f.FilterEq(r.cfg.GenderColumn, 1)
		female, _ := f.FilterEq(r.cfg.GenderColumn, 0)
		segments = r.appendSegment(segments, "male", male)
		segments = r.appendSegment(segments, "female", female)
	} else {
		r.log.Warn("gender column missing, skipping gender segments",
			zap.String("column", r.cfg.GenderColumn))
	}

	if _, ok := f.ColumnIndex(r.cfg.AgeColumn); ok {
		young, _ := f.FilterRange(r.cfg.AgeColumn, 20, 25)
		mid, _ := f.FilterRange(r.cfg.AgeColumn, 25, 30)
		older, _ := f.FilterRange(r.cfg.AgeColumn, 30, math.Inf(1))
		segments = r.appendSegment(segments, "age_20_24", young)
		segments = r.appendSegment(segments, "age_25_29", mid)
		segments = r.appendSegment(segments, "age_30_plus", older)
	} else {
		r.log.Warn("age column missing, skipping age segments",
			zap.String("column", r.cfg.AgeColumn))
	}
	return segments
}

func (r *Runner) appendSegment(segments []Segment, name string, f *dataset.Frame) []Segment {
	if f == nil || f.Len() == 0 {
		r.log.Warn("segment is empty, skipping", zap.String("segment", name))
		return segments
	}
	return append(segments, Segment{Name: name, Frame: f})
}
