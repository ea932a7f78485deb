package analysis

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/datalab/speedeval/chart"
	"github.com/datalab/speedeval/classifier"
	"github.com/datalab/speedeval/dataset"
	"github.com/datalab/speedeval/metrics"
	"github.com/datalab/speedeval/report"
	"github.com/datalab/speedeval/scale"
)

// EvaluationSummary is the outcome of one segment's classifier evaluation.
type EvaluationSummary struct {
	Segment      string
	K            int
	Folds        int
	TestAccuracy float64
	CVAccuracy   float64
	AUC          float64
	Confusion    string
	Report       string
}

// EvaluateKNN evaluates the nearest-neighbor classifier on a segment: a
// seeded 70/30 split scores a held-out test partition (confusion matrix,
// classification report, ROC/AUC on the hard predictions), and k-fold
// cross-validation over the whole segment yields the mean accuracy. Each
// partition is standardized independently, as in the original study.
func (r *Runner) EvaluateKNN(ctx context.Context, seg Segment) (*EvaluationSummary, error) {
	features, labels, err := seg.Frame.Split(r.cfg.Target)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: extracting target", seg.Name)
	}

	trainIdx, testIdx, err := metrics.TrainTestSplit(features.Len(), r.cfg.TestFraction, r.cfg.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: train/test split", seg.Name)
	}
	yTrue, yPred, err := r.fitPredict(features.Matrix(), labels, trainIdx, testIdx)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: held-out evaluation", seg.Name)
	}

	testAcc, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: accuracy", seg.Name)
	}
	confusion, err := metrics.ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: confusion matrix", seg.Name)
	}
	reportText, err := metrics.Report(yTrue, yPred)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: classification report", seg.Name)
	}

	// The classifier emits hard labels; feeding them in as scores collapses
	// the ROC curve to one operating point, matching the original analysis.
	scores := make([]float64, len(yPred))
	for i, p := range yPred {
		scores[i] = float64(p)
	}
	auc, err := metrics.AUC(yTrue, scores)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: AUC", seg.Name)
	}
	if r.cfg.PlotDir != "" {
		curve, err := metrics.ROC(yTrue, scores)
		if err != nil {
			return nil, errors.Wrapf(err, "segment %s: ROC", seg.Name)
		}
		path := filepath.Join(r.cfg.PlotDir, seg.Name+"_roc.png")
		title := fmt.Sprintf("%s: ROC curve (k=%d)", seg.Name, r.cfg.Neighbors)
		if err := chart.ROCPlot(curve, title, path); err != nil {
			return nil, errors.Wrapf(err, "segment %s: ROC plot", seg.Name)
		}
	}

	cvAcc, err := r.crossValidate(features, labels)
	if err != nil {
		return nil, errors.Wrapf(err, "segment %s: cross-validation", seg.Name)
	}

	r.log.Info("classifier evaluated",
		zap.String("segment", seg.Name),
		zap.Int("rows", seg.Frame.Len()),
		zap.Int("k", r.cfg.Neighbors),
		zap.Float64("test_accuracy", testAcc),
		zap.Float64("cv_accuracy", cvAcc),
		zap.Float64("auc", auc))

	if r.store != nil {
		_, err := r.store.SaveEvaluation(ctx, report.EvaluationResult{
			Segment:    seg.Name,
			K:          r.cfg.Neighbors,
			Folds:      r.cfg.Folds,
			CVAccuracy: cvAcc,
			AUC:        auc,
			Confusion:  confusion.String(),
			Report:     reportText,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "segment %s: persisting evaluation", seg.Name)
		}
	}

	return &EvaluationSummary{
		Segment:      seg.Name,
		K:            r.cfg.Neighbors,
		Folds:        r.cfg.Folds,
		TestAccuracy: testAcc,
		CVAccuracy:   cvAcc,
		AUC:          auc,
		Confusion:    confusion.String(),
		Report:       reportText,
	}, nil
}

// crossValidate returns the mean accuracy over the configured shuffled
// k-fold splits, fitting a fresh classifier per fold.
func (r *Runner) crossValidate(features *dataset.Frame, labels []int) (float64, error) {
	splits, err := metrics.KFold{N: r.cfg.Folds, Shuffle: true, Seed: r.cfg.Seed}.Split(features.Len())
	if err != nil {
		return 0, err
	}
	matrix := features.Matrix()

	var total float64
	for i, split := range splits {
		yTrue, yPred, err := r.fitPredict(matrix, labels, split.Train, split.Test)
		if err != nil {
			return 0, errors.Wrapf(err, "fold %d", i)
		}
		acc, err := metrics.Accuracy(yTrue, yPred)
		if err != nil {
			return 0, errors.Wrapf(err, "fold %d", i)
		}
		total += acc
	}
	return total / float64(len(splits)), nil
}

// fitPredict trains a classifier on the train indices and predicts every
// test row, standardizing each partition with its own scaler.
func (r *Runner) fitPredict(matrix [][]float64, labels []int, trainIdx, testIdx []int) (yTrue, yPred []int, err error) {
	train := gather(matrix, trainIdx)
	test := gather(matrix, testIdx)

	var trainScaler, testScaler scale.Scaler
	trainScaled, err := trainScaler.FitTransform(train)
	if err != nil {
		return nil, nil, err
	}
	testScaled, err := testScaler.FitTransform(test)
	if err != nil {
		return nil, nil, err
	}

	yTrain := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		yTrain[i] = labels[idx]
	}
	yTrue = make([]int, len(testIdx))
	for i, idx := range testIdx {
		yTrue[i] = labels[idx]
	}

	knn := classifier.New()
	if err := knn.Fit(trainScaled, yTrain); err != nil {
		return nil, nil, err
	}
	yPred, err = knn.PredictBatch(testScaled, r.cfg.Neighbors)
	if err != nil {
		return nil, nil, err
	}
	return yTrue, yPred, nil
}

func gather(matrix [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = matrix[idx]
	}
	return out
}

// Run executes clustering and classifier evaluation over every segment.
func (r *Runner) Run(ctx context.Context, f *dataset.Frame, includeSlices bool) error {
	for _, seg := range r.Segments(f, includeSlices) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.EvaluateClustering(ctx, seg); err != nil {
			return err
		}
		if _, err := r.EvaluateKNN(ctx, seg); err != nil {
			return err
		}
	}
	return nil
}
