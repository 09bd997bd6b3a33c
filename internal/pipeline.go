package internal

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Features is a featurized review file.
type Features struct {
	Set  *ReviewSet
	Rows [][]float32
}

// LoadFeatures reads, cleans and featurizes one review file.
func LoadFeatures(ctx context.Context, path string, labeled bool, m *CentroidMap, opts CleanOptions) (*Features, error) {
	set, err := ReadReviews(path, labeled)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs := CleanReviews(set.Reviews, opts)
	return &Features{Set: set, Rows: m.Featurize(docs)}, nil
}

// LoadTrainTest featurizes the labeled and the test file concurrently.
func LoadTrainTest(ctx context.Context, log *slog.Logger, trainPath, testPath string, m *CentroidMap, opts CleanOptions) (train, test *Features, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Cleaning training reviews", "path", trainPath)
		f, err := LoadFeatures(gctx, trainPath, true, m, opts)
		if err != nil {
			return fmt.Errorf("training set: %w", err)
		}
		train = f
		return nil
	})
	g.Go(func() error {
		log.Info("Cleaning test reviews", "path", testPath)
		f, err := LoadFeatures(gctx, testPath, false, m, opts)
		if err != nil {
			return fmt.Errorf("test set: %w", err)
		}
		test = f
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// TrainTestSave fits clf on the training rows, predicts the test rows and
// writes the predictions to path.
func TrainTestSave(ctx context.Context, log *slog.Logger, clf Classifier, trainX [][]float32, trainY []int, testX [][]float32, testIDs []string, path string) error {
	if len(testX) != len(testIDs) {
		return fmt.Errorf("got %d test rows but %d ids", len(testX), len(testIDs))
	}

	log.Info("Fitting classifier to labeled training data", "classifier", clf.Name(), "rows", len(trainX))
	if err := clf.Fit(ctx, trainX, trainY); err != nil {
		return fmt.Errorf("fit %s: %w", clf.Name(), err)
	}

	labels, err := clf.Predict(ctx, testX)
	if err != nil {
		return fmt.Errorf("predict %s: %w", clf.Name(), err)
	}

	preds := make([]Prediction, len(labels))
	for i, label := range labels {
		preds[i] = Prediction{ID: testIDs[i], Sentiment: label}
	}

	if err := WritePredictions(path, preds); err != nil {
		return fmt.Errorf("write predictions: %w", err)
	}

	log.Info("Wrote "+path, "classifier", clf.Name())
	return nil
}

// Evaluation holds hold-out scores. AUC is nil when it is undefined for the
// hold-out rows, AUCErr then says why.
type Evaluation struct {
	Accuracy float64
	AUC      *float64
	AUCErr   error
}

// Evaluate fits clf on the non hold-out rows and scores it on the rest.
func Evaluate(ctx context.Context, clf Classifier, X [][]float32, y []int, frac float64, seed int64) (*Evaluation, error) {
	trainIdx, holdIdx, err := HoldoutSplit(len(X), frac, seed)
	if err != nil {
		return nil, err
	}

	if err := clf.Fit(ctx, selectRows(X, trainIdx), selectLabels(y, trainIdx)); err != nil {
		return nil, fmt.Errorf("fit %s: %w", clf.Name(), err)
	}

	pred, err := clf.Predict(ctx, selectRows(X, holdIdx))
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", clf.Name(), err)
	}

	truth := selectLabels(y, holdIdx)
	scores := make([]float64, len(pred))
	for i, p := range pred {
		scores[i] = float64(p)
	}

	eval := &Evaluation{Accuracy: Accuracy(truth, pred)}
	if auc, err := ROCAUC(truth, scores); err != nil {
		eval.AUCErr = err
	} else {
		eval.AUC = &auc
	}
	return eval, nil
}
