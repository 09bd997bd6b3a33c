package internal

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cdipaolo/goml/base"
	"github.com/cdipaolo/goml/cluster"
	"github.com/cdipaolo/goml/linear"
)

// Classifier is a binary (0/1) sentiment model over bag-of-centroids rows.
type Classifier interface {
	Name() string
	Fit(ctx context.Context, X [][]float32, y []int) error
	Predict(ctx context.Context, X [][]float32) ([]int, error)
}

type ClassifierConfig struct {
	Name           string  `yaml:"name" mapstructure:"name"`
	Output         string  `yaml:"output" mapstructure:"output"`
	Alpha          float64 `yaml:"alpha,omitempty" mapstructure:"alpha"`
	Regularization float64 `yaml:"regularization,omitempty" mapstructure:"regularization"`
	Iterations     int     `yaml:"iterations,omitempty" mapstructure:"iterations"`
	K              int     `yaml:"k,omitempty" mapstructure:"k"`
}

type ClassifierFactory func(cfg ClassifierConfig, out io.Writer) Classifier

var classifiers = map[string]ClassifierFactory{
	"sgd": func(cfg ClassifierConfig, out io.Writer) Classifier {
		return NewLogisticClassifier("sgd", base.StochasticGA, withDefaults(cfg, 1e-4, 1e-4, 10), out)
	},
	"logistic": func(cfg ClassifierConfig, out io.Writer) Classifier {
		return NewLogisticClassifier("logistic", base.BatchGA, withDefaults(cfg, 1e-4, 0, 500), out)
	},
	"knn": func(cfg ClassifierConfig, _ io.Writer) Classifier {
		k := cfg.K
		if k <= 0 {
			k = 5
		}
		return NewKNNClassifier(k)
	},
}

func withDefaults(cfg ClassifierConfig, alpha, reg float64, iters int) ClassifierConfig {
	if cfg.Alpha <= 0 {
		cfg.Alpha = alpha
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = reg
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = iters
	}
	return cfg
}

// NewClassifier builds the registered classifier named by cfg.Name. Training
// chatter from the underlying library goes to out; nil discards it.
func NewClassifier(cfg ClassifierConfig, out io.Writer) (Classifier, error) {
	factory, ok := classifiers[strings.ToLower(cfg.Name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownClassifier, cfg.Name, strings.Join(ClassifierNames(), ", "))
	}
	if out == nil {
		out = io.Discard
	}
	return factory(cfg, out), nil
}

func ClassifierNames() []string {
	names := make([]string, 0, len(classifiers))
	for name := range classifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LogisticClassifier is goml's logistic regression trained by batch or
// stochastic gradient ascent with L2 regularization.
type LogisticClassifier struct {
	name   string
	method base.OptimizationMethod
	cfg    ClassifierConfig
	out    io.Writer
	model  *linear.Logistic
	width  int
}

func NewLogisticClassifier(name string, method base.OptimizationMethod, cfg ClassifierConfig, out io.Writer) *LogisticClassifier {
	return &LogisticClassifier{name: name, method: method, cfg: cfg, out: out}
}

func (c *LogisticClassifier) Name() string {
	return c.name
}

func (c *LogisticClassifier) Fit(ctx context.Context, X [][]float32, y []int) error {
	width, err := checkTrainingSet(X, y)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	model := linear.NewLogistic(c.method, c.cfg.Alpha, c.cfg.Regularization, c.cfg.Iterations, toFloat64(X), labelsToFloat64(y))
	model.Output = c.out
	if err := model.Learn(); err != nil {
		return fmt.Errorf("%s: learn: %w", c.name, err)
	}

	c.model = model
	c.width = width
	return nil
}

func (c *LogisticClassifier) Predict(ctx context.Context, X [][]float32) ([]int, error) {
	if c.model == nil {
		return nil, ErrNotFitted
	}
	return predictRows(ctx, X, c.width, func(x []float64) (int, error) {
		p, err := c.model.Predict(x)
		if err != nil {
			return 0, err
		}
		if len(p) == 0 {
			return 0, fmt.Errorf("%s: empty prediction", c.name)
		}
		if p[0] >= 0.5 {
			return 1, nil
		}
		return 0, nil
	})
}

// KNNClassifier is goml's k-nearest-neighbour model with euclidean distance.
type KNNClassifier struct {
	k     int
	model *cluster.KNN
	width int
}

func NewKNNClassifier(k int) *KNNClassifier {
	return &KNNClassifier{k: k}
}

func (c *KNNClassifier) Name() string {
	return "knn"
}

func (c *KNNClassifier) Fit(ctx context.Context, X [][]float32, y []int) error {
	width, err := checkTrainingSet(X, y)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	k := c.k
	if k > len(X) {
		k = len(X)
	}
	c.model = cluster.NewKNN(k, toFloat64(X), labelsToFloat64(y), base.EuclideanDistance)
	c.width = width
	return nil
}

func (c *KNNClassifier) Predict(ctx context.Context, X [][]float32) ([]int, error) {
	if c.model == nil {
		return nil, ErrNotFitted
	}
	return predictRows(ctx, X, c.width, func(x []float64) (int, error) {
		p, err := c.model.Predict(x)
		if err != nil {
			return 0, err
		}
		if len(p) == 0 {
			return 0, fmt.Errorf("knn: empty prediction")
		}
		if p[0] >= 0.5 {
			return 1, nil
		}
		return 0, nil
	})
}

func checkTrainingSet(X [][]float32, y []int) (int, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("empty training set")
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("got %d rows but %d labels", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return 0, fmt.Errorf("row %d: expected %d features, got %d", i, width, len(row))
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return 0, fmt.Errorf("row %d: label %d is not 0 or 1", i, label)
		}
	}
	return width, nil
}

func predictRows(ctx context.Context, X [][]float32, width int, predict func([]float64) (int, error)) ([]int, error) {
	out := make([]int, len(X))
	for i, row := range X {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row) != width {
			return nil, fmt.Errorf("row %d: expected %d features, got %d", i, width, len(row))
		}
		label, err := predict(toFloat64Row(row))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}

func toFloat64(X [][]float32) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = toFloat64Row(row)
	}
	return out
}

func toFloat64Row(row []float32) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = float64(v)
	}
	return out
}

func labelsToFloat64(y []int) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = float64(v)
	}
	return out
}
