package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "BOC"

type VectorsConfig struct {
	Path   string       `yaml:"path" mapstructure:"path"`
	Format VectorFormat `yaml:"format" mapstructure:"format"`
}

type ClusteringConfig struct {
	WordsPerCluster int     `yaml:"words_per_cluster" mapstructure:"words_per_cluster"`
	NumClusters     int     `yaml:"num_clusters,omitempty" mapstructure:"num_clusters"`
	DeltaThreshold  float64 `yaml:"delta_threshold" mapstructure:"delta_threshold"`
	Preview         int     `yaml:"preview" mapstructure:"preview"`
}

type DataConfig struct {
	Train     string `yaml:"train" mapstructure:"train"`
	Test      string `yaml:"test" mapstructure:"test"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

type IndexConfig struct {
	Trees int `yaml:"trees" mapstructure:"trees"`
}

type Config struct {
	Vectors     VectorsConfig      `yaml:"vectors" mapstructure:"vectors"`
	Clustering  ClusteringConfig   `yaml:"clustering" mapstructure:"clustering"`
	Cleaning    CleanOptions       `yaml:"cleaning" mapstructure:"cleaning"`
	Data        DataConfig         `yaml:"data" mapstructure:"data"`
	Classifiers []ClassifierConfig `yaml:"classifiers" mapstructure:"classifiers"`
	Index       IndexConfig        `yaml:"index" mapstructure:"index"`
	Holdout     float64            `yaml:"holdout,omitempty" mapstructure:"holdout"`
	Seed        int64              `yaml:"seed" mapstructure:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Vectors: VectorsConfig{
			Path:   "300features_40minwords_10context.txt",
			Format: FormatAuto,
		},
		Clustering: ClusteringConfig{
			WordsPerCluster: DefaultWordsPerCluster,
			DeltaThreshold:  0.01,
			Preview:         10,
		},
		Cleaning: CleanOptions{RemoveStopwords: true},
		Data: DataConfig{
			Train:     "data/labeledTrainData.tsv",
			Test:      "data/testData.tsv",
			OutputDir: "data",
		},
		Classifiers: []ClassifierConfig{
			{Name: "sgd", Output: "BagOfCentroids_SGD.csv"},
			{Name: "logistic", Output: "BagOfCentroids_Logistic.csv"},
			{Name: "knn", Output: "BagOfCentroids_KNN.csv", K: 15},
		},
		Index: IndexConfig{Trees: 10},
		Seed:  1,
	}
}

// envKeys are the scalar settings that BOC_* variables may override, e.g.
// BOC_VECTORS_PATH or BOC_DATA_OUTPUT_DIR.
var envKeys = []string{
	"vectors.path",
	"vectors.format",
	"clustering.words_per_cluster",
	"clustering.num_clusters",
	"clustering.delta_threshold",
	"clustering.preview",
	"cleaning.remove_stopwords",
	"cleaning.stem",
	"data.train",
	"data.test",
	"data.output_dir",
	"index.trees",
	"holdout",
	"seed",
}

// LoadConfig reads the scope's config.yaml on top of the defaults and
// applies BOC_* environment overrides. A missing file yields the defaults.
func LoadConfig(scope Scope) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	path := scope.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if v.IsSet("classifiers") {
		cfg.Classifiers = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func SaveConfig(scope Scope, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(scope.BocPath, 0755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	if err := os.WriteFile(scope.ConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate rejects settings no pipeline step can run with.
func (c *Config) Validate() error {
	if c.Clustering.DeltaThreshold <= 0 || c.Clustering.DeltaThreshold >= 1 {
		return fmt.Errorf("clustering.delta_threshold must be in (0, 1), got %v", c.Clustering.DeltaThreshold)
	}
	if c.Holdout < 0 || c.Holdout >= 1 {
		return fmt.Errorf("holdout must be in [0, 1), got %v", c.Holdout)
	}
	seen := make(map[string]bool, len(c.Classifiers))
	for _, clf := range c.Classifiers {
		if clf.Output == "" {
			return fmt.Errorf("classifier %q has no output file", clf.Name)
		}
		if seen[clf.Output] {
			return fmt.Errorf("output %q used by more than one classifier", clf.Output)
		}
		seen[clf.Output] = true
	}
	return nil
}
