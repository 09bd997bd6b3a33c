package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Use case input/output DTOs

type ClusterInput struct {
	Vectors     string
	Format      VectorFormat
	NumClusters int
	Scope       string
	SkipIndex   bool
}

type ClusterOutput struct {
	Words         int
	Dimension     int
	Clusters      int
	Elapsed       time.Duration
	CentroidsPath string
	IndexPath     string
}

type ListClustersInput struct {
	Limit int
	Scope string
}

type ListClustersOutput struct {
	Total  int
	Groups []ClusterGroup
}

type BagInput struct {
	Review string
	Scope  string
}

type BagOutput struct {
	Tokens []string
	Known  int
	Vector []float32
}

type TrainInput struct {
	Scope       string
	TrainPath   string
	TestPath    string
	OutputDir   string
	Classifiers []string
	Holdout     float64
}

type ClassifierResult struct {
	Name       string
	Output     string
	Evaluation *Evaluation
}

type TrainOutput struct {
	TrainRows int
	TestRows  int
	Clusters  int
	Results   []ClassifierResult
}

type SimilarInput struct {
	Word  string
	Limit int
	Scope string
}

type SimilarOutput struct {
	Results []SearchResult
}

// Use cases

type ClusterUseCase struct {
	resolver   *ScopeResolver
	clusterer  func(cfg *Config) Clusterer
	downloader *Downloader
	log        *slog.Logger
}

func NewClusterUseCase(
	resolver *ScopeResolver,
	clusterer func(cfg *Config) Clusterer,
	downloader *Downloader,
	log *slog.Logger,
) *ClusterUseCase {
	return &ClusterUseCase{
		resolver:   resolver,
		clusterer:  clusterer,
		downloader: downloader,
		log:        log,
	}
}

func (uc *ClusterUseCase) Execute(ctx context.Context, input ClusterInput) (*ClusterOutput, error) {
	scope := uc.resolver.Resolve(input.Scope)
	cfg, err := LoadConfig(scope)
	if err != nil {
		return nil, err
	}

	location := cfg.Vectors.Path
	if input.Vectors != "" {
		location = input.Vectors
	}
	format := cfg.Vectors.Format
	if input.Format != "" {
		format = input.Format
	}

	path, err := uc.localVectors(ctx, scope, location)
	if err != nil {
		return nil, err
	}

	uc.log.Info("Loading word vectors", "path", path)
	wv, err := LoadWordVectors(path, format)
	if err != nil {
		return nil, err
	}

	override := cfg.Clustering.NumClusters
	if input.NumClusters > 0 {
		override = input.NumClusters
	}
	k := ClusterCount(wv.Len(), cfg.Clustering.WordsPerCluster, override)

	uc.log.Info("Running K means", "words", wv.Len(), "dimension", wv.Dim, "clusters", k)
	start := time.Now()
	m, err := ClusterVocabulary(ctx, uc.clusterer(cfg), wv, k)
	if err != nil {
		return nil, fmt.Errorf("cluster vocabulary: %w", err)
	}
	elapsed := time.Since(start)
	uc.log.Info("Time taken for K Means clustering", "elapsed", elapsed)

	if err := SaveCentroidMap(scope.CentroidsPath(), m); err != nil {
		return nil, err
	}

	out := &ClusterOutput{
		Words:         wv.Len(),
		Dimension:     wv.Dim,
		Clusters:      k,
		Elapsed:       elapsed,
		CentroidsPath: scope.CentroidsPath(),
	}

	if input.SkipIndex {
		return out, nil
	}

	idx, err := NewWordIndex(scope.VectorPath(), wv.Dim)
	if err != nil {
		return nil, err
	}
	if err := wv.Index(ctx, idx, cfg.Index.Trees); err != nil {
		return nil, fmt.Errorf("build word index: %w", err)
	}
	if err := idx.Save(ctx); err != nil {
		return nil, err
	}
	out.IndexPath = scope.VectorPath()

	return out, nil
}

func (uc *ClusterUseCase) localVectors(ctx context.Context, scope Scope, location string) (string, error) {
	if !IsRemote(location) {
		return scope.Abs(location), nil
	}
	if uc.downloader == nil {
		return "", fmt.Errorf("cannot fetch %s: no downloader configured", location)
	}

	uc.log.Info("Downloading word vectors", "url", location)
	path, err := uc.downloader.EnsureVectors(ctx, location, func(written, total int64) {
		uc.log.Debug("download progress", "written", written, "total", total)
	})
	if err != nil {
		return "", fmt.Errorf("fetch vectors: %w", err)
	}
	return path, nil
}

type ListClustersUseCase struct {
	resolver *ScopeResolver
}

func NewListClustersUseCase(resolver *ScopeResolver) *ListClustersUseCase {
	return &ListClustersUseCase{resolver: resolver}
}

func (uc *ListClustersUseCase) Execute(ctx context.Context, input ListClustersInput) (*ListClustersOutput, error) {
	scope := uc.resolver.Resolve(input.Scope)
	m, err := LoadCentroidMap(scope.CentroidsPath())
	if err != nil {
		return nil, err
	}

	// zero means the configured preview size, negative means all
	limit := input.Limit
	if limit == 0 {
		cfg, err := LoadConfig(scope)
		if err != nil {
			return nil, err
		}
		limit = cfg.Clustering.Preview
	}

	groups := m.Groups()
	out := &ListClustersOutput{Total: len(groups), Groups: groups}
	if limit > 0 && limit < len(groups) {
		out.Groups = groups[:limit]
	}
	return out, nil
}

type BagUseCase struct {
	resolver *ScopeResolver
}

func NewBagUseCase(resolver *ScopeResolver) *BagUseCase {
	return &BagUseCase{resolver: resolver}
}

func (uc *BagUseCase) Execute(ctx context.Context, input BagInput) (*BagOutput, error) {
	scope := uc.resolver.Resolve(input.Scope)
	cfg, err := LoadConfig(scope)
	if err != nil {
		return nil, err
	}
	m, err := LoadCentroidMap(scope.CentroidsPath())
	if err != nil {
		return nil, err
	}

	tokens := ReviewToWordlist(input.Review, cfg.Cleaning)
	known := 0
	for _, tok := range tokens {
		if _, ok := m.Cluster(tok); ok {
			known++
		}
	}

	return &BagOutput{Tokens: tokens, Known: known, Vector: m.Bag(tokens)}, nil
}

type TrainUseCase struct {
	resolver *ScopeResolver
	log      *slog.Logger
}

func NewTrainUseCase(resolver *ScopeResolver, log *slog.Logger) *TrainUseCase {
	return &TrainUseCase{resolver: resolver, log: log}
}

func (uc *TrainUseCase) Execute(ctx context.Context, input TrainInput) (*TrainOutput, error) {
	scope := uc.resolver.Resolve(input.Scope)
	cfg, err := LoadConfig(scope)
	if err != nil {
		return nil, err
	}
	if input.Holdout > 0 {
		cfg.Holdout = input.Holdout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	selected, err := selectClassifiers(cfg.Classifiers, input.Classifiers)
	if err != nil {
		return nil, err
	}

	m, err := LoadCentroidMap(scope.CentroidsPath())
	if err != nil {
		return nil, err
	}

	trainPath := scope.Abs(firstNonEmpty(input.TrainPath, cfg.Data.Train))
	testPath := scope.Abs(firstNonEmpty(input.TestPath, cfg.Data.Test))
	outputDir := scope.Abs(firstNonEmpty(input.OutputDir, cfg.Data.OutputDir))

	train, test, err := LoadTrainTest(ctx, uc.log, trainPath, testPath, m, cfg.Cleaning)
	if err != nil {
		return nil, err
	}

	out := &TrainOutput{
		TrainRows: train.Set.Len(),
		TestRows:  test.Set.Len(),
		Clusters:  m.NumClusters(),
	}

	chatter := io.Writer(debugWriter{log: uc.log, src: "goml"})
	for _, clfCfg := range selected {
		result := ClassifierResult{Name: clfCfg.Name, Output: filepath.Join(outputDir, clfCfg.Output)}

		if cfg.Holdout > 0 {
			clf, err := NewClassifier(clfCfg, chatter)
			if err != nil {
				return nil, err
			}
			eval, err := Evaluate(ctx, clf, train.Rows, train.Set.Labels, cfg.Holdout, cfg.Seed)
			if err != nil {
				return nil, fmt.Errorf("evaluate %s: %w", clfCfg.Name, err)
			}
			if eval.AUC != nil {
				uc.log.Info("Hold-out evaluation", "classifier", clfCfg.Name, "accuracy", eval.Accuracy, "auc", *eval.AUC)
			} else {
				uc.log.Warn("Hold-out AUC undefined", "classifier", clfCfg.Name, "accuracy", eval.Accuracy, "error", eval.AUCErr)
			}
			result.Evaluation = eval
		}

		clf, err := NewClassifier(clfCfg, chatter)
		if err != nil {
			return nil, err
		}
		if err := TrainTestSave(ctx, uc.log, clf, train.Rows, train.Set.Labels, test.Rows, test.Set.IDs, result.Output); err != nil {
			return nil, err
		}

		out.Results = append(out.Results, result)
	}

	return out, nil
}

func selectClassifiers(all []ClassifierConfig, names []string) ([]ClassifierConfig, error) {
	if len(names) == 0 {
		return all, nil
	}

	var selected []ClassifierConfig
	for _, name := range names {
		found := false
		for _, c := range all {
			if strings.EqualFold(c.Name, name) {
				selected = append(selected, c)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w %q: not configured", ErrUnknownClassifier, name)
		}
	}
	return selected, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type SimilarUseCase struct {
	resolver *ScopeResolver
	indexFor func(context.Context, Scope) (*WordIndex, error)
}

func NewSimilarUseCase(
	resolver *ScopeResolver,
	indexFor func(context.Context, Scope) (*WordIndex, error),
) *SimilarUseCase {
	return &SimilarUseCase{
		resolver: resolver,
		indexFor: indexFor,
	}
}

// Execute looks the word up in the index built by the last cluster run, so
// the query vector comes from the same vectors that were clustered.
func (uc *SimilarUseCase) Execute(ctx context.Context, input SimilarInput) (*SimilarOutput, error) {
	scope := uc.resolver.Resolve(input.Scope)

	index, err := uc.indexFor(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("open word index: %w", err)
	}

	word := strings.ToLower(strings.TrimSpace(input.Word))
	vec, ok := index.Vector(word)
	if !ok {
		return nil, fmt.Errorf("word %q is not in the vocabulary", word)
	}

	results, err := index.Search(ctx, NewEmbedding(vec), input.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := &SimilarOutput{Results: make([]SearchResult, 0, len(results))}
	for _, r := range results {
		if r.Word == word {
			continue
		}
		if len(out.Results) == input.Limit {
			break
		}
		out.Results = append(out.Results, r)
	}
	return out, nil
}

// OpenScopeIndex opens the word index saved in scope.
func OpenScopeIndex(ctx context.Context, scope Scope) (*WordIndex, error) {
	return OpenWordIndex(ctx, scope.VectorPath())
}

func DefaultClusterer(cfg *Config) Clusterer {
	return NewKMeansClusterer(cfg.Clustering.DeltaThreshold)
}

type UseCases struct {
	Cluster      *ClusterUseCase
	ListClusters *ListClustersUseCase
	Bag          *BagUseCase
	Train        *TrainUseCase
	Similar      *SimilarUseCase
}

func NewUseCases(resolver *ScopeResolver, downloader *Downloader, log *slog.Logger) *UseCases {
	return &UseCases{
		Cluster:      NewClusterUseCase(resolver, DefaultClusterer, downloader, log),
		ListClusters: NewListClustersUseCase(resolver),
		Bag:          NewBagUseCase(resolver),
		Train:        NewTrainUseCase(resolver, log),
		Similar:      NewSimilarUseCase(resolver, OpenScopeIndex),
	}
}
