package v1

import (
	"context"
	"fmt"
	"sync"

	"github.com/4thel00z/centroids/internal"
)

// ErrNoCentroids is returned when no centroid map was given and the workspace
// has not been clustered yet.
var ErrNoCentroids = internal.ErrNoCentroids

// Client turns reviews into bag-of-centroids vectors.
type Client struct {
	uc       *internal.UseCases
	resolver *internal.ScopeResolver
	scope    string
	cleaning internal.CleanOptions

	mu sync.Mutex
	m  *internal.CentroidMap
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	log := cfg.logger
	if log == nil {
		log = internal.NopLogger()
	}

	cacheDir := cfg.cacheDir
	if cacheDir == "" {
		cacheDir, _ = internal.DefaultCacheDir()
	}
	var downloader *internal.Downloader
	if cacheDir != "" {
		downloader = internal.NewDownloader(cacheDir, "")
	}

	resolver := internal.NewScopeResolver()
	c := &Client{
		uc:       internal.NewUseCases(resolver, downloader, log),
		resolver: resolver,
		scope:    cfg.scope,
	}

	if cfg.cleaning != nil {
		c.cleaning = internal.CleanOptions{
			RemoveStopwords: cfg.cleaning.RemoveStopwords,
			Stem:            cfg.cleaning.Stem,
		}
	} else {
		wsCfg, err := internal.LoadConfig(resolver.Resolve(cfg.scope))
		if err != nil {
			return nil, err
		}
		c.cleaning = wsCfg.Cleaning
	}

	if cfg.centroids != nil {
		m, err := internal.NewCentroidMap(cfg.centroids)
		if err != nil {
			return nil, err
		}
		c.m = m
	}

	return c, nil
}

func (c *Client) centroidMap() (*internal.CentroidMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.m != nil {
		return c.m, nil
	}
	m, err := internal.LoadCentroidMap(c.resolver.Resolve(c.scope).CentroidsPath())
	if err != nil {
		return nil, err
	}
	c.m = m
	return m, nil
}

// NumClusters returns the length of every vector the client produces.
func (c *Client) NumClusters() (int, error) {
	m, err := c.centroidMap()
	if err != nil {
		return 0, err
	}
	return m.NumClusters(), nil
}

// Bag cleans review and returns its cluster histogram.
func (c *Client) Bag(review string) ([]float32, error) {
	m, err := c.centroidMap()
	if err != nil {
		return nil, err
	}
	return m.Bag(internal.ReviewToWordlist(review, c.cleaning)), nil
}

// Featurize returns one cluster histogram per review, in order.
func (c *Client) Featurize(reviews []string) ([][]float32, error) {
	m, err := c.centroidMap()
	if err != nil {
		return nil, err
	}
	return m.Featurize(internal.CleanReviews(reviews, c.cleaning)), nil
}

// Cluster clusters the word vectors at vectors (a path or URL; empty means
// the workspace config) and makes the result the client's centroid map.
func (c *Client) Cluster(ctx context.Context, vectors string) error {
	if _, err := c.uc.Cluster.Execute(ctx, internal.ClusterInput{
		Vectors: vectors, Scope: c.scope,
	}); err != nil {
		return fmt.Errorf("cluster: %w", err)
	}

	c.mu.Lock()
	c.m = nil
	c.mu.Unlock()
	return nil
}

// Clusters returns the first limit clusters of the workspace, or all of
// them when limit is negative.
func (c *Client) Clusters(ctx context.Context, limit int) ([]Cluster, error) {
	out, err := c.uc.ListClusters.Execute(ctx, internal.ListClustersInput{
		Limit: limit, Scope: c.scope,
	})
	if err != nil {
		return nil, fmt.Errorf("clusters: %w", err)
	}

	clusters := make([]Cluster, 0, len(out.Groups))
	for _, g := range out.Groups {
		clusters = append(clusters, Cluster{ID: g.ID, Words: g.Words})
	}
	return clusters, nil
}

// Train fits the named classifiers (all configured ones when none are
// given) and writes their prediction files.
func (c *Client) Train(ctx context.Context, classifiers ...string) ([]TrainResult, error) {
	out, err := c.uc.Train.Execute(ctx, internal.TrainInput{
		Scope: c.scope, Classifiers: classifiers,
	})
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	results := make([]TrainResult, 0, len(out.Results))
	for _, r := range out.Results {
		res := TrainResult{Classifier: r.Name, Output: r.Output}
		if r.Evaluation != nil {
			acc := r.Evaluation.Accuracy
			res.Accuracy, res.AUC = &acc, r.Evaluation.AUC
		}
		results = append(results, res)
	}
	return results, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}
