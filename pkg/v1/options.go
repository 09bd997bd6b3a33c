package v1

import "log/slog"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	cacheDir  string
	scope     string
	centroids map[string]int
	cleaning  *CleanOptions
	logger    *slog.Logger
}

// WithCacheDir sets the directory remote word-vector files are cached in.
func WithCacheDir(dir string) Option {
	return func(c *clientConfig) {
		c.cacheDir = dir
	}
}

// WithScope forces a specific scope (global or project).
func WithScope(scope string) Option {
	return func(c *clientConfig) {
		c.scope = scope
	}
}

// WithCentroidMap uses the given word to cluster-id map instead of the one
// saved in the workspace.
func WithCentroidMap(m map[string]int) Option {
	return func(c *clientConfig) {
		c.centroids = m
	}
}

// WithCleaning overrides the review cleaning settings of the workspace.
func WithCleaning(opts CleanOptions) Option {
	return func(c *clientConfig) {
		c.cleaning = &opts
	}
}

// WithLogger sets the logger for progress output. Defaults to discarding.
func WithLogger(log *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = log
	}
}
