package internal

import (
	"context"
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

const DefaultWordsPerCluster = 5

// Clusterer partitions vectors into k groups and returns the group id of
// every input vector, in input order.
type Clusterer interface {
	Cluster(ctx context.Context, vectors [][]float32, k int) ([]int, error)
}

// ClusterCount returns override when positive, otherwise one cluster per
// wordsPerCluster words. The result is clamped to [1, vocabSize].
func ClusterCount(vocabSize, wordsPerCluster, override int) int {
	k := override
	if k <= 0 {
		if wordsPerCluster <= 0 {
			wordsPerCluster = DefaultWordsPerCluster
		}
		k = vocabSize / wordsPerCluster
	}
	if k > vocabSize {
		k = vocabSize
	}
	if k < 1 {
		k = 1
	}
	return k
}

var _ Clusterer = (*KMeansClusterer)(nil)

// KMeansClusterer delegates to github.com/muesli/kmeans.
type KMeansClusterer struct {
	DeltaThreshold float64
}

func NewKMeansClusterer(deltaThreshold float64) *KMeansClusterer {
	return &KMeansClusterer{DeltaThreshold: deltaThreshold}
}

type vectorObservation struct {
	index  int
	coords clusters.Coordinates
}

func (o vectorObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o vectorObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

func (c *KMeansClusterer) Cluster(ctx context.Context, vectors [][]float32, k int) ([]int, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if k <= 0 || k > len(vectors) {
		return nil, fmt.Errorf("invalid cluster count %d for %d vectors", k, len(vectors))
	}

	km, err := kmeans.NewWithOptions(c.DeltaThreshold, nil)
	if err != nil {
		return nil, fmt.Errorf("configure kmeans: %w", err)
	}

	dataset := make(clusters.Observations, len(vectors))
	for i, v := range vectors {
		coords := make(clusters.Coordinates, len(v))
		for j, x := range v {
			coords[j] = float64(x)
		}
		dataset[i] = vectorObservation{index: i, coords: coords}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assignments := make([]int, len(vectors))
	for i := range assignments {
		assignments[i] = -1
	}
	for id, part := range parts {
		for _, o := range part.Observations {
			obs, ok := o.(vectorObservation)
			if !ok {
				return nil, fmt.Errorf("unexpected observation type %T", o)
			}
			assignments[obs.index] = id
		}
	}
	for i, id := range assignments {
		if id < 0 {
			return nil, fmt.Errorf("vector %d was not assigned to a cluster", i)
		}
	}

	return assignments, nil
}

// ClusterVocabulary runs c over every word vector and zips the vocabulary
// with the resulting ids.
func ClusterVocabulary(ctx context.Context, c Clusterer, wv *WordVectors, k int) (*CentroidMap, error) {
	if wv.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}

	idx, err := c.Cluster(ctx, wv.Vectors, k)
	if err != nil {
		return nil, err
	}
	if len(idx) != wv.Len() {
		return nil, fmt.Errorf("clusterer returned %d ids for %d words", len(idx), wv.Len())
	}

	words := make(map[string]int, wv.Len())
	for i, word := range wv.Words {
		words[word] = idx[i]
	}
	return NewCentroidMap(words)
}
