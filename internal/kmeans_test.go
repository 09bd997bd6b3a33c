package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type modClusterer struct{}

func (modClusterer) Cluster(_ context.Context, vectors [][]float32, k int) ([]int, error) {
	out := make([]int, len(vectors))
	for i := range out {
		out[i] = i % k
	}
	return out, nil
}

func TestClusterCount(t *testing.T) {
	tests := []struct {
		name                       string
		vocab, perCluster, override int
		want                       int
	}{
		{"fifth of vocabulary", 100, 5, 0, 20},
		{"default words per cluster", 100, 0, 0, 20},
		{"override wins", 100, 5, 7, 7},
		{"tiny vocabulary", 3, 5, 0, 1},
		{"override above vocabulary", 4, 5, 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClusterCount(tt.vocab, tt.perCluster, tt.override))
		})
	}
}

func TestKMeansClustererSeparatesGroups(t *testing.T) {
	vectors := [][]float32{
		{1.0, 1.0}, {1.1, 1.1}, {0.9, 0.9}, {1.0, 1.2},
		{10.0, 10.0}, {10.1, 10.1}, {9.9, 9.9}, {10.0, 9.8},
	}

	ids, err := NewKMeansClusterer(0.01).Cluster(context.Background(), vectors, 2)
	require.NoError(t, err)
	require.Len(t, ids, len(vectors))

	for i := 1; i < 4; i++ {
		assert.Equal(t, ids[0], ids[i], "vector %d", i)
		assert.Equal(t, ids[4], ids[4+i], "vector %d", 4+i)
	}
	assert.NotEqual(t, ids[0], ids[4])
	for _, id := range ids {
		assert.True(t, id >= 0 && id < 2)
	}
}

func TestKMeansClustererInvalidK(t *testing.T) {
	c := NewKMeansClusterer(0.01)
	vectors := [][]float32{{1, 2}, {3, 4}}

	_, err := c.Cluster(context.Background(), vectors, 0)
	assert.Error(t, err)

	_, err = c.Cluster(context.Background(), vectors, 3)
	assert.Error(t, err)

	_, err = c.Cluster(context.Background(), nil, 1)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestKMeansClustererCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewKMeansClusterer(0.01).Cluster(ctx, [][]float32{{1, 2}, {3, 4}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClusterVocabulary(t *testing.T) {
	wv := NewWordVectors(1)
	for i, w := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, wv.Add(w, []float32{float32(i)}))
	}

	m, err := ClusterVocabulary(context.Background(), modClusterer{}, wv, 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 0, "d": 1, "e": 0}, m.Words())
	assert.Equal(t, 2, m.NumClusters())
}

func TestClusterVocabularyEmpty(t *testing.T) {
	_, err := ClusterVocabulary(context.Background(), modClusterer{}, NewWordVectors(2), 1)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}
