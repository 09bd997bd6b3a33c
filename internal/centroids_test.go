package internal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagOfCentroidsExample(t *testing.T) {
	m := map[string]int{"cat": 0, "dog": 1, "bird": 0}
	bag := BagOfCentroids([]string{"cat", "dog", "fish", "bird"}, m)
	assert.Equal(t, []float32{2, 1}, bag)
}

func TestBagOfCentroidsLength(t *testing.T) {
	m := map[string]int{"a": 4, "b": 0}

	assert.Len(t, BagOfCentroids(nil, m), 5)
	assert.Len(t, BagOfCentroids([]string{"a", "a", "zzz"}, m), 5)
}

func TestBagOfCentroidsSumMatchesKnownTokens(t *testing.T) {
	m := map[string]int{"good": 0, "great": 0, "bad": 1, "awful": 2}
	tokens := []string{"good", "movie", "bad", "great", "plot", "awful", "good"}

	bag := BagOfCentroids(tokens, m)

	var sum float32
	for _, c := range bag {
		sum += c
	}
	known := 0
	for _, tok := range tokens {
		if _, ok := m[tok]; ok {
			known++
		}
	}
	assert.Equal(t, float32(known), sum)
	assert.Equal(t, []float32{3, 1, 1}, bag)
}

func TestBagOfCentroidsIgnoresUnknownTokens(t *testing.T) {
	m := map[string]int{"cat": 0, "dog": 1}

	assert.Equal(t, []float32{0, 0}, BagOfCentroids([]string{"fish", "whale"}, m))
	assert.Equal(t,
		BagOfCentroids([]string{"cat"}, m),
		BagOfCentroids([]string{"fish", "cat", "whale"}, m))
}

func TestBagOfCentroidsOrderIndependent(t *testing.T) {
	m := map[string]int{"x": 0, "y": 1, "z": 2}
	a := BagOfCentroids([]string{"x", "y", "z", "x"}, m)
	b := BagOfCentroids([]string{"x", "z", "x", "y"}, m)
	assert.Equal(t, a, b)
}

func TestBagOfCentroidsEmptyMap(t *testing.T) {
	assert.Empty(t, BagOfCentroids([]string{"cat"}, map[string]int{}))
}

func TestBagOfCentroidsSkipsNegativeIDs(t *testing.T) {
	m := map[string]int{"a": -1, "b": 0}

	assert.NotPanics(t, func() {
		assert.Equal(t, []float32{1}, BagOfCentroids([]string{"a", "b", "a"}, m))
	})
	assert.Empty(t, BagOfCentroids([]string{"a"}, map[string]int{"a": -3}))
}

func TestCentroidMapRejectsNegativeIDs(t *testing.T) {
	_, err := NewCentroidMap(map[string]int{"cat": -1})
	assert.ErrorIs(t, err, ErrInvalidCluster)
}

func TestCentroidMapFeaturize(t *testing.T) {
	m, err := NewCentroidMap(map[string]int{"cat": 0, "dog": 1, "bird": 0, "eel": 3})
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumClusters())
	assert.Equal(t, 4, m.Len())

	rows := m.Featurize([][]string{
		{"cat", "dog", "fish", "bird"},
		{},
		{"eel"},
	})
	require.Len(t, rows, 3)
	assert.Equal(t, []float32{2, 1, 0, 0}, rows[0])
	assert.Equal(t, []float32{0, 0, 0, 0}, rows[1])
	assert.Equal(t, []float32{0, 0, 0, 1}, rows[2])
}

func TestCentroidMapGroups(t *testing.T) {
	m, err := NewCentroidMap(map[string]int{"dog": 0, "cat": 0, "eel": 2})
	require.NoError(t, err)

	groups := m.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"cat", "dog"}, groups[0].Words)
	assert.Empty(t, groups[1].Words)
	assert.Equal(t, []string{"eel"}, groups[2].Words)
}

func TestCentroidMapSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", CentroidsFilename)
	m, err := NewCentroidMap(map[string]int{"cat": 0, "dog": 1})
	require.NoError(t, err)

	require.NoError(t, SaveCentroidMap(path, m))

	loaded, err := LoadCentroidMap(path)
	require.NoError(t, err)
	assert.Equal(t, m.Words(), loaded.Words())
	assert.Equal(t, 2, loaded.NumClusters())
}

func TestLoadCentroidMapMissing(t *testing.T) {
	_, err := LoadCentroidMap(filepath.Join(t.TempDir(), CentroidsFilename))
	assert.ErrorIs(t, err, ErrNoCentroids)
}
