package internal

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldoutSplit(t *testing.T) {
	train, holdout, err := HoldoutSplit(10, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, train, 8)
	assert.Len(t, holdout, 2)

	all := append(append([]int{}, train...), holdout...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	train2, holdout2, err := HoldoutSplit(10, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, holdout, holdout2)
}

func TestHoldoutSplitInvalid(t *testing.T) {
	_, _, err := HoldoutSplit(10, 0, 1)
	assert.Error(t, err)
	_, _, err = HoldoutSplit(10, 1, 1)
	assert.Error(t, err)
	_, _, err = HoldoutSplit(1, 0.5, 1)
	assert.Error(t, err)
}

func TestAccuracy(t *testing.T) {
	assert.InDelta(t, 0.75, Accuracy([]int{1, 0, 1, 1}, []int{1, 0, 0, 1}), 1e-9)
	assert.Zero(t, Accuracy(nil, nil))
	assert.Zero(t, Accuracy([]int{1}, []int{1, 0}))
}

func TestROCAUC(t *testing.T) {
	auc, err := ROCAUC([]int{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, auc, 1e-9)

	auc, err = ROCAUC([]int{0, 1}, []float64{0.2, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, auc, 1e-9)

	auc, err = ROCAUC([]int{0, 1, 0, 1}, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 1e-9)
}

func TestROCAUCSingleClass(t *testing.T) {
	_, err := ROCAUC([]int{1, 1}, []float64{0.2, 0.9})
	assert.Error(t, err)
}
