package internal

import (
	"fmt"
	"math/rand"
	"sort"
)

// HoldoutSplit shuffles [0, n) with seed and returns the train indices and
// the last round(n*frac) indices as the hold-out.
func HoldoutSplit(n int, frac float64, seed int64) (train, holdout []int, err error) {
	if frac <= 0 || frac >= 1 {
		return nil, nil, fmt.Errorf("holdout fraction %.3f not in (0, 1)", frac)
	}

	size := int(float64(n)*frac + 0.5)
	if size < 1 || size >= n {
		return nil, nil, fmt.Errorf("holdout of %d rows leaves nothing to train or test on", n)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[:n-size], perm[n-size:], nil
}

func selectRows(X [][]float32, idx []int) [][]float32 {
	out := make([][]float32, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func selectLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ROCAUC is the area under the ROC curve of scores against binary labels,
// computed as the Mann-Whitney U statistic with tied ranks averaged.
func ROCAUC(yTrue []int, scores []float64) (float64, error) {
	if len(yTrue) != len(scores) {
		return 0, fmt.Errorf("got %d labels but %d scores", len(yTrue), len(scores))
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	ranks := make([]float64, len(scores))
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && scores[order[j+1]] == scores[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var pos, neg int
	var rankSum float64
	for i, y := range yTrue {
		if y == 1 {
			pos++
			rankSum += ranks[i]
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, fmt.Errorf("ROC AUC needs both classes, got %d positive and %d negative", pos, neg)
	}

	u := rankSum - float64(pos*(pos+1))/2
	return u / float64(pos*neg), nil
}
