package internal

import (
	"context"
	"fmt"
)

type Embedding struct {
	Vector    []float32
	Dimension int
}

func NewEmbedding(vec []float32) Embedding {
	return Embedding{
		Vector:    vec,
		Dimension: len(vec),
	}
}

type SearchResult struct {
	Word  string
	Score float32 // 0-1, higher is better
}

type VectorIndex interface {
	Add(ctx context.Context, word string, emb Embedding) error
	Search(ctx context.Context, query Embedding, k int) ([]SearchResult, error)
	Build(ctx context.Context, numTrees int) error
	Save(ctx context.Context) error
	Load(ctx context.Context) error
	Contains(ctx context.Context, word string) bool
}

// WordVectors is a pre-trained embedding table. Words keeps the order of the
// model file, which is usually most frequent first.
type WordVectors struct {
	Words   []string
	Vectors [][]float32
	Dim     int

	index map[string]int
}

func NewWordVectors(dim int) *WordVectors {
	return &WordVectors{
		Dim:   dim,
		index: make(map[string]int),
	}
}

// Add appends a word. Repeated words keep their first vector.
func (wv *WordVectors) Add(word string, vec []float32) error {
	if len(vec) != wv.Dim {
		return fmt.Errorf("word %q: dimension mismatch: expected %d, got %d", word, wv.Dim, len(vec))
	}
	if _, exists := wv.index[word]; exists {
		return nil
	}
	wv.index[word] = len(wv.Words)
	wv.Words = append(wv.Words, word)
	wv.Vectors = append(wv.Vectors, vec)
	return nil
}

func (wv *WordVectors) Len() int {
	return len(wv.Words)
}

func (wv *WordVectors) Vector(word string) ([]float32, bool) {
	i, ok := wv.index[word]
	if !ok {
		return nil, false
	}
	return wv.Vectors[i], true
}

// Index loads every word vector into idx and builds it.
func (wv *WordVectors) Index(ctx context.Context, idx VectorIndex, numTrees int) error {
	for i, word := range wv.Words {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := idx.Add(ctx, word, NewEmbedding(wv.Vectors[i])); err != nil {
			return fmt.Errorf("index %q: %w", word, err)
		}
	}
	return idx.Build(ctx, numTrees)
}
