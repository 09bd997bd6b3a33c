package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mariotoffia/goannoy/builder"
	"github.com/mariotoffia/goannoy/interfaces"
)

const (
	IndexFilename   = "index.ann"
	MappingFilename = "mapping.json"
	WordsFilename   = "words.bin"
)

// minAnnoyItems is the smallest vocabulary that is written as an annoy file.
// Smaller indexes are answered by an exact scan only.
const minAnnoyItems = 2

var _ VectorIndex = (*WordIndex)(nil)

// WordIndex is an angular annoy index over the vocabulary, used to look up
// the nearest words of a word vector. It keeps the raw vectors so that
// queries the forest answers incompletely fall back to an exact scan.
type WordIndex struct {
	mu        sync.RWMutex
	idx       interfaces.AnnoyIndex[float32, uint32]
	dimension int
	wordToID  map[string]uint32
	idToWord  map[uint32]string
	vectors   [][]float32
	basePath  string
	trees     int
	built     bool
	hasAnnoy  bool
}

type wordMapping struct {
	Dimension int               `json:"dimension"`
	Trees     int               `json:"trees"`
	Annoy     bool              `json:"annoy"`
	WordToID  map[string]uint32 `json:"word_to_id"`
}

func NewWordIndex(basePath string, dimension int) (*WordIndex, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create vectors directory: %w", err)
	}

	return &WordIndex{
		idx:       newAnnoy(dimension),
		dimension: dimension,
		wordToID:  make(map[string]uint32),
		idToWord:  make(map[uint32]string),
		basePath:  basePath,
	}, nil
}

// OpenWordIndex loads a saved index, taking the dimension from its mapping.
func OpenWordIndex(ctx context.Context, basePath string) (*WordIndex, error) {
	m, err := readWordMapping(basePath)
	if err != nil {
		return nil, err
	}

	w, err := NewWordIndex(basePath, m.Dimension)
	if err != nil {
		return nil, err
	}
	if err := w.Load(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func newAnnoy(dimension int) interfaces.AnnoyIndex[float32, uint32] {
	return builder.Index[float32, uint32]().
		AngularDistance(dimension).
		UseMultiWorkerPolicy().
		MmapIndexAllocator().
		Build()
}

func (w *WordIndex) Dimension() int {
	return w.dimension
}

func (w *WordIndex) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.vectors)
}

func (w *WordIndex) Add(ctx context.Context, word string, emb Embedding) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(emb.Vector) != w.dimension {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", w.dimension, len(emb.Vector))
	}

	vec := append([]float32(nil), emb.Vector...)
	id, exists := w.wordToID[word]
	if exists {
		w.vectors[id] = vec
	} else {
		id = uint32(len(w.vectors))
		w.wordToID[word] = id
		w.idToWord[id] = word
		w.vectors = append(w.vectors, vec)
	}

	// AddItem takes ownership of its slice
	w.idx.AddItem(id, append([]float32(nil), vec...))
	w.built = false

	return nil
}

// Vector returns the stored vector of word.
func (w *WordIndex) Vector(word string) ([]float32, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.wordToID[word]
	if !ok {
		return nil, false
	}
	return w.vectors[id], true
}

// Search returns the k nearest words of query, best first. When the forest
// yields fewer than k hits the whole vocabulary is scanned instead.
func (w *WordIndex) Search(ctx context.Context, query Embedding, k int) ([]SearchResult, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.built {
		return nil, fmt.Errorf("index not built")
	}

	if len(query.Vector) != w.dimension {
		return nil, fmt.Errorf("dimension mismatch: expected %d, got %d", w.dimension, len(query.Vector))
	}

	if k > len(w.vectors) {
		k = len(w.vectors)
	}
	if k <= 0 {
		return nil, nil
	}

	if w.hasAnnoy {
		if results := w.searchAnnoy(query.Vector, k); len(results) >= k {
			return results, nil
		}
	}
	return w.searchExact(ctx, query.Vector, k)
}

func (w *WordIndex) searchAnnoy(query []float32, k int) []SearchResult {
	searchK := len(w.vectors) * max(w.trees, 1)
	searchCtx := w.idx.CreateContext()
	ids, distances := w.idx.GetNnsByVector(query, k, searchK, searchCtx)

	results := make([]SearchResult, 0, len(ids))
	for i, id := range ids {
		word, exists := w.idToWord[id]
		if !exists {
			continue
		}

		var score float32
		if i < len(distances) {
			score = angularScore(distances[i])
		}

		results = append(results, SearchResult{Word: word, Score: score})
	}
	return results
}

func (w *WordIndex) searchExact(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	qn := norm(query)

	results := make([]SearchResult, 0, len(w.vectors))
	for id, vec := range w.vectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var cos float64
		if vn := norm(vec); qn > 0 && vn > 0 {
			cos = dot(query, vec) / (qn * vn)
		}
		dist := math.Sqrt(math.Max(0, 2-2*cos))

		results = append(results, SearchResult{
			Word:  w.idToWord[uint32(id)],
			Score: angularScore(float32(dist)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results[:k], nil
}

// angular distance lies in [0, 2]
func angularScore(dist float32) float32 {
	return 1.0 - dist/2.0
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}

func (w *WordIndex) Build(ctx context.Context, numTrees int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.trees = numTrees
	w.hasAnnoy = len(w.vectors) >= minAnnoyItems
	if w.hasAnnoy {
		w.idx.Build(numTrees, -1)
	}
	w.built = true
	return nil
}

func (w *WordIndex) Save(ctx context.Context) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	indexPath := filepath.Join(w.basePath, IndexFilename)
	if w.hasAnnoy {
		if err := w.idx.Save(indexPath); err != nil {
			return fmt.Errorf("save index: %w", err)
		}
	} else if err := os.Remove(indexPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale index: %w", err)
	}

	wv := NewWordVectors(w.dimension)
	for id, vec := range w.vectors {
		if err := wv.Add(w.idToWord[uint32(id)], vec); err != nil {
			return err
		}
	}
	if err := writeFileAtomic(filepath.Join(w.basePath, WordsFilename), func(out io.Writer) error {
		return WriteBinaryVectors(out, wv)
	}); err != nil {
		return fmt.Errorf("write word vectors: %w", err)
	}

	data, err := json.Marshal(wordMapping{
		Dimension: w.dimension,
		Trees:     w.trees,
		Annoy:     w.hasAnnoy,
		WordToID:  w.wordToID,
	})
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	if err := os.WriteFile(filepath.Join(w.basePath, MappingFilename), data, 0644); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}

	return nil
}

func (w *WordIndex) Load(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, err := readWordMapping(w.basePath)
	if err != nil {
		return err
	}
	if m.Dimension != w.dimension {
		return fmt.Errorf("dimension mismatch: index has %d, expected %d", m.Dimension, w.dimension)
	}

	vectors, err := readIndexVectors(w.basePath, m)
	if err != nil {
		return err
	}

	w.wordToID = m.WordToID
	w.idToWord = make(map[uint32]string, len(m.WordToID))
	for word, id := range m.WordToID {
		w.idToWord[id] = word
	}
	w.vectors = vectors
	w.trees = m.Trees
	w.hasAnnoy = m.Annoy && len(vectors) >= minAnnoyItems

	if w.hasAnnoy {
		if err := w.idx.Load(filepath.Join(w.basePath, IndexFilename)); err != nil {
			return fmt.Errorf("load index: %w", err)
		}
	}

	w.built = true
	return nil
}

func (w *WordIndex) Contains(ctx context.Context, word string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, exists := w.wordToID[word]
	return exists
}

func readWordMapping(basePath string) (*wordMapping, error) {
	data, err := os.ReadFile(filepath.Join(basePath, MappingFilename))
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}

	var m wordMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal mapping: %w", err)
	}
	if m.WordToID == nil {
		m.WordToID = make(map[string]uint32)
	}
	return &m, nil
}

// readIndexVectors returns the saved vectors ordered by word id.
func readIndexVectors(basePath string, m *wordMapping) ([][]float32, error) {
	f, err := os.Open(filepath.Join(basePath, WordsFilename))
	if err != nil {
		return nil, fmt.Errorf("read word vectors: %w", err)
	}
	defer f.Close()

	wv, err := ReadBinaryVectors(f)
	if err != nil {
		return nil, fmt.Errorf("read word vectors: %w", err)
	}
	if wv.Len() != len(m.WordToID) || (wv.Len() > 0 && wv.Dim != m.Dimension) {
		return nil, fmt.Errorf("word vectors do not match mapping: %d words of dimension %d", wv.Len(), wv.Dim)
	}

	vectors := make([][]float32, len(m.WordToID))
	for word, id := range m.WordToID {
		vec, ok := wv.Vector(word)
		if !ok || int(id) >= len(vectors) {
			return nil, fmt.Errorf("word vectors do not match mapping: %q", word)
		}
		vectors[id] = vec
	}
	return vectors, nil
}
