package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var (
	ErrInvalidCluster    = errors.New("cluster id must be non-negative")
	ErrNoCentroids       = errors.New("no word/centroid map available")
	ErrEmptyVocabulary   = errors.New("word vectors contain no words")
	ErrNotFitted         = errors.New("classifier is not fitted")
	ErrUnknownClassifier = errors.New("unknown classifier")
)

const CentroidsFilename = "centroids.json"

// BagOfCentroids counts, per cluster, the tokens that the mapping assigns to
// it. The result has max(m)+1 entries; tokens missing from m or mapped to a
// negative id are skipped.
func BagOfCentroids(tokens []string, m map[string]int) []float32 {
	numCentroids := 0
	for _, id := range m {
		if id >= 0 && id+1 > numCentroids {
			numCentroids = id + 1
		}
	}
	return bagInto(make([]float32, numCentroids), tokens, m)
}

func bagInto(bag []float32, tokens []string, m map[string]int) []float32 {
	for _, tok := range tokens {
		if id, ok := m[tok]; ok && id >= 0 && id < len(bag) {
			bag[id]++
		}
	}
	return bag
}

// CentroidMap is the read-only word to cluster-id mapping produced by
// clustering the vocabulary.
type CentroidMap struct {
	words       map[string]int
	numClusters int
}

func NewCentroidMap(words map[string]int) (*CentroidMap, error) {
	m := &CentroidMap{words: make(map[string]int, len(words))}
	for w, id := range words {
		if id < 0 {
			return nil, fmt.Errorf("word %q: %w", w, ErrInvalidCluster)
		}
		m.words[w] = id
		if id+1 > m.numClusters {
			m.numClusters = id + 1
		}
	}
	return m, nil
}

// NumClusters is the highest cluster id plus one.
func (m *CentroidMap) NumClusters() int {
	return m.numClusters
}

func (m *CentroidMap) Len() int {
	return len(m.words)
}

func (m *CentroidMap) Cluster(word string) (int, bool) {
	id, ok := m.words[word]
	return id, ok
}

// Words returns a copy of the underlying mapping.
func (m *CentroidMap) Words() map[string]int {
	out := make(map[string]int, len(m.words))
	for w, id := range m.words {
		out[w] = id
	}
	return out
}

func (m *CentroidMap) Bag(tokens []string) []float32 {
	return bagInto(make([]float32, m.numClusters), tokens, m.words)
}

// Featurize builds one bag per document. Every row has NumClusters columns.
func (m *CentroidMap) Featurize(docs [][]string) [][]float32 {
	rows := make([][]float32, len(docs))
	for i, doc := range docs {
		rows[i] = m.Bag(doc)
	}
	return rows
}

type ClusterGroup struct {
	ID    int      `json:"id"`
	Words []string `json:"words"`
}

// Groups lists every cluster id in [0, NumClusters) with its sorted words.
// Ids no word maps to are included with an empty word list.
func (m *CentroidMap) Groups() []ClusterGroup {
	groups := make([]ClusterGroup, m.numClusters)
	for i := range groups {
		groups[i] = ClusterGroup{ID: i, Words: []string{}}
	}
	for w, id := range m.words {
		groups[id].Words = append(groups[id].Words, w)
	}
	for i := range groups {
		sort.Strings(groups[i].Words)
	}
	return groups
}

func SaveCentroidMap(path string, m *CentroidMap) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create centroid directory: %w", err)
	}

	data, err := json.Marshal(m.words)
	if err != nil {
		return fmt.Errorf("marshal centroids: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write centroids: %w", err)
	}
	return nil
}

func LoadCentroidMap(path string) (*CentroidMap, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoCentroids
	}
	if err != nil {
		return nil, fmt.Errorf("read centroids: %w", err)
	}

	var words map[string]int
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("unmarshal centroids: %w", err)
	}

	return NewCentroidMap(words)
}
