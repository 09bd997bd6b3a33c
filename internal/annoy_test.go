package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWordIndexAddAndSearch(t *testing.T) {
	tmpDir := t.TempDir()

	idx, err := NewWordIndex(tmpDir, 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	ctx := context.Background()

	if err := idx.Add(ctx, "good", NewEmbedding([]float32{1.0, 0.0, 0.0})); err != nil {
		t.Fatalf("add good: %v", err)
	}
	if err := idx.Add(ctx, "awful", NewEmbedding([]float32{0.0, 1.0, 0.0})); err != nil {
		t.Fatalf("add awful: %v", err)
	}

	if err := idx.Build(ctx, 2); err != nil {
		t.Fatalf("build: %v", err)
	}

	results, err := idx.Search(ctx, NewEmbedding([]float32{1.0, 0.1, 0.0}), 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(results) == 0 {
		t.Fatal("expected at least 1 result")
	}

	if results[0].Word != "good" {
		t.Errorf("expected closest match to be 'good', got %q", results[0].Word)
	}
}

func TestWordIndexDimensionMismatch(t *testing.T) {
	idx, err := NewWordIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	ctx := context.Background()

	if err := idx.Add(ctx, "bad", NewEmbedding([]float32{1.0, 0.0})); err == nil {
		t.Error("expected dimension mismatch error on add")
	}

	if err := idx.Build(ctx, 1); err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := idx.Search(ctx, NewEmbedding([]float32{1.0, 0.0}), 1); err == nil {
		t.Error("expected dimension mismatch error on search")
	}
}

func TestWordIndexSearchBeforeBuild(t *testing.T) {
	idx, err := NewWordIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	_, err = idx.Search(context.Background(), NewEmbedding([]float32{1.0, 0.0, 0.0}), 1)
	if err == nil {
		t.Error("expected error when searching before build")
	}
}

func TestWordIndexSaveAndOpen(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	idx1, err := NewWordIndex(tmpDir, 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if err := idx1.Add(ctx, "movie", NewEmbedding([]float32{0.5, 0.5, 0.0})); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := idx1.Build(ctx, 2); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := idx1.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	idx2, err := OpenWordIndex(ctx, tmpDir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if idx2.Dimension() != 3 {
		t.Errorf("dimension = %d, want 3", idx2.Dimension())
	}
	if !idx2.Contains(ctx, "movie") {
		t.Error("expected word to be present after load")
	}

	results, err := idx2.Search(ctx, NewEmbedding([]float32{0.5, 0.5, 0.0}), 1)
	if err != nil {
		t.Fatalf("search after load: %v", err)
	}
	if len(results) != 1 || results[0].Word != "movie" {
		t.Errorf("expected 'movie', got %+v", results)
	}
}

func TestOpenWordIndexMissing(t *testing.T) {
	if _, err := OpenWordIndex(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error opening an index that was never saved")
	}
}

func TestWordVectorsIndex(t *testing.T) {
	ctx := context.Background()
	wv := NewWordVectors(2)
	for word, vec := range map[string][]float32{
		"good":  {1, 0},
		"great": {0.9, 0.1},
		"bad":   {0, 1},
	} {
		if err := wv.Add(word, vec); err != nil {
			t.Fatalf("add %s: %v", word, err)
		}
	}

	idx, err := NewWordIndex(t.TempDir(), 2)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if err := wv.Index(ctx, idx, 4); err != nil {
		t.Fatalf("index: %v", err)
	}

	for _, w := range wv.Words {
		if !idx.Contains(ctx, w) {
			t.Errorf("expected %q in index", w)
		}
	}
}

func sixWordIndex(t *testing.T, dir string) *WordIndex {
	t.Helper()
	ctx := context.Background()

	idx, err := NewWordIndex(dir, 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	words := []struct {
		word string
		vec  []float32
	}{
		{"good", []float32{1, 0, 0}},
		{"great", []float32{0.9, 0.1, 0}},
		{"fine", []float32{0.7, 0.3, 0}},
		{"awful", []float32{0, 1, 0}},
		{"bad", []float32{0.1, 0.9, 0}},
		{"movie", []float32{0, 0, 1}},
	}
	for _, w := range words {
		if err := idx.Add(ctx, w.word, NewEmbedding(w.vec)); err != nil {
			t.Fatalf("add %s: %v", w.word, err)
		}
	}
	if err := idx.Build(ctx, 10); err != nil {
		t.Fatalf("build: %v", err)
	}
	return idx
}

func assertNearest(t *testing.T, idx *WordIndex, want []string) {
	t.Helper()

	results, err := idx.Search(context.Background(), NewEmbedding([]float32{1, 0, 0}), len(want))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d: %+v", len(results), len(want), results)
	}
	for i, w := range want {
		if results[i].Word != w {
			t.Errorf("result %d = %q, want %q", i, results[i].Word, w)
		}
	}
}

func TestWordIndexSmallVocabularyReturnsK(t *testing.T) {
	idx := sixWordIndex(t, t.TempDir())
	assertNearest(t, idx, []string{"good", "great", "fine"})
}

func TestWordIndexSmallVocabularyAfterOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	if err := sixWordIndex(t, dir).Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	idx, err := OpenWordIndex(ctx, dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if idx.Len() != 6 {
		t.Errorf("len = %d, want 6", idx.Len())
	}
	assertNearest(t, idx, []string{"good", "great", "fine"})

	vec, ok := idx.Vector("awful")
	if !ok || vec[1] != 1 {
		t.Errorf("vector(awful) = %v, %v", vec, ok)
	}
}

func TestWordIndexSingleWordSkipsAnnoyFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx, err := NewWordIndex(dir, 2)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if err := idx.Add(ctx, "movie", NewEmbedding([]float32{1, 1})); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := idx.Build(ctx, 4); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := idx.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, IndexFilename)); !os.IsNotExist(err) {
		t.Errorf("expected no %s for a single word, stat err = %v", IndexFilename, err)
	}

	reopened, err := OpenWordIndex(ctx, dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	results, err := reopened.Search(ctx, NewEmbedding([]float32{0, 1}), 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Word != "movie" {
		t.Errorf("expected only 'movie', got %+v", results)
	}
}
