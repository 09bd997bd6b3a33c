package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVectors(t *testing.T) *WordVectors {
	t.Helper()
	wv := NewWordVectors(3)
	require.NoError(t, wv.Add("good", []float32{1, 0, 0.5}))
	require.NoError(t, wv.Add("bad", []float32{-1, 0.25, 0}))
	require.NoError(t, wv.Add("movie", []float32{0, 1, -0.75}))
	return wv
}

func TestReadTextVectorsWithHeader(t *testing.T) {
	wv, err := ReadTextVectors(strings.NewReader("2 3\ngood 1 0 0.5\nbad -1 0.25 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, wv.Dim)
	assert.Equal(t, []string{"good", "bad"}, wv.Words)
	vec, ok := wv.Vector("bad")
	require.True(t, ok)
	assert.Equal(t, []float32{-1, 0.25, 0}, vec)
}

func TestReadTextVectorsWithoutHeader(t *testing.T) {
	wv, err := ReadTextVectors(strings.NewReader("good 1 0\n\nbad 0 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, wv.Dim)
	assert.Equal(t, 2, wv.Len())
}

func TestReadTextVectorsDuplicateKeepsFirst(t *testing.T) {
	wv, err := ReadTextVectors(strings.NewReader("good 1 0\ngood 0 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, wv.Len())
	vec, _ := wv.Vector("good")
	assert.Equal(t, []float32{1, 0}, vec)
}

func TestReadTextVectorsErrors(t *testing.T) {
	_, err := ReadTextVectors(strings.NewReader("good 1 0\nbad 1\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = ReadTextVectors(strings.NewReader("good 1 zero\n"))
	assert.Error(t, err)
}

func TestBinaryVectorsRoundTrip(t *testing.T) {
	wv := sampleVectors(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBinaryVectors(&buf, wv))

	got, err := ReadBinaryVectors(&buf)
	require.NoError(t, err)
	assert.Equal(t, wv.Words, got.Words)
	assert.Equal(t, wv.Vectors, got.Vectors)
}

func TestReadBinaryVectorsTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinaryVectors(&buf, sampleVectors(t)))

	truncated := buf.Bytes()[:buf.Len()-10]
	_, err := ReadBinaryVectors(bytes.NewReader(truncated))
	assert.Error(t, err)
}

func TestReadBinaryVectorsBadHeader(t *testing.T) {
	_, err := ReadBinaryVectors(strings.NewReader("not a header\n"))
	assert.ErrorContains(t, err, "invalid header")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatBinary, DetectFormat("model.bin", FormatAuto))
	assert.Equal(t, FormatBinary, DetectFormat("model.bin.gz", ""))
	assert.Equal(t, FormatText, DetectFormat("model.txt.gz", FormatAuto))
	assert.Equal(t, FormatText, DetectFormat("model.bin", FormatText))
}

func TestLoadWordVectorsGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.txt.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	require.NoError(t, WriteTextVectors(zw, sampleVectors(t)))
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	wv, err := LoadWordVectors(path, FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"good", "bad", "movie"}, wv.Words)
	vec, _ := wv.Vector("movie")
	assert.Equal(t, []float32{0, 1, -0.75}, vec)
}

func TestLoadWordVectorsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))

	_, err := LoadWordVectors(path, FormatText)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}
