package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const labeledTSV = "id\tsentiment\treview\n" +
	"\"5814_8\"\t1\t\"With all this stuff going down at the moment with \\\"MJ\\\" i've started listening\"\n" +
	"\"2381_9\"\t0\t\"The Classic War of the Worlds<br /><br />is a very entertaining film\"\n"

const testTSV = "id\treview\n" +
	"\"12311_10\"\t\"Naturally in a film who's main themes are of mortality\"\n" +
	"\n" +
	"\"8348_2\"\t\"This movie is a disaster within a disaster film\"\n"

func TestParseReviewsLabeled(t *testing.T) {
	set, err := ParseReviews(strings.NewReader(labeledTSV), true)
	require.NoError(t, err)

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Labeled())
	assert.Equal(t, []string{"5814_8", "2381_9"}, set.IDs)
	assert.Equal(t, []int{1, 0}, set.Labels)
	assert.Contains(t, set.Reviews[0], `"MJ"`)
}

func TestParseReviewsUnlabeled(t *testing.T) {
	set, err := ParseReviews(strings.NewReader(testTSV), false)
	require.NoError(t, err)

	assert.False(t, set.Labeled())
	assert.Equal(t, []string{"12311_10", "8348_2"}, set.IDs)
	assert.Len(t, set.Reviews, 2)
}

func TestParseReviewsColumnOrder(t *testing.T) {
	set, err := ParseReviews(strings.NewReader("review\tid\nnice\tx1\n"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1"}, set.IDs)
	assert.Equal(t, []string{"nice"}, set.Reviews)
}

func TestParseReviewsErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		labeled bool
		want    string
	}{
		{"empty", "", false, "missing header"},
		{"no review column", "id\ttext\n1\tx\n", false, `missing "review" column`},
		{"no sentiment column", "id\treview\n1\tx\n", true, `missing "sentiment" column`},
		{"bad label", "id\tsentiment\treview\n1\tpositive\tx\n", true, "row 2: invalid sentiment"},
		{"short row", "id\tsentiment\treview\n1\t1\n", true, "row 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReviews(strings.NewReader(tt.input), tt.labeled)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestWritePredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "BagOfCentroids_SGD.csv")

	err := WritePredictions(path, []Prediction{
		{ID: "12311_10", Sentiment: 1},
		{ID: `odd"id`, Sentiment: 0},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"id\",\"sentiment\"\n\"12311_10\",1\n\"odd\"\"id\",0\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestReadReviewsMissingFile(t *testing.T) {
	_, err := ReadReviews(filepath.Join(t.TempDir(), "nope.tsv"), false)
	assert.Error(t, err)
}
