package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	ColumnID        = "id"
	ColumnSentiment = "sentiment"
	ColumnReview    = "review"
)

// ReviewSet holds the columns of a review file. Labels is nil for unlabeled
// (test) files.
type ReviewSet struct {
	IDs     []string
	Labels  []int
	Reviews []string
}

func (s *ReviewSet) Len() int {
	return len(s.IDs)
}

func (s *ReviewSet) Labeled() bool {
	return s.Labels != nil
}

type Prediction struct {
	ID        string
	Sentiment int
}

// ReadReviews loads a tab separated review file with a header row. When
// labeled is set the sentiment column is required and parsed as an integer.
func ReadReviews(path string, labeled bool) (*ReviewSet, error) {
	rc, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("open reviews: %w", err)
	}
	defer rc.Close()

	set, err := ParseReviews(rc, labeled)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return set, nil
}

func ParseReviews(r io.Reader, labeled bool) (*ReviewSet, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	required := []string{ColumnID, ColumnReview}
	if labeled {
		required = append(required, ColumnSentiment)
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing %q column", name)
		}
	}

	set := &ReviewSet{}
	if labeled {
		set.Labels = []int{}
	}

	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		id, err := field(record, cols[ColumnID])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		review, err := field(record, cols[ColumnReview])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		if labeled {
			raw, err := field(record, cols[ColumnSentiment])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			label, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid sentiment %q", row, raw)
			}
			set.Labels = append(set.Labels, label)
		}

		set.IDs = append(set.IDs, id)
		set.Reviews = append(set.Reviews, strings.ReplaceAll(review, `\"`, `"`))
	}

	return set, nil
}

func field(record []string, i int) (string, error) {
	if i >= len(record) {
		return "", fmt.Errorf("expected at least %d fields, got %d", i+1, len(record))
	}
	return record[i], nil
}

// WritePredictions writes an "id","sentiment" CSV. String ids are quoted and
// sentiment values are not.
func WritePredictions(path string, preds []Prediction) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return EncodePredictions(w, preds)
	})
}

func EncodePredictions(w io.Writer, preds []Prediction) error {
	if _, err := fmt.Fprintf(w, "%s,%s\n", quoteField(ColumnID), quoteField(ColumnSentiment)); err != nil {
		return err
	}
	for _, p := range preds {
		if _, err := fmt.Fprintf(w, "%s,%d\n", quoteField(p.ID), p.Sentiment); err != nil {
			return err
		}
	}
	return nil
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
