package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/4thel00z/centroids/internal"
	"github.com/spf13/cobra"
)

func TestPrintTrainOutputUndefinedAUC(t *testing.T) {
	auc := 0.75
	out := &internal.TrainOutput{
		TrainRows: 8, TestRows: 2, Clusters: 2,
		Results: []internal.ClassifierResult{
			{Name: "knn", Output: "knn.csv", Evaluation: &internal.Evaluation{Accuracy: 1}},
			{Name: "logistic", Output: "logistic.csv", Evaluation: &internal.Evaluation{Accuracy: 0.5, AUC: &auc}},
		},
	}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	printTrainOutput(cmd, out)

	text := buf.String()
	if !strings.Contains(text, "auc=n/a") {
		t.Errorf("expected undefined auc to print n/a, got:\n%s", text)
	}
	if !strings.Contains(text, "auc=0.7500") {
		t.Errorf("expected defined auc to be printed, got:\n%s", text)
	}

	data, err := json.Marshal(trainOutputJSON(out))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded.Results[0]["auc"]; ok {
		t.Errorf("expected no auc key for knn, got %v", decoded.Results[0])
	}
	if decoded.Results[1]["auc"] != 0.75 {
		t.Errorf("auc = %v, want 0.75", decoded.Results[1]["auc"])
	}
}
