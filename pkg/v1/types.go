package v1

// CleanOptions controls how reviews are tokenized.
type CleanOptions struct {
	RemoveStopwords bool `json:"remove_stopwords"`
	Stem            bool `json:"stem"`
}

// Cluster is one k-means cluster and its member words.
type Cluster struct {
	ID    int      `json:"id"`
	Words []string `json:"words"`
}

// TrainResult describes one fitted classifier.
type TrainResult struct {
	Classifier string   `json:"classifier"`
	Output     string   `json:"output"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	AUC        *float64 `json:"auc,omitempty"`
}
