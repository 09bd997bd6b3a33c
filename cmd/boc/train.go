package main

import (
	"fmt"

	"github.com/4thel00z/centroids/internal"
	"github.com/spf13/cobra"
)

func NewTrainCmd(uc func() *internal.TrainUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train classifiers and write predictions",
		Long: `Featurize the labeled and the test reviews with the saved centroid map,
fit every configured classifier and write one prediction CSV per classifier.`,
		Args: cobra.NoArgs,
		RunE: makeTrainRunner(uc),
	}

	addTrainFlags(cmd)
	return cmd
}

func addTrainFlags(cmd *cobra.Command) {
	cmd.Flags().String("train", "", "Labeled training TSV (overrides config)")
	cmd.Flags().String("test", "", "Unlabeled test TSV (overrides config)")
	cmd.Flags().StringP("output-dir", "o", "", "Directory for prediction files (overrides config)")
	cmd.Flags().StringSliceP("classifier", "c", nil, "Only run these classifiers")
	cmd.Flags().Float64("holdout", 0, "Fraction of labeled rows held out for evaluation")
}

func trainInput(cmd *cobra.Command) internal.TrainInput {
	scopeHint, _ := cmd.Flags().GetString("scope")
	train, _ := cmd.Flags().GetString("train")
	test, _ := cmd.Flags().GetString("test")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	classifiers, _ := cmd.Flags().GetStringSlice("classifier")
	holdout, _ := cmd.Flags().GetFloat64("holdout")

	return internal.TrainInput{
		Scope:       scopeHint,
		TrainPath:   train,
		TestPath:    test,
		OutputDir:   outputDir,
		Classifiers: classifiers,
		Holdout:     holdout,
	}
}

func makeTrainRunner(uc func() *internal.TrainUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		out, err := uc().Execute(cmd.Context(), trainInput(cmd))
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}

		if asJSON {
			return writeJSON(cmd, trainOutputJSON(out))
		}
		printTrainOutput(cmd, out)
		return nil
	}
}

func printTrainOutput(cmd *cobra.Command, out *internal.TrainOutput) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Featurized %d training and %d test reviews over %d clusters\n",
		out.TrainRows, out.TestRows, out.Clusters)
	for _, r := range out.Results {
		if r.Evaluation != nil {
			auc := "n/a"
			if r.Evaluation.AUC != nil {
				auc = fmt.Sprintf("%.4f", *r.Evaluation.AUC)
			}
			fmt.Fprintf(w, "%-10s accuracy=%.4f auc=%s  %s\n", r.Name, r.Evaluation.Accuracy, auc, r.Output)
			continue
		}
		fmt.Fprintf(w, "%-10s %s\n", r.Name, r.Output)
	}
}

func trainOutputJSON(out *internal.TrainOutput) map[string]any {
	results := make([]map[string]any, 0, len(out.Results))
	for _, r := range out.Results {
		entry := map[string]any{"classifier": r.Name, "output": r.Output}
		if r.Evaluation != nil {
			entry["accuracy"] = r.Evaluation.Accuracy
			if r.Evaluation.AUC != nil {
				entry["auc"] = *r.Evaluation.AUC
			}
		}
		results = append(results, entry)
	}
	return map[string]any{
		"train_rows": out.TrainRows,
		"test_rows":  out.TestRows,
		"clusters":   out.Clusters,
		"results":    results,
	}
}
