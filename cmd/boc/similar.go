package main

import (
	"fmt"

	"github.com/4thel00z/centroids/internal"
	"github.com/spf13/cobra"
)

func NewSimilarCmd(uc func() *internal.SimilarUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <word>",
		Short: "Find the nearest words of a word",
		Long:  `Search the word index built by "boc cluster" for the closest vocabulary words.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeSimilarRunner(uc),
	}

	cmd.Flags().IntP("number", "n", 10, "Maximum results")
	return cmd
}

func makeSimilarRunner(uc func() *internal.SimilarUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		limit, _ := cmd.Flags().GetInt("number")

		out, err := uc().Execute(cmd.Context(), internal.SimilarInput{
			Word: args[0], Limit: limit, Scope: scopeHint,
		})
		if err != nil {
			return fmt.Errorf("similar: %w", err)
		}

		if asJSON {
			results := make([]map[string]any, 0, len(out.Results))
			for _, r := range out.Results {
				results = append(results, map[string]any{"word": r.Word, "score": r.Score})
			}
			return writeJSON(cmd, results)
		}

		for _, r := range out.Results {
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %s\n", r.Score, r.Word)
		}
		return nil
	}
}
