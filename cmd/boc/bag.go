package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/4thel00z/centroids/internal"
	"github.com/spf13/cobra"
)

func NewBagCmd(uc func() *internal.BagUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "bag [review]",
		Short: "Print the bag-of-centroids vector of a review",
		Long:  `Clean a review (from the arguments or stdin) and print its cluster histogram.`,
		RunE:  makeBagRunner(uc),
	}
}

func makeBagRunner(uc func() *internal.BagUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")

		review := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			review = string(data)
		}

		out, err := uc().Execute(cmd.Context(), internal.BagInput{Review: review, Scope: scopeHint})
		if err != nil {
			return fmt.Errorf("bag: %w", err)
		}

		if asJSON {
			return writeJSON(cmd, map[string]any{
				"tokens": out.Tokens,
				"known":  out.Known,
				"vector": out.Vector,
			})
		}

		counts := make([]string, len(out.Vector))
		for i, v := range out.Vector {
			counts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(counts, " "))
		return nil
	}
}
