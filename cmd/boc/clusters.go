package main

import (
	"fmt"
	"strings"

	"github.com/4thel00z/centroids/internal"
	"github.com/spf13/cobra"
)

func NewClustersCmd(uc func() *internal.ListClustersUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Show the first clusters and their words",
		Args:  cobra.NoArgs,
		RunE:  makeClustersRunner(uc),
	}

	cmd.Flags().IntP("number", "n", 0, "Clusters to show (default: clustering.preview, -1 for all)")
	return cmd
}

func makeClustersRunner(uc func() *internal.ListClustersUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		limit, _ := cmd.Flags().GetInt("number")

		out, err := uc().Execute(cmd.Context(), internal.ListClustersInput{Limit: limit, Scope: scopeHint})
		if err != nil {
			return fmt.Errorf("list clusters: %w", err)
		}

		if asJSON {
			return writeJSON(cmd, out.Groups)
		}

		for _, g := range out.Groups {
			fmt.Fprintf(cmd.OutOrStdout(), "Cluster %d\n", g.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", strings.Join(g.Words, " "))
		}
		return nil
	}
}
