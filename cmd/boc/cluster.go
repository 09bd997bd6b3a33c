package main

import (
	"fmt"

	"github.com/4thel00z/centroids/internal"
	"github.com/spf13/cobra"
)

func NewClusterCmd(uc func() *internal.ClusterUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster the word vectors",
		Long: `Load the word vectors, run k-means over them and save the word to
cluster map. Also builds the nearest-word index used by "boc similar".`,
		Args: cobra.NoArgs,
		RunE: makeClusterRunner(uc),
	}

	cmd.Flags().String("vectors", "", "Word-vector file or URL (overrides config)")
	cmd.Flags().String("format", "", "Vector file format (auto|text|binary)")
	cmd.Flags().IntP("clusters", "k", 0, "Number of clusters (default: vocabulary size / words_per_cluster)")
	cmd.Flags().Bool("no-index", false, "Skip building the nearest-word index")
	return cmd
}

func makeClusterRunner(uc func() *internal.ClusterUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		vectors, _ := cmd.Flags().GetString("vectors")
		format, _ := cmd.Flags().GetString("format")
		k, _ := cmd.Flags().GetInt("clusters")
		noIndex, _ := cmd.Flags().GetBool("no-index")

		out, err := uc().Execute(cmd.Context(), internal.ClusterInput{
			Vectors:     vectors,
			Format:      internal.VectorFormat(format),
			NumClusters: k,
			Scope:       scopeHint,
			SkipIndex:   noIndex,
		})
		if err != nil {
			return fmt.Errorf("cluster: %w", err)
		}

		if asJSON {
			return writeJSON(cmd, map[string]any{
				"words":      out.Words,
				"dimension":  out.Dimension,
				"clusters":   out.Clusters,
				"seconds":    out.Elapsed.Seconds(),
				"centroids":  out.CentroidsPath,
				"index_path": out.IndexPath,
			})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Clustered %d words into %d clusters in %.2fs\n",
			out.Words, out.Clusters, out.Elapsed.Seconds())
		fmt.Fprintf(cmd.OutOrStdout(), "Saved centroids to %s\n", out.CentroidsPath)
		if out.IndexPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved word index to %s\n", out.IndexPath)
		}
		return nil
	}
}
