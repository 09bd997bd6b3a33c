package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/centroids/internal"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boc",
		Short: "Bag-of-centroids sentiment features",
		Long: `Cluster pre-trained word vectors, turn reviews into bag-of-centroids
histograms and train sentiment classifiers on them.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	setHelpWithPlugins(rootCmd)

	if a != nil {
		rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
			asJSON, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			a.wire(asJSON, verbose)
		}
		addSubcommands(rootCmd, a)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("scope", "", "Target scope (global|project)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output")
}

func addSubcommands(root *cobra.Command, a *app) {
	uc := a.useCases

	root.AddCommand(
		NewInitCmd(),
		NewClusterCmd(func() *internal.ClusterUseCase { return uc().Cluster }),
		NewClustersCmd(func() *internal.ListClustersUseCase { return uc().ListClusters }),
		NewBagCmd(func() *internal.BagUseCase { return uc().Bag }),
		NewTrainCmd(func() *internal.TrainUseCase { return uc().Train }),
		NewSimilarCmd(func() *internal.SimilarUseCase { return uc().Similar }),
		NewWatchCmd(func() *internal.TrainUseCase { return uc().Train }),
	)
}

func setHelpWithPlugins(cmd *cobra.Command) {
	defaultHelp := cmd.HelpFunc()

	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		defaultHelp(c, args)
		printPlugins(c)
	})
}

func printPlugins(cmd *cobra.Command) {
	plugins := listPlugins()
	if len(plugins) == 0 {
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nExternal commands (boc-*):")
	for _, name := range plugins {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
