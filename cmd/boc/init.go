package main

import (
	"fmt"

	"github.com/4thel00z/centroids/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		Long:  `Create a .boc directory holding the config, the centroid map and the word index.`,
		RunE:  runInit,
	}

	cmd.Flags().Bool("global", false, "Initialize global scope (~/.boc)")
	cmd.Flags().String("vectors", "", "Word-vector file or URL")
	cmd.Flags().String("train", "", "Labeled training TSV")
	cmd.Flags().String("test", "", "Unlabeled test TSV")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	isGlobal, _ := cmd.Flags().GetBool("global")

	resolver := internal.NewScopeResolver()

	var scope internal.Scope
	if isGlobal {
		scope = resolver.Global()
	} else {
		here, err := resolver.Here()
		if err != nil {
			return err
		}
		scope = here
	}

	cfg := internal.DefaultConfig()
	if v, _ := cmd.Flags().GetString("vectors"); v != "" {
		cfg.Vectors.Path = v
	}
	if v, _ := cmd.Flags().GetString("train"); v != "" {
		cfg.Data.Train = v
	}
	if v, _ := cmd.Flags().GetString("test"); v != "" {
		cfg.Data.Test = v
	}

	if err := internal.InitScope(scope, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized workspace at %s\n", scope.BocPath)
	return nil
}
