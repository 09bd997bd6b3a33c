package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/4thel00z/centroids/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd(uc func() *internal.TrainUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Retrain when the data changes",
		Long: `Watch the training data, the test data and the centroid map and rerun
"boc train" whenever one of them changes.`,
		Args: cobra.NoArgs,
		RunE: makeWatchRunner(uc),
	}

	addTrainFlags(cmd)
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching changes")
	return cmd
}

func makeWatchRunner(uc func() *internal.TrainUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		input := trainInput(cmd)

		scope := internal.NewScopeResolver().Resolve(input.Scope)
		if !scope.Initialized() {
			return fmt.Errorf("not initialized: %s", scope.BocPath)
		}
		cfg, err := internal.LoadConfig(scope)
		if err != nil {
			return err
		}

		watched := watchedFiles(scope, cfg, input)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		for _, dir := range watchedDirs(watched) {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %d files for changes...\n", len(watched))

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event, watched) {
					continue
				}
				if !pending {
					timer.Reset(debounce)
					pending = true
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				pending = false
				out, trainErr := uc().Execute(cmd.Context(), input)
				if trainErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "train: %v\n", trainErr)
					continue
				}
				printTrainOutput(cmd, out)
			}
		}
	}
}

// watchedFiles returns the absolute paths whose changes trigger a retrain.
func watchedFiles(scope internal.Scope, cfg *internal.Config, input internal.TrainInput) map[string]bool {
	train := cfg.Data.Train
	if input.TrainPath != "" {
		train = input.TrainPath
	}
	test := cfg.Data.Test
	if input.TestPath != "" {
		test = input.TestPath
	}

	files := make(map[string]bool)
	for _, p := range []string{scope.Abs(train), scope.Abs(test), scope.CentroidsPath()} {
		if abs, err := filepath.Abs(p); err == nil {
			files[abs] = true
		}
	}
	return files
}

func watchedDirs(files map[string]bool) []string {
	seen := make(map[string]bool)
	var dirs []string
	for f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// shouldIgnoreEvent drops events for files other than the watched ones, which
// includes the prediction files written next to the data.
func shouldIgnoreEvent(event fsnotify.Event, watched map[string]bool) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return true
	}
	return !watched[name]
}
