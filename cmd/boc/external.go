package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/4thel00z/centroids/internal"
)

// Executables named boc-<name> on PATH run as "boc <name>".
const pluginPrefix = "boc-"

func findPlugin(name string) (string, error) {
	path, err := exec.LookPath(pluginPrefix + name)
	if err != nil {
		return "", fmt.Errorf("unknown command %q: %s%s not found in PATH", name, pluginPrefix, name)
	}
	return path, nil
}

// listPlugins returns the sorted names of all boc-* executables on PATH.
func listPlugins() []string {
	seen := make(map[string]bool)
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if name := pluginName(dir, entry); name != "" {
				seen[name] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pluginName(dir string, entry os.DirEntry) string {
	if entry.IsDir() || !strings.HasPrefix(entry.Name(), pluginPrefix) {
		return ""
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil || info.Mode()&0111 == 0 {
		return ""
	}
	return strings.TrimPrefix(entry.Name(), pluginPrefix)
}

func runPlugin(ctx context.Context, name string, args []string, version string) error {
	path, err := findPlugin(name)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = pluginEnv(version, internal.NewScopeResolver().Resolve(""))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// pluginEnv tells a plugin where the binary and the active workspace live.
func pluginEnv(version string, scope internal.Scope) []string {
	bin, _ := os.Executable()
	return append(os.Environ(),
		"BOC_VERSION="+version,
		"BOC_BIN="+bin,
		"BOC_ROOT="+scope.Path,
		"BOC_CONFIG="+scope.ConfigPath(),
		"BOC_CENTROIDS="+scope.CentroidsPath(),
	)
}
