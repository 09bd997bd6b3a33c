package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/4thel00z/centroids/internal"
	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	if tryPlugin(ctx) {
		return
	}

	rootCmd := NewRootCmd(version, newApp(os.Stderr))
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

func tryPlugin(ctx context.Context) bool {
	if len(os.Args) < 2 {
		return false
	}

	name := os.Args[1]
	if name == "" || name[0] == '-' {
		return false
	}
	if _, err := findPlugin(name); err != nil {
		return false
	}

	if err := runPlugin(ctx, name, os.Args[2:], version); err != nil {
		fmt.Fprintf(os.Stderr, "boc %s: %v\n", name, err)
		os.Exit(1)
	}
	return true
}

// app holds the use cases. They are wired once the persistent flags are
// parsed, since the logger depends on --json and --verbose.
type app struct {
	resolver *internal.ScopeResolver
	logOut   io.Writer
	uc       *internal.UseCases
}

func newApp(logOut io.Writer) *app {
	return &app{
		resolver: internal.NewScopeResolver(),
		logOut:   logOut,
	}
}

func (a *app) wire(asJSON, verbose bool) {
	log := internal.NewLogger(a.logOut, asJSON, verbose)

	var downloader *internal.Downloader
	if cacheDir, err := internal.DefaultCacheDir(); err == nil {
		downloader = internal.NewDownloader(cacheDir, os.Getenv("BOC_VECTORS_TOKEN"))
	}

	a.uc = internal.NewUseCases(a.resolver, downloader, log)
}

func (a *app) useCases() *internal.UseCases {
	if a.uc == nil {
		a.wire(false, false)
	}
	return a.uc
}
