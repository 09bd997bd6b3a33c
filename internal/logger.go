package internal

import (
	"io"
	"log/slog"
)

// NewLogger returns a text (or JSON) slog logger writing to w at info level,
// or debug level when verbose is set.
func NewLogger(w io.Writer, asJSON, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NopLogger discards every record.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// debugWriter adapts a logger to an io.Writer so third-party training output
// ends up as debug records.
type debugWriter struct {
	log *slog.Logger
	src string
}

func (w debugWriter) Write(p []byte) (int, error) {
	w.log.Debug(string(p), "source", w.src)
	return len(p), nil
}
