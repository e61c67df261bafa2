// Package logger builds the [slog.Logger] of the service from its options.
// Invalid options fall back to their defaults with a warning instead of failing.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	LogLevel  string `doc:"log from debug, info, warn or error"`
	LogFile   string `doc:"append logs to file"`
	LogFormat string `doc:"format logs as text or json"         default:"text"`
	LogSource bool   `doc:"add the source file and line to logs"`
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New returns a logger writing to stdout, or appending to options.LogFile.
// A log file of [os.DevNull] discards every record.
// Options that cannot be used are reset in place and reported once the logger exists.
func New(options *Options) *slog.Logger {
	var warnings []slog.Attr

	opts := &slog.HandlerOptions{AddSource: options.LogSource}
	if options.LogLevel != "" {
		level, ok := levels[strings.ToLower(options.LogLevel)]
		if ok {
			opts.Level = level
		} else {
			warnings = append(warnings, slog.String("level", options.LogLevel))
			options.LogLevel = ""
		}
	}

	newHandler := func(w io.Writer, opts *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, opts) }
	switch strings.ToLower(options.LogFormat) {
	case "text":
	case "json":
		newHandler = func(w io.Writer, opts *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, opts) }
	default:
		warnings = append(warnings, slog.String("format", options.LogFormat))
		options.LogFormat = "text"
	}

	var output io.Writer = os.Stdout
	switch options.LogFile {
	case "", "-":
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		f, err := os.OpenFile(options.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			warnings = append(warnings, slog.String("file", options.LogFile), slog.Any("err", err))
			options.LogFile = ""
		} else {
			output = f
		}
	}

	logger := slog.New(newHandler(output, opts))
	if len(warnings) > 0 {
		logger.LogAttrs(context.Background(), slog.LevelWarn, "ignored logger options", warnings...)
	}
	return logger
}

// Component returns a child of parent whose records carry the component name.
func Component(parent *slog.Logger, name string) *slog.Logger {
	return parent.With(slog.String("component", name))
}
