// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("grammar loaded", slog.Int("cognates", 12))
//	logger.Error("generate failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package-level functions write through a shared default logger that
// [Config] and [SetDefault] replace.
//
// # Adding Attributes
//
// Attributes added with [Logger.With] are included in all subsequent
// messages:
//
//	logger = logger.With(slog.String("component", "scribe"))
//	logger.Info("ready") // includes component=scribe
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant. The
// context-unaware variants use [DefaultContextProvider], which returns
// [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Trace records every rule
// selection made while generating text and is very verbose.
//
// [Verbosity] steps a level toward Trace, and [Tracing] configures a
// logger for reading an expansion record by record.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. With [WithPretty] enabled, records are colored for a
// terminal using lipgloss; JSON records are also indented. Output to a
// writer that is not a terminal carries no escape sequences.
package log
