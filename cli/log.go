package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/annals/log"
)

// defaultLogLevel is the level of the command line logger. Generated text is
// written to stdout and the REPL draws on the terminal, so only problems are
// logged unless asked for with --log-level or -v.
const defaultLogLevel = log.LevelWarn

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level   logLevel  `default:"${logLevel}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Verbose int       `help:"Increase log verbosity (-vvv traces every substitution)." short:"v" type:"counter"`
	Format  logFormat `default:"${logFormat}" enum:"${logFormatEnum}" help:"Set log format."`
	Pretty  bool      `default:"true"                                 help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":      defaultLogLevel.String(),
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":     log.FormatText.String(),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// level returns the level selected by --log-level raised by each -v.
func (f *logConfig) level() log.Level {
	return log.Verbosity(log.ParseLevel(string(f.Level)), f.Verbose)
}

// options returns the logger configuration selected by the flags. Reaching
// trace level switches to [log.Tracing].
func (f *logConfig) options() []log.Option {
	opts := []log.Option{
		log.WithLevel(f.level()),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithPretty(f.Pretty),
	}

	if f.level() == log.LevelTrace {
		opts = append(opts, log.Tracing())
	}

	return opts
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(f.options()...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", f.level().String()),
		slog.String("format", string(f.Format)),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the logger flags found in args before kong parses them, so
// messages logged while parsing already use them. It recognizes
// --log-level, --log-format, --[no-]log-pretty and runs of -v. Only the
// package logger is changed; kong fills the flags themselves.
func (f logConfig) scan(args []string) {
	f.Level = logLevel(defaultLogLevel.String())
	f.Format = logFormat(log.FormatText.String())
	f.Pretty = true

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		if isVerboseRun(arg) {
			f.Verbose += len(arg) - 1

			continue
		}

		name, value, assigned := strings.Cut(arg, "=")

		switch name {
		case "--log-level", "--log-format":
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			if name == "--log-level" {
				f.Level = logLevel(value)
			} else {
				f.Format = logFormat(value)
			}

		case "--log-verbose":
			f.Verbose++

		case "--log-pretty", "--no-log-pretty":
			on := true
			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			f.Pretty = on == (name == "--log-pretty")
		}
	}

	log.Config(f.options()...)
}

// isVerboseRun reports whether arg is a short flag made only of v's.
func isVerboseRun(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' &&
		strings.Trim(arg[1:], "v") == ""
}
