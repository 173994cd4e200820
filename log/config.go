package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)  // trace
	LevelDebug Level = Level(slog.LevelDebug) // debug
	LevelInfo  Level = Level(slog.LevelInfo)  // info
	LevelWarn  Level = Level(slog.LevelWarn)  // warn
	LevelError Level = Level(slog.LevelError) // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// Levels returns an iterator over all defined log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range slices.Backward(verbosity) {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// verbosity lists the levels from least to most verbose.
var verbosity = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}

// Verbosity returns the level n steps more verbose than base, stopping at
// [LevelTrace]. A negative n steps toward [LevelError]. A base between two
// named levels counts from the next more verbose one.
//
// The engine writes one record per substitution at [LevelTrace] and one
// per generate or expand call at [LevelDebug], so two steps from
// [LevelWarn] show operations and three show every substitution.
func Verbosity(base Level, n int) Level {
	i := slices.IndexFunc(verbosity, func(l Level) bool { return l <= base })
	if i < 0 {
		i = len(verbosity) - 1
	}

	return verbosity[max(0, min(i+n, len(verbosity)-1))]
}

// ParseLevel returns the level named by s, ignoring case and surrounding
// space. Besides the names of the defined levels, s may be any form
// accepted by [slog.Level.UnmarshalText], such as "debug+2". Anything else
// yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	for _, level := range verbosity {
		if strings.EqualFold(s, level.String()) {
			return level
		}
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// UnmarshalText implements encoding.TextUnmarshaler so levels can be read
// from flags and configuration files.
func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

var formats = []Format{FormatJSON, FormatText}

// Formats returns an iterator over all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range formats {
			if !yield(format.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format named by s, ignoring case and surrounding
// space, or [DefaultFormat] if s names none.
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)

	for _, format := range formats {
		if strings.EqualFold(s, format.String()) {
			return format
		}
	}

	return DefaultFormat
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	*f = ParseFormat(string(text))

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// stamper formats the time of a record. An empty result drops the time.
type stamper func(time.Time) string

// DefaultTimeLayout is the timestamp layout of a new [Logger].
const DefaultTimeLayout = time.RFC3339

// DefaultPretty reports whether a new [Logger] colors its records.
const DefaultPretty = true

// config is the immutable configuration of a [Logger]. Options apply to a
// copy, so a config is never modified after its handler is built.
type config struct {
	output io.Writer
	stamp  stamper
	level  Level
	format Format
	caller bool
	pretty bool
}

// defaultConfig returns the configuration of a new [Logger] writing to w.
func defaultConfig(w io.Writer) config {
	return config{
		stamp:  stampFunc(DefaultTimeLayout),
		level:  DefaultLevel,
		format: DefaultFormat,
		pretty: DefaultPretty,
	}.with(WithOutput(w))
}

// handler builds the slog.Handler described by c.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.format == FormatJSON && c.pretty:
		return newPrettyJSONHandler(c.output, opts)
	case c.format == FormatText && c.pretty:
		return newPrettyTextHandler(c.output, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)
	}

	return slog.DiscardHandler
}

// replaceAttr applies the time layout and names [LevelTrace] records TRACE
// rather than DEBUG-4.
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			break
		}

		s := c.stamp(t)
		if s == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(s)

	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
		}
	}

	return a
}

// namedLayouts maps normalized names to the layouts of the [time] package.
var namedLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
	"stampnano":   time.StampNano,
	"ns":          time.StampNano,
	"none":        "",
}

// stampFunc returns the stamper for layout. See [WithTimeLayout].
func stampFunc(layout string) stamper {
	key := strings.Map(
		func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				return r
			case r >= 'A' && r <= 'Z':
				return r - 'A' + 'a'
			}

			return -1
		},
		layout,
	)

	if named, ok := namedLayouts[key]; ok {
		layout = named
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
