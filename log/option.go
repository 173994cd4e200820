package log

import (
	"io"
	"time"
)

// Option adjusts the configuration of a [Logger] being made or wrapped.
type Option func(*config)

// with returns a copy of c with opts applied in order.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithOutput sets the writer records are written to.
// A nil writer discards every record.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithVerbosity lowers the minimum level by n steps from its current value.
// See [Verbosity].
func WithVerbosity(n int) Option {
	return func(c *config) { c.level = Verbosity(c.level, n) }
}

// WithFormat sets the record format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout sets the timestamp layout.
//
// Named layouts from the [time] package are matched ignoring case and
// punctuation, so "RFC3339Nano" and "rfc3339-nano" are the same. Any other
// layout is passed to [time.Time.Format] unchanged. A blank layout or
// "none" removes timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.stamp = stampFunc(layout) }
}

// WithCaller controls whether records carry the source location of the
// logging call.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty controls whether records are colored for a terminal.
// JSON records are also indented.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

// Tracing configures a logger for following an expansion one substitution
// at a time: [LevelTrace], the caller of each record, and timestamps with
// microseconds.
func Tracing() Option {
	return func(c *config) {
		c.level = LevelTrace
		c.caller = true
		c.stamp = stampFunc(time.StampMicro)
	}
}
