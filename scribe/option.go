package scribe

import (
	"github.com/ardnew/annals/lang"
	"github.com/ardnew/annals/log"
)

// DefaultMaxDepth is the default maximum depth of nested expansions.
// Users may modify this before constructing a [Scribe] to change the default.
var DefaultMaxDepth = 100

// Option configures a [Scribe].
type Option func(*Scribe)

// WithMaxDepth sets the maximum number of nested cognate expansions a single
// generation may reach. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(s *Scribe) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(s *Scribe) {
		s.logger = logger
	}
}

// WithTransform replaces the text transform applied by cmd.
// A nil fn restores the built-in transform.
func WithTransform(cmd lang.Command, fn Transform) Option {
	return func(s *Scribe) {
		if fn == nil {
			fn = defaultTransforms[cmd]
		}

		s.transforms[cmd] = fn
	}
}

// applyDefaults sets default option values on a Scribe.
func applyDefaults(s *Scribe) {
	s.maxDepth = DefaultMaxDepth
	s.cognates = map[string]*Cognate{}
	s.transforms = make(map[lang.Command]Transform, len(defaultTransforms))

	for cmd, fn := range defaultTransforms {
		s.transforms[cmd] = fn
	}
}

// applyOptions applies functional options to a Scribe.
func applyOptions(s *Scribe, opts ...Option) {
	for _, opt := range opts {
		opt(s)
	}
}
