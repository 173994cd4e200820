package scribe

import (
	"log/slog"
	"slices"

	"github.com/ardnew/annals/lang"
)

// Rule is one alternative of a cognate: the rule literal together with its
// parsed tokens. A Rule is immutable once constructed.
type Rule struct {
	literal string
	tokens  []lang.Token
}

// NewRule parses text into a Rule.
// A parse failure is reported as [ErrInvalidRule] wrapping the
// [*lang.ParseError].
func NewRule(text string) (*Rule, error) {
	tokens, err := lang.Parse(text)
	if err != nil {
		return nil, ErrInvalidRule.Wrap(err).With(slog.String("literal", text))
	}

	return &Rule{literal: text, tokens: tokens}, nil
}

// MustRule is like [NewRule] but panics if text does not parse.
func MustRule(text string) *Rule {
	r, err := NewRule(text)
	if err != nil {
		panic(err)
	}

	return r
}

// Literal returns the rule text exactly as it was given.
func (r *Rule) Literal() string { return r.literal }

// Tokens returns a copy of the parsed token sequence.
func (r *Rule) Tokens() []lang.Token { return slices.Clone(r.tokens) }

func (r *Rule) String() string { return r.literal }
