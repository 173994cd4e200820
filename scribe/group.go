package scribe

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
)

// Group is a tag-labeled set of rules within a cognate.
type Group struct {
	tags  map[string]string
	note  string
	rules []*Rule
}

// NewGroup parses every literal into a rule of a new group.
// Construction is all-or-nothing: the first literal that fails to parse
// aborts it, and the error identifies that literal by index.
func NewGroup(tags map[string]string, literals ...string) (*Group, error) {
	g := &Group{
		tags:  maps.Clone(tags),
		rules: make([]*Rule, 0, len(literals)),
	}

	for i, lit := range literals {
		r, err := NewRule(lit)
		if err != nil {
			return nil, WrapError(err).With(slog.Int("rule", i))
		}

		g.rules = append(g.rules, r)
	}

	return g, nil
}

// WithNote returns a copy of g carrying the given free-text note.
func (g *Group) WithNote(note string) *Group {
	c := *g
	c.note = note

	return &c
}

// Note returns the group's free-text note.
func (g *Group) Note() string { return g.note }

// Tag returns the value of the tag key.
func (g *Group) Tag(key string) (string, bool) {
	v, ok := g.tags[key]

	return v, ok
}

// Tags returns a copy of the group's tags.
func (g *Group) Tags() map[string]string { return maps.Clone(g.tags) }

// Rules iterates the group's rules in order.
func (g *Group) Rules() iter.Seq[*Rule] { return slices.Values(g.rules) }

// Len returns the number of rules in the group.
func (g *Group) Len() int { return len(g.rules) }
