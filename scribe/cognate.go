package scribe

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/ardnew/annals/lang"
)

// Cognate is a named grammar entry: every alternative a reference to the name
// may expand to, organized into groups.
type Cognate struct {
	name   string
	groups []*Group
}

// NewCognate returns a cognate with the given groups.
// The name must be usable in a rule substitution.
func NewCognate(name string, groups ...*Group) (*Cognate, error) {
	if !lang.ValidName(name) {
		return nil, ErrInvalidName.With(slog.String("name", name))
	}

	return &Cognate{name: name, groups: slices.Clone(groups)}, nil
}

// AddGroup appends g to the cognate.
// Cognates must not be modified once inserted into a [Scribe].
func (c *Cognate) AddGroup(g *Group) { c.groups = append(c.groups, g) }

// Name returns the cognate's name.
func (c *Cognate) Name() string { return c.name }

// Groups iterates the cognate's groups in order.
func (c *Cognate) Groups() iter.Seq[*Group] { return slices.Values(c.groups) }

// Len returns the total number of rules across all groups.
func (c *Cognate) Len() int {
	n := 0
	for _, g := range c.groups {
		n += len(g.rules)
	}

	return n
}
