package scribe

import (
	"cmp"
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/annals/lang"
	"github.com/ardnew/annals/log"
)

// Scribe holds a grammar of cognates and generates text from it.
//
// Cognates are inserted while loading and treated as read-only afterwards,
// so one Scribe may serve concurrent generation calls as long as each call
// has its own [Context].
type Scribe struct {
	mutex      sync.RWMutex
	cognates   map[string]*Cognate
	transforms map[lang.Command]Transform
	logger     log.Logger
	maxDepth   int
}

// New returns an empty Scribe configured with opts.
func New(opts ...Option) *Scribe {
	s := &Scribe{}

	applyDefaults(s)
	applyOptions(s, opts...)

	return s
}

// Insert adds cognates to the grammar. A cognate replaces any existing
// cognate with the same name.
func (s *Scribe) Insert(cognates ...*Cognate) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, c := range cognates {
		s.cognates[c.name] = c
	}
}

// Remove deletes the named cognate and reports whether it existed.
func (s *Scribe) Remove(name string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, ok := s.cognates[name]
	delete(s.cognates, name)

	return ok
}

// Cognate returns the named cognate.
func (s *Scribe) Cognate(name string) (*Cognate, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c, ok := s.cognates[name]

	return c, ok
}

// Cognates iterates every cognate in name order.
func (s *Scribe) Cognates() iter.Seq[*Cognate] {
	s.mutex.RLock()
	names := slices.Sorted(maps.Keys(s.cognates))
	list := make([]*Cognate, len(names))

	for i, name := range names {
		list[i] = s.cognates[name]
	}
	s.mutex.RUnlock()

	return slices.Values(list)
}

// Len returns the number of cognates in the grammar.
func (s *Scribe) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.cognates)
}

// MaxDepth returns the maximum nesting of expansions in one generation.
func (s *Scribe) MaxDepth() int { return s.maxDepth }

// Generate expands the named cognate under a fresh [Context].
func (s *Scribe) Generate(ctx context.Context, name string) (string, error) {
	return s.GenerateWith(ctx, name, NewContext())
}

// GenerateWith expands the named cognate under c.
//
// Bindings made during the call are undone before it returns. Tags merged
// from selected groups remain on c.
func (s *Scribe) GenerateWith(
	ctx context.Context,
	name string,
	c *Context,
) (string, error) {
	if c == nil {
		c = NewContext()
	}

	out, err := s.evaluator(ctx, c).expand(name)

	return s.done(ctx, "generate", name, out, err)
}

// Expand parses text as a rule and evaluates it under a fresh [Context].
// References in text resolve against the grammar.
func (s *Scribe) Expand(ctx context.Context, text string) (string, error) {
	return s.ExpandWith(ctx, text, NewContext())
}

// ExpandWith parses text as a rule and evaluates it under c.
func (s *Scribe) ExpandWith(
	ctx context.Context,
	text string,
	c *Context,
) (string, error) {
	rule, err := NewRule(text)
	if err != nil {
		return "", err
	}

	if c == nil {
		c = NewContext()
	}

	c.Descend()
	defer c.Ascend()

	out, err := s.evaluator(ctx, c).eval(rule.tokens)

	return s.done(ctx, "expand", text, out, err)
}

// done logs the outcome of a top-level call.
func (s *Scribe) done(
	ctx context.Context,
	op, subject, out string,
	err error,
) (string, error) {
	if err != nil {
		s.logger.DebugContext(ctx, op+" failed",
			slog.String("subject", subject),
			slog.Any("error", err),
		)

		return "", err
	}

	s.logger.DebugContext(ctx, op,
		slog.String("subject", subject),
		slog.Int("length", len(out)),
	)

	return out, nil
}

// SelectRule chooses a rule of the named cognate that is compatible with the
// tags of c, and merges the tags of the rule's group into c.
//
// Each rule of every accepted group is equally likely, so a group's chance of
// selection is proportional to its number of rules. A nil c selects as an
// empty context would and the merged tags are discarded.
func (s *Scribe) SelectRule(name string, c *Context) (*Rule, error) {
	if c == nil {
		c = NewContext()
	}

	cog, ok := s.Cognate(name)
	if !ok {
		return nil, ErrUnknownCognate.With(slog.String("name", name))
	}

	if len(cog.groups) == 0 {
		return nil, ErrEmptyCognate.With(slog.String("name", name))
	}

	accepted := make([]*Group, 0, len(cog.groups))
	total := 0

	for _, g := range cog.groups {
		if c.Accepts(g) {
			accepted = append(accepted, g)
			total += len(g.rules)
		}
	}

	if len(accepted) == 0 {
		return nil, ErrNoSuitableGroups.With(
			slog.String("name", name),
			slog.Any("tags", c.Tags()),
		)
	}

	if total == 0 {
		return nil, ErrEmptyCognate.With(slog.String("name", name))
	}

	index := c.intN(total)

	s.logger.Trace("select rule",
		slog.String("name", name),
		slog.Int("groups", len(cog.groups)),
		slog.Int("accepted", len(accepted)),
		slog.Int("rules", total),
		slog.Int("index", index),
	)

	for _, g := range accepted {
		if index < len(g.rules) {
			c.MergeFrom(g)

			return g.rules[index], nil
		}

		index -= len(g.rules)
	}

	// The index is drawn from [0, total) so the walk always ends above.
	return nil, ErrEmptyCognate.With(slog.String("name", name))
}

// Reference is a substitution in a rule of Cognate naming another cognate.
type Reference struct {
	Cognate string
	Name    string
}

// Undefined returns every reference to a cognate that is absent from the
// grammar, ordered by referring cognate then by name.
//
// A non-terminal reference may still be satisfied at run time by a binding
// of the same name, so these are not necessarily errors.
func (s *Scribe) Undefined() []Reference {
	var refs []Reference

	for cog := range s.Cognates() {
		seen := map[string]bool{}

		for _, g := range cog.groups {
			for _, r := range g.rules {
				for _, name := range references(r.tokens) {
					if seen[name] {
						continue
					}

					seen[name] = true

					if _, ok := s.Cognate(name); !ok {
						refs = append(refs, Reference{Cognate: cog.name, Name: name})
					}
				}
			}
		}
	}

	slices.SortStableFunc(refs, func(a, b Reference) int {
		return cmp.Or(
			cmp.Compare(a.Cognate, b.Cognate),
			cmp.Compare(a.Name, b.Name),
		)
	})

	return refs
}

// references returns the cognate names tokens refer to.
func references(tokens []lang.Token) []string {
	var names []string

	var walk func(lang.Token)

	walk = func(tok lang.Token) {
		switch t := tok.(type) {
		case lang.NonTerminal:
			names = append(names, t.Name)
		case lang.StickyNonTerminal:
			names = append(names, t.Name)
		case lang.VariableAssignment:
			names = append(names, t.Rule)
		case lang.Expression:
			walk(t.Inner)
		}
	}

	for _, tok := range tokens {
		walk(tok)
	}

	return names
}
