package scribe

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/annals/lang"
)

// evaluator carries the state of one top-level generation call.
type evaluator struct {
	ctx    context.Context
	scribe *Scribe
	state  *Context
	chain  []string // cognates currently being expanded, outermost first
}

func (s *Scribe) evaluator(ctx context.Context, c *Context) *evaluator {
	return &evaluator{ctx: ctx, scribe: s, state: c}
}

// eval concatenates the evaluation of every token.
func (e *evaluator) eval(tokens []lang.Token) (string, error) {
	var sb strings.Builder

	for _, tok := range tokens {
		s, err := e.token(tok)
		if err != nil {
			return "", err
		}

		sb.WriteString(s)
	}

	return sb.String(), nil
}

func (e *evaluator) token(tok lang.Token) (string, error) {
	switch t := tok.(type) {
	case lang.Literal:
		return t.Text, nil

	case lang.NonTerminal:
		if v, ok := e.state.Binding(t.Name); ok {
			return v, nil
		}

		return e.expand(t.Name)

	case lang.StickyNonTerminal:
		if v, ok := e.state.Binding(t.Name); ok {
			return v, nil
		}

		v, err := e.expand(t.Name)
		if err != nil {
			return "", err
		}

		// Bound in the enclosing scope so later references reuse it.
		e.state.Bind(t.Name, v)

		return v, nil

	case lang.Binding:
		v, ok := e.state.Binding(t.Name)
		if !ok {
			return "", ErrUnboundVariable.With(slog.String("name", t.Name))
		}

		return v, nil

	case lang.Expression:
		v, err := e.token(t.Inner)
		if err != nil || v == "" {
			return "", err
		}

		if fn := e.scribe.transforms[t.Command]; fn != nil {
			v = fn(v)
		}

		return v, nil

	case lang.Range:
		n := t.Upper - t.Lower
		if n <= 0 {
			return "", ErrInvalidRule.With(slog.String("literal", t.String()))
		}

		return strconv.Itoa(t.Lower + e.state.intN(n)), nil

	case lang.VariableAssignment:
		if _, ok := e.state.Binding(t.Name); ok {
			return "", nil
		}

		v, err := e.expand(t.Rule)
		if err != nil {
			return "", err
		}

		e.state.Bind(t.Name, v)

		return v, nil

	default:
		return "", ErrUnknownToken.With(slog.String("type", fmt.Sprintf("%T", tok)))
	}
}

// expand selects a rule of the named cognate and evaluates it in a new
// binding scope.
func (e *evaluator) expand(name string) (string, error) {
	if err := e.ctx.Err(); err != nil {
		return "", ErrCanceled.Wrap(err).With(slog.String("name", name))
	}

	if len(e.chain) >= e.scribe.maxDepth {
		return "", ErrMaxDepthExceeded.With(
			slog.Int("depth", len(e.chain)),
			slog.Int("max_depth", e.scribe.maxDepth),
			slog.String("chain", strings.Join(slices.Concat(e.chain, []string{name}), " → ")),
		)
	}

	e.chain = append(e.chain, name)
	e.state.Descend()

	defer func() {
		e.state.Ascend()
		e.chain = e.chain[:len(e.chain)-1]
	}()

	rule, err := e.scribe.SelectRule(name, e.state)
	if err != nil {
		return "", err
	}

	e.scribe.logger.TraceContext(e.ctx, "expand",
		slog.String("name", name),
		slog.Int("depth", len(e.chain)),
		slog.String("rule", rule.literal),
	)

	return e.eval(rule.tokens)
}
