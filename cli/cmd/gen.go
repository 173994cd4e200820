package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/scribe"
)

// Gen generates samples from a cognate.
type Gen struct {
	Scope scope `embed:""`

	Name     string `arg:""        help:"Cognate to generate."                                          name:"name"`
	Count    int    `default:"1"   help:"Number of samples to generate."                                short:"n"`
	Jobs     int    `default:"1"   help:"Number of samples generated concurrently."                     short:"j"`
	Where    string `              help:"Keep only samples for which the expression is true."           short:"w"`
	Attempts int    `default:"100" help:"Attempts per sample to satisfy --where before giving up."`
}

// candidate is the environment of a --where expression.
type candidate struct {
	Text   string            `expr:"text"`
	Tags   map[string]string `expr:"tags"`
	Length int               `expr:"length"`
}

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadScribe(ctx, true, g.Scope.options()...)
	if err != nil {
		return err
	}

	where, err := compileWhere(g.Where)
	if err != nil {
		return err
	}

	base := g.Scope.context()
	out := make([]string, max(0, g.Count))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(max(1, g.Jobs))

	for i := range out {
		grp.Go(func() error {
			text, err := g.sample(gctx, s, base, where, i)
			out[i] = text

			return err
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}

	log.DebugContext(ctx, "generated samples",
		slog.String("name", g.Name),
		slog.Int("count", len(out)),
		slog.Int("jobs", g.Jobs),
	)

	return writeLines(outputFrom(ctx), out)
}

// sample generates the i-th sample, retrying until where accepts it.
func (g *Gen) sample(
	ctx context.Context,
	s *scribe.Scribe,
	base *scribe.Context,
	where *vm.Program,
	i int,
) (string, error) {
	r := g.Scope.rand(uint64(i)) //nolint:gosec

	for attempt := range max(1, g.Attempts) {
		c := derive(base, r)

		text, err := s.GenerateWith(ctx, g.Name, c)
		if err != nil {
			return "", err
		}

		ok, err := accept(where, text, c)
		if err != nil {
			return "", err
		}

		if ok {
			return text, nil
		}

		log.TraceContext(ctx, "sample rejected",
			slog.Int("sample", i),
			slog.Int("attempt", attempt),
			slog.String("text", text),
		)
	}

	return "", ErrNoMatch.With(
		slog.String("where", g.Where),
		slog.Int("sample", i),
		slog.Int("attempts", max(1, g.Attempts)),
	)
}

// compileWhere compiles a --where expression. An empty expression compiles
// to nil, which accepts every sample.
func compileWhere(src string) (*vm.Program, error) {
	if src == "" {
		return nil, nil
	}

	prog, err := expr.Compile(src, expr.Env(candidate{}), expr.AsBool())
	if err != nil {
		return nil, ErrWhere.Wrap(err).With(slog.String("where", src))
	}

	return prog, nil
}

// accept reports whether prog holds for text generated under c.
func accept(prog *vm.Program, text string, c *scribe.Context) (bool, error) {
	if prog == nil {
		return true, nil
	}

	v, err := expr.Run(prog, candidate{
		Text:   text,
		Tags:   c.Tags(),
		Length: utf8.RuneCountInString(text),
	})
	if err != nil {
		return false, ErrWhere.Wrap(err).With(slog.String("text", text))
	}

	ok, _ := v.(bool)

	return ok, nil
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
