package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/scribe"
)

// Expand evaluates rule text against the grammar.
type Expand struct {
	Scope scope `embed:""`

	Text  []string `arg:""      help:"Rule text to expand. Words are joined with spaces." name:"text"`
	Count int      `default:"1" help:"Number of expansions."                              short:"n"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text := strings.Join(e.Text, " ")

	// Report syntax errors before any grammar is read.
	if _, err := scribe.NewRule(text); err != nil {
		return err
	}

	s, err := loadScribe(ctx, false, e.Scope.options()...)
	if err != nil {
		return err
	}

	base := e.Scope.context()
	out := make([]string, max(0, e.Count))

	for i := range out {
		out[i], err = s.ExpandWith(ctx, text, derive(base, e.Scope.rand(uint64(i)))) //nolint:gosec
		if err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "expanded text",
		slog.String("text", text),
		slog.Int("count", len(out)),
	)

	return writeLines(outputFrom(ctx), out)
}
