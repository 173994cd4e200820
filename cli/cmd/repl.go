package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/annals/cli/cmd/repl"
	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/scribe"
)

// Repl starts an interactive session over the grammar.
type Repl struct {
	Scope scope `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := append(
		[]scribe.Option{scribe.WithLogger(log.Default())},
		r.Scope.options()...,
	)

	s, err := loadScribe(ctx, false, opts...)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	session := r.Scope.context()
	session.SetRand(r.Scope.rand(0))

	log.DebugContext(ctx, "starting repl",
		slog.Int("cognates", s.Len()),
		slog.String("cache", cacheDir),
	)

	return repl.Run(ctx, s, session, cacheDir, log.Default(), opts...)
}
