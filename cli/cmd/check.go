package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/annals/lang"
	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/scribe"
)

// Check validates grammar documents.
type Check struct {
	Strict bool `help:"Treat references to undefined cognates as errors."`
}

// Run executes the check command.
//
// Every source is loaded independently so that one invalid document does
// not hide problems in the others. Undefined references are reported only
// once all sources have loaded.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src := sourceFilesFrom(ctx)
	if src == nil || src.IsZero() {
		return ErrNoSource
	}

	w := outputFrom(ctx)
	s := scribe.New(scribe.WithLogger(log.Default()))
	failed := 0

	for path := range src.Sources() {
		if err := loadSource(ctx, s, path); err != nil {
			failed++

			if err := report(w, path, err); err != nil {
				return err
			}
		}
	}

	undefined := s.Undefined()
	for _, ref := range undefined {
		_, err := fmt.Fprintf(w, "warning: cognate %q refers to undefined %q\n",
			ref.Cognate, ref.Name)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	if c.Strict {
		failed += len(undefined)
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("errors", failed),
			slog.Int("undefined", len(undefined)),
		)
	}

	rules := 0
	for cog := range s.Cognates() {
		rules += cog.Len()
	}

	_, err = fmt.Fprintf(w, "ok: %d cognates, %d rules\n", s.Len(), rules)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// report writes one load failure. Rule syntax errors are followed by a
// caret diagnostic.
func report(w io.Writer, path string, err error) error {
	_, werr := fmt.Fprintf(w, "%s: %v\n", path, err)

	var perr *lang.ParseError
	if werr == nil && errors.As(err, &perr) && perr.HasSpan() {
		_, werr = io.WriteString(w, perr.Diagnostic())
	}

	if werr != nil {
		return ErrWriteOutput.Wrap(werr)
	}

	return nil
}
