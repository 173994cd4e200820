package cmd

import (
	"context"
	"log/slog"
)

// Fmt loads the grammar and writes it back in normal form: cognates sorted by
// name, rules written as their literals.
type Fmt struct {
	YAML YAML `cmd:"" default:"withargs" help:"Format as YAML (default)."`
	JSON JSON `cmd:""                    help:"Format as JSON."`
}

// YAML formats the grammar as YAML.
type YAML struct{}

// Run executes the yaml command.
func (*YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadScribe(ctx, true)
	if err != nil {
		return err
	}

	if err := s.Save(ctx, outputFrom(ctx)); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// JSON formats the grammar as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output. Zero writes compact JSON." short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadScribe(ctx, true)
	if err != nil {
		return err
	}

	if err := s.SaveJSON(outputFrom(ctx), j.Indent); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", "json"))
	}

	return nil
}
