package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/annals/lang"
	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/scribe"
)

const defaultEditor = "vi"

// ErrEditDeclined is returned when the user declines to fix a grammar that
// failed to load.
var ErrEditDeclined = errors.New("decline edit")

// editGrammarCommand implements [tea.ExecCommand] for the grammar
// edit-load-retry loop. It saves the current grammar to a temp file, opens
// the user's editor, and loads the result into a new [scribe.Scribe]. On a
// load error the user is prompted to re-edit; declining exits the program.
type editGrammarCommand struct {
	scribe  *scribe.Scribe
	opts    []scribe.Option
	ctxFunc func() context.Context
	result  *scribe.Scribe
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editGrammarCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editGrammarCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editGrammarCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. An emptied file cancels the edit
// and leaves result nil.
func (c *editGrammarCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.scribe.Save(ctx, &buf); err != nil {
		return err
	}

	content := buf.Bytes()

	f, err := os.CreateTemp(os.TempDir(), "annals-repl-*.yml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		next := scribe.New(c.opts...)
		loadErr := next.LoadReader(ctx, bytes.NewReader(data))

		c.logger.TraceContext(
			ctx,
			"editor load attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.result = next

			return nil
		}

		fmt.Fprintf(c.stderr, "\nLoad error: %s\n", loadErr)

		var perr *lang.ParseError
		if errors.As(loadErr, &perr) && perr.HasSpan() {
			fmt.Fprint(c.stderr, perr.Diagnostic())
		}

		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = data
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
