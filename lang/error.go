package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"log/slog"
	"strconv"
	"strings"
)

// Kind identifies the reason a rule failed to parse.
type Kind int

const (
	KindEmptyRule          Kind = iota // empty rule
	KindInternalError                  // internal error
	KindInvalidExpression              // invalid expression
	KindInvalidName                    // invalid name
	KindInvalidRange                   // invalid range
	KindUnbalancedBrackets             // unbalanced brackets
	KindUnknownCommand                 // unknown command
	KindZeroLengthSubst                // zero-length substitution
)

// Sentinel parse errors, matched by [Kind] with errors.Is.
var (
	ErrEmptyRule          = &ParseError{Kind: KindEmptyRule}
	ErrInternalError      = &ParseError{Kind: KindInternalError}
	ErrInvalidExpression  = &ParseError{Kind: KindInvalidExpression}
	ErrInvalidName        = &ParseError{Kind: KindInvalidName}
	ErrInvalidRange       = &ParseError{Kind: KindInvalidRange}
	ErrUnbalancedBrackets = &ParseError{Kind: KindUnbalancedBrackets}
	ErrUnknownCommand     = &ParseError{Kind: KindUnknownCommand}
	ErrZeroLengthSubst    = &ParseError{Kind: KindZeroLengthSubst}
)

// ParseError describes why a rule literal could not be parsed.
//
// Beg and End are a half-open span of rune offsets into Source. Errors that
// concern the rule as a whole (an empty rule, mismatched bracket counts) have
// an empty span.
type ParseError struct {
	Source string
	Kind   Kind
	Beg    int
	End    int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.String())

	if e.HasSpan() {
		sb.WriteString(" at ")
		sb.WriteString(strconv.Itoa(e.Beg))
		sb.WriteString("..")
		sb.WriteString(strconv.Itoa(e.End))
	}

	if e.Source != "" {
		sb.WriteString(" in ")
		sb.WriteString(strconv.Quote(e.Source))
	}

	return sb.String()
}

// Is reports whether target is a *ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)

	return ok && t.Kind == e.Kind
}

// HasSpan reports whether the error points at a specific region of Source.
func (e *ParseError) HasSpan() bool { return e.End > e.Beg }

// Span returns the half-open rune span of the offending text.
func (e *ParseError) Span() (beg, end int) { return e.Beg, e.End }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("error", e.Kind.String())}

	if e.HasSpan() {
		attrs = append(attrs, slog.Int("beg", e.Beg), slog.Int("end", e.End))
	}

	if e.Source != "" {
		attrs = append(attrs, slog.String("rule", e.Source))
	}

	return slog.GroupValue(attrs...)
}

// Diagnostic renders the source on one line and a caret marker under the
// offending span on the next. Multi-line sources are reduced to the line
// containing the start of the span.
func (e *ParseError) Diagnostic() string {
	src := []rune(e.Source)

	// Locate the line holding Beg.
	lineBeg, lineEnd := 0, len(src)

	for i, r := range src {
		if r != '\n' {
			continue
		}

		if i < e.Beg {
			lineBeg = i + 1
		} else {
			lineEnd = i

			break
		}
	}

	var sb strings.Builder

	sb.WriteString(string(src[lineBeg:lineEnd]))
	sb.WriteRune('\n')

	if !e.HasSpan() {
		return sb.String()
	}

	// Preserve tabs so the marker lines up under tab-indented text.
	for _, r := range src[lineBeg:min(e.Beg, lineEnd)] {
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}

	end := min(e.End, lineEnd)
	sb.WriteString(strings.Repeat("^", max(1, end-e.Beg)))
	sb.WriteRune('\n')

	return sb.String()
}

func newParseError(kind Kind, source string, beg, end int) *ParseError {
	return &ParseError{
		Source: source,
		Kind:   kind,
		Beg:    beg,
		End:    end,
	}
}
