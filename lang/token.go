package lang

//go:generate go tool stringer --linecomment --type Command --output command_string.go

import (
	"strconv"
	"strings"
)

// Token is one parsed unit of a rule.
//
// The set of implementations is closed: [Literal], [NonTerminal],
// [StickyNonTerminal], [Binding], [Expression], [Range] and
// [VariableAssignment]. Consumers dispatch with a type switch.
type Token interface {
	// String renders the token in rule syntax, such that parsing the
	// result yields an equal token.
	String() string

	token()
}

// Literal is verbatim output text with escapes already removed.
type Literal struct {
	Text string
}

// NonTerminal references a cognate to expand in place.
type NonTerminal struct {
	Name string
}

// StickyNonTerminal references a cognate whose first expansion is reused for
// every later reference to the same name within the enclosing scope.
type StickyNonTerminal struct {
	Name string
}

// Binding reads a previously bound variable.
type Binding struct {
	Name string
}

// Expression applies a text command to the evaluation of Inner.
type Expression struct {
	Inner   Token
	Command Command
}

// Range emits a uniformly random integer in [Lower, Upper).
type Range struct {
	Lower int
	Upper int
}

// VariableAssignment expands the cognate Rule and binds the result to Name.
type VariableAssignment struct {
	Name string
	Rule string
}

func (Literal) token()            {}
func (NonTerminal) token()        {}
func (StickyNonTerminal) token()  {}
func (Binding) token()            {}
func (Expression) token()         {}
func (Range) token()              {}
func (VariableAssignment) token() {}

func (t Literal) String() string { return escaper.Replace(t.Text) }

func (t NonTerminal) String() string { return "<" + t.Name + ">" }

func (t StickyNonTerminal) String() string { return "<!" + t.Name + ">" }

func (t Binding) String() string { return "<@" + t.Name + ">" }

func (t Expression) String() string { return "<" + t.body() + ">" }

func (t Range) String() string {
	return "<#" + strconv.Itoa(t.Lower) + "-" + strconv.Itoa(t.Upper) + ">"
}

func (t VariableAssignment) String() string {
	return "<$" + t.Name + ":" + t.Rule + ">"
}

// body renders the expression without its enclosing brackets so that nested
// expressions compose as "(an (cap animal))".
func (t Expression) body() string {
	inner := ""

	switch in := t.Inner.(type) {
	case Expression:
		inner = in.body()
	case nil:
	default:
		inner = strings.TrimSuffix(strings.TrimPrefix(in.String(), "<"), ">")
	}

	return "(" + t.Command.String() + " " + inner + ")"
}

// Format renders a token sequence back into rule syntax.
func Format(tokens []Token) string {
	var sb strings.Builder

	for _, tok := range tokens {
		sb.WriteString(tok.String())
	}

	return sb.String()
}

var (
	escaper   = strings.NewReplacer("<", `\<`, ">", `\>`)
	unescaper = strings.NewReplacer(`\<`, "<", `\>`, ">")
)

// Command is a text transform applied by an [Expression].
type Command int

const (
	Capitalize        Command = iota // capitalize
	Lowercase                        // lowercase
	Titlecase                        // titlecase
	IndefiniteArticle                // an
)

// commandKeyword maps every accepted keyword to its command.
var commandKeyword = map[string]Command{
	"cap":        Capitalize,
	"capitalize": Capitalize,
	"low":        Lowercase,
	"lowercase":  Lowercase,
	"title":      Titlecase,
	"titlecase":  Titlecase,
	"a":          IndefiniteArticle,
	"an":         IndefiniteArticle,
}

// ParseCommand returns the command named by keyword.
func ParseCommand(keyword string) (Command, bool) {
	cmd, ok := commandKeyword[keyword]

	return cmd, ok
}

// Commands returns every command in declaration order.
func Commands() []Command {
	return []Command{Capitalize, Lowercase, Titlecase, IndefiniteArticle}
}
