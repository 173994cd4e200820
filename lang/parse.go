package lang

import (
	"strconv"
	"strings"
	"unicode"
)

// Sigils that select the substitution form of a name.
const (
	sigilBinding = '@'
	sigilSticky  = '!'
	sigilRange   = '#'
	sigilAssign  = '$'
)

// Parse splits a rule literal into its token sequence.
//
// Literal runs are returned with escaped brackets resolved. An empty rule, or
// one whose unescaped brackets do not pair up, fails before any substitution
// is examined.
func Parse(expr string) ([]Token, error) {
	if expr == "" {
		return nil, newParseError(KindEmptyRule, expr, 0, 0)
	}

	p := &parser{expr: expr, src: []rune(expr)}

	if !p.balanced() {
		return nil, newParseError(KindUnbalancedBrackets, expr, 0, 0)
	}

	return p.parse()
}

type parser struct {
	expr string
	src  []rune
}

// escaped reports whether the rune at i is preceded by a backslash.
func (p *parser) escaped(i int) bool {
	return i > 0 && p.src[i-1] == '\\'
}

func (p *parser) balanced() bool {
	var open, shut int

	for i, r := range p.src {
		if p.escaped(i) {
			continue
		}

		switch r {
		case '<':
			open++
		case '>':
			shut++
		}
	}

	return open == shut
}

func (p *parser) parse() ([]Token, error) {
	var tokens []Token

	start, open := 0, -1

	for i, r := range p.src {
		if p.escaped(i) {
			continue
		}

		switch r {
		case '<':
			if open >= 0 {
				return nil, p.fail(KindUnbalancedBrackets, i, i+1)
			}

			tokens = p.flush(tokens, start, i)
			open = i

		case '>':
			if open < 0 {
				return nil, p.fail(KindUnbalancedBrackets, i, i+1)
			}

			tok, err := p.classify(open+1, i)
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, tok)
			start, open = i+1, -1
		}
	}

	if open >= 0 {
		return nil, p.fail(KindUnbalancedBrackets, open, len(p.src))
	}

	return p.flush(tokens, start, len(p.src)), nil
}

// flush appends the literal run src[beg:end], if any.
func (p *parser) flush(tokens []Token, beg, end int) []Token {
	if end <= beg {
		return tokens
	}

	return append(tokens, Literal{Text: unescaper.Replace(string(p.src[beg:end]))})
}

// classify validates the substitution body src[beg:end] and returns the
// token it denotes.
func (p *parser) classify(beg, end int) (Token, error) {
	if end <= beg {
		return nil, p.fail(KindZeroLengthSubst, beg, beg+1)
	}

	if p.src[beg] == '(' {
		return p.command(beg, end)
	}

	sigil, name := rune(0), beg
	if strings.ContainsRune("@!#$", p.src[beg]) {
		sigil, name = p.src[beg], beg+1
	}

	if name == end {
		return nil, p.fail(KindInvalidName, beg, end)
	}

	for _, r := range p.src[name:end] {
		if !isNameRune(r) && (sigil != sigilAssign || r != ':') {
			return nil, p.fail(KindInvalidName, beg, end)
		}
	}

	text := string(p.src[name:end])

	if sigil == sigilAssign && strings.Count(text, ":") != 1 {
		return nil, p.fail(KindInvalidName, beg, end)
	}

	switch sigil {
	case sigilBinding:
		return Binding{Name: text}, nil
	case sigilSticky:
		return StickyNonTerminal{Name: text}, nil
	case sigilRange:
		return p.rangeOf(text, beg, end)
	case sigilAssign:
		return p.assign(text, beg, end)
	default:
		return NonTerminal{Name: text}, nil
	}
}

// command parses a parenthesized "(keyword rest)" body. The keyword and
// rest are separated by the first space.
func (p *parser) command(beg, end int) (Token, error) {
	depth := 0

	for i, r := range p.src[beg:end] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}

		// The opening paren must be closed by the final rune and no other.
		if depth < 0 || (depth == 0 && beg+i != end-1) {
			return nil, p.fail(KindInvalidExpression, beg, end)
		}
	}

	if depth != 0 {
		return nil, p.fail(KindInvalidExpression, beg, end)
	}

	inBeg, inEnd := beg+1, end-1
	if inEnd <= inBeg {
		return nil, p.fail(KindZeroLengthSubst, inBeg, inBeg+1)
	}

	kwEnd := inBeg
	for kwEnd < inEnd && p.src[kwEnd] != ' ' {
		kwEnd++
	}

	// A keyword must be followed by a space and its body.
	if kwEnd == inEnd {
		return nil, p.fail(KindInvalidExpression, beg, end)
	}

	cmd, ok := ParseCommand(string(p.src[inBeg:kwEnd]))
	if !ok {
		return nil, p.fail(KindUnknownCommand, inBeg, kwEnd)
	}

	restBeg, restEnd := kwEnd, inEnd
	for restBeg < restEnd && unicode.IsSpace(p.src[restBeg]) {
		restBeg++
	}

	for restEnd > restBeg && unicode.IsSpace(p.src[restEnd-1]) {
		restEnd--
	}

	inner, err := p.classify(restBeg, restEnd)
	if err != nil {
		return nil, err
	}

	return Expression{Inner: inner, Command: cmd}, nil
}

func (p *parser) rangeOf(text string, beg, end int) (Token, error) {
	if strings.Count(text, "-") != 1 {
		return nil, p.fail(KindInvalidRange, beg, end)
	}

	lo, hi, _ := strings.Cut(text, "-")

	lower, err := strconv.Atoi(lo)
	if err != nil {
		return nil, p.fail(KindInvalidRange, beg, end)
	}

	upper, err := strconv.Atoi(hi)
	if err != nil || lower >= upper {
		return nil, p.fail(KindInvalidRange, beg, end)
	}

	return Range{Lower: lower, Upper: upper}, nil
}

func (p *parser) assign(text string, beg, end int) (Token, error) {
	name, rule, ok := strings.Cut(text, ":")
	if !ok {
		return nil, p.fail(KindInternalError, beg, end)
	}

	if name == "" || rule == "" {
		return nil, p.fail(KindInvalidName, beg, end)
	}

	return VariableAssignment{Name: name, Rule: rule}, nil
}

func (p *parser) fail(kind Kind, beg, end int) *ParseError {
	return newParseError(kind, p.expr, beg, end)
}

// isNameRune reports whether r may appear in a cognate or binding name.
func isNameRune(r rune) bool {
	return r == '-' ||
		unicode.In(r, unicode.L, unicode.Nd, unicode.Mn, unicode.Mc, unicode.Pc)
}

// ValidName reports whether s is usable as a cognate or binding name.
func ValidName(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isNameRune(r) {
			return false
		}
	}

	return true
}
