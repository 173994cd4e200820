package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Substitution hint styles.
var (
	formStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	formSigilStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	currentPartStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// form describes the syntax of the substitution being typed: its parts in
// order and the index of the part under the cursor.
type form struct {
	parts   []string
	sigil   int // index of the sigil part, or -1
	current int
	note    string
}

// describe returns the form of a substitution whose body so far is body.
func describe(body string) form {
	switch {
	case strings.HasPrefix(body, "("):
		cur := 1
		if strings.Contains(body, " ") {
			cur = 3
		}

		return form{
			parts:   []string{"(", "command", " ", "text", ")"},
			sigil:   0,
			current: cur,
			note:    "capitalize, lowercase, titlecase or an",
		}

	case strings.HasPrefix(body, "!"):
		return form{
			parts:   []string{"!", "cognate"},
			sigil:   0,
			current: 1,
			note:    "first expansion is reused in this scope",
		}

	case strings.HasPrefix(body, "@"):
		return form{
			parts:   []string{"@", "variable"},
			sigil:   0,
			current: 1,
			note:    "value of a bound variable",
		}

	case strings.HasPrefix(body, "#"):
		cur := 1
		if strings.Contains(body, "-") {
			cur = 3
		}

		return form{
			parts:   []string{"#", "lower", "-", "upper"},
			sigil:   0,
			current: cur,
			note:    "random integer, upper bound excluded",
		}

	case strings.HasPrefix(body, "$"):
		cur := 1
		if strings.Contains(body, ":") {
			cur = 3
		}

		return form{
			parts:   []string{"$", "variable", ":", "cognate"},
			sigil:   0,
			current: cur,
			note:    "bind an expansion of cognate",
		}
	}

	return form{
		parts:   []string{"cognate"},
		sigil:   -1,
		current: 0,
		note:    "expand a cognate",
	}
}

// renderHint renders f wrapped in angle brackets with the part under the
// cursor highlighted.
func renderHint(f form) string {
	var b strings.Builder

	b.WriteString(formStyle.Render("<"))

	for i, part := range f.parts {
		switch i {
		case f.current:
			b.WriteString(currentPartStyle.Render(part))
		case f.sigil:
			b.WriteString(formSigilStyle.Render(part))
		default:
			b.WriteString(formStyle.Render(part))
		}
	}

	b.WriteString(formStyle.Render(">"))

	if f.note != "" {
		b.WriteString(hintStyle.Render("  " + f.note))
	}

	return b.String()
}
