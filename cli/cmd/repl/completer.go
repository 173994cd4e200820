package repl

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/annals/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "tag", "untag", "bind", "unbind",
	"seed", "context", "edit", "clear", "quit",
}

// isWordBoundary returns true if the rune cannot appear in a name.
// Hyphens are part of names (e.g., first-name).
func isWordBoundary(r rune) bool {
	return !lang.ValidName(string(r))
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// after a sigil, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// openSubstitution returns the text between the innermost unclosed '<'
// before pos and pos. The result is false when pos is not inside a
// substitution.
func openSubstitution(input string, pos int) (string, bool) {
	open := -1

	for i := 0; i < pos && i < len(input); i++ {
		if input[i] == '\\' {
			i++

			continue
		}

		switch input[i] {
		case '<':
			open = i
		case '>':
			open = -1
		}
	}

	if open < 0 {
		return "", false
	}

	return input[open+1 : min(pos, len(input))], true
}

// substitutionSlot classifies the position of a word inside a substitution
// from the body text preceding it.
type substitutionSlot int

const (
	slotNone    substitutionSlot = iota
	slotCognate                  // <name>, <!name>, <$x:name>
	slotBinding                  // <@name>
	slotCommand                  // <(keyword ...)>
)

// slotOf returns the slot of the word that follows prefix inside a
// substitution body.
func slotOf(prefix string) substitutionSlot {
	switch {
	case prefix == "", prefix == "!":
		return slotCognate

	case prefix == "@":
		return slotBinding

	case prefix == "(":
		return slotCommand

	case strings.HasPrefix(prefix, "("):
		// Skip the keyword; the rest is an ordinary body.
		_, inner, ok := strings.Cut(strings.TrimPrefix(prefix, "("), " ")
		if !ok {
			return slotNone
		}

		return slotOf(strings.TrimLeft(inner, " "))

	case strings.HasPrefix(prefix, "$") && strings.HasSuffix(prefix, ":"):
		return slotCognate
	}

	return slotNone
}

// completions returns the names that are valid completions for the word
// starting at wordStart.
func (m model) completions(input string, wordStart int) []string {
	if m.mode == modeCtrl {
		return m.ctrlCandidates(input, wordStart)
	}

	body, ok := openSubstitution(input, wordStart)
	if !ok {
		// A bare cognate name is generated directly.
		if strings.TrimSpace(input[:wordStart]) == "" {
			return m.cognateNames()
		}

		return nil
	}

	switch slotOf(body) {
	case slotCognate:
		return m.cognateNames()

	case slotBinding:
		return slices.Sorted(maps.Keys(m.session.Bindings()))

	case slotCommand:
		var names []string
		for _, c := range lang.Commands() {
			names = append(names, c.String())
		}

		return names
	}

	return nil
}

// ctrlCandidates completes command names and the keys their arguments name.
func (m model) ctrlCandidates(input string, wordStart int) []string {
	fields := strings.Fields(input[:wordStart])

	switch {
	case len(fields) == 0:
		return ctrlCommands

	case len(fields) > 1:
		return nil

	case fields[0] == "untag":
		return slices.Sorted(maps.Keys(m.session.Tags()))

	case fields[0] == "unbind":
		return slices.Sorted(maps.Keys(m.session.Bindings()))
	}

	return nil
}

func (m model) cognateNames() []string {
	var names []string

	for cog := range m.scribe.Cognates() {
		names = append(names, cog.Name())
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word produces no matches so the hint line stays
// visible, except directly after a sigil where every candidate is offered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	candidates = m.completions(input, wordStart)
	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if _, inside := openSubstitution(input, wordStart); !inside {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}

// formatPreview summarizes a cognate for the list command.
func formatPreview(groups, rules int, tags []string) string {
	s := fmt.Sprintf("%d groups, %d rules", groups, rules)
	if len(tags) > 0 {
		s += " [" + strings.Join(tags, " ") + "]"
	}

	return s
}
