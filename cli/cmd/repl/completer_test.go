package repl

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/scribe"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_open", "a <fo", 5, "fo", 3, 5},
		{"after_sigil", "<!fo", 4, "fo", 2, 4},
		{"after_binding_sigil", "<@na", 4, "na", 2, 4},
		{"after_colon", "<$x:ani", 7, "ani", 4, 7},
		{"after_space", "the fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a <", 3, "", 3, 3},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"cursor_past_end", "foo", 9, "foo", 0, 3},
		// Hyphens are part of names, not word boundaries.
		{"hyphenated", "<first-name", 11, "first-name", 1, 11},
		{"hyphenated_partial", "<first-na", 9, "first-na", 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestOpenSubstitution(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		pos      int
		wantBody string
		wantOK   bool
	}{
		{"plain_text", "a red fox", 9, "", false},
		{"open", "a <ani", 6, "ani", true},
		{"closed", "a <animal> ", 11, "", false},
		{"second_open", "<a> and <!b", 11, "!b", true},
		{"escaped_open", `a \<ani`, 7, "", false},
		{"nested_command", "<(capitalize <ani", 17, "ani", true},
		{"empty_body", "<", 1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ok := openSubstitution(tt.input, tt.pos)
			if body != tt.wantBody || ok != tt.wantOK {
				t.Errorf("openSubstitution(%q, %d) = (%q, %v), want (%q, %v)",
					tt.input, tt.pos, body, ok, tt.wantBody, tt.wantOK)
			}
		})
	}
}

func TestSlotOf(t *testing.T) {
	tests := []struct {
		prefix string
		want   substitutionSlot
	}{
		{"", slotCognate},
		{"!", slotCognate},
		{"@", slotBinding},
		{"(", slotCommand},
		{"$who:", slotCognate},
		{"$who", slotNone},
		{"#", slotNone},
		{"(capitalize ", slotCognate},
		{"(capitalize @", slotBinding},
		{"(an", slotNone},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := slotOf(tt.prefix); got != tt.want {
				t.Errorf("slotOf(%q) = %d, want %d", tt.prefix, got, tt.want)
			}
		})
	}
}

func testModel(t *testing.T) model {
	t.Helper()

	s := scribe.New()
	if err := s.LoadString(context.Background(), `
- name: animal
  groups:
    - tags: { size: small }
      rules: [cat, dog]
- name: anthem
  groups:
    - rules: [a song]
- name: color
  groups:
    - rules: [red]
`); err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	session := scribe.NewContext()
	session.Bind("hero", "Ada")

	return newModel(
		context.Background(), s, session, NewHistory(""), log.Config(),
	)
}

func TestModel_Completions(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string
	}{
		{"bare_name", modeEval, "an", []string{"animal", "anthem", "color"}},
		{"after_text", modeEval, "the an", nil},
		{"inside_substitution", modeEval, "the <an", []string{"animal", "anthem", "color"}},
		{"binding", modeEval, "<@h", []string{"hero"}},
		{"command", modeCtrl, "he", ctrlCommands},
		{"unbind_arg", modeCtrl, "unbind h", []string{"hero"}},
		{"extra_arg", modeCtrl, "tag a=b c", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.mode = tt.mode
			_, start, _ := wordBounds(tt.input, len(tt.input))

			got := m.completions(tt.input, start)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("completions(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestModel_ComputeMatches(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("<anl")
	m.input.SetCursor(4)

	matches, _, start, end := m.computeMatches()
	if start != 1 || end != 4 {
		t.Errorf("word bounds = (%d, %d), want (1, 4)", start, end)
	}

	if len(matches) != 1 || matches[0].Str != "animal" {
		t.Errorf("matches = %v, want [animal]", matches)
	}

	// Directly after a sigil every candidate is offered.
	m.input.SetValue("<!")
	m.input.SetCursor(2)

	matches, _, _, _ = m.computeMatches()
	if len(matches) != 3 {
		t.Errorf("len(matches) = %d, want 3", len(matches))
	}

	// An empty word outside a substitution offers nothing.
	m.input.SetValue("")
	m.input.SetCursor(0)

	matches, _, _, _ = m.computeMatches()
	if len(matches) != 0 {
		t.Errorf("len(matches) = %d, want 0", len(matches))
	}
}

func TestFormatPreview(t *testing.T) {
	got := formatPreview(2, 5, []string{"kind=bird", "size=big"})
	want := "2 groups, 5 rules [kind=bird size=big]"

	if got != want {
		t.Errorf("formatPreview() = %q, want %q", got, want)
	}

	if got := formatPreview(1, 1, nil); got != "1 groups, 1 rules" {
		t.Errorf("formatPreview() = %q", got)
	}
}
