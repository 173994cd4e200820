package lang

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "literal only",
			input: "Hello, world!",
			want:  []Token{Literal{Text: "Hello, world!"}},
		},
		{
			name:  "escaped brackets",
			input: `Expr with \<escaped brackets\>`,
			want:  []Token{Literal{Text: "Expr with <escaped brackets>"}},
		},
		{
			name:  "nonterminal between literals",
			input: "Hello, <name>!",
			want: []Token{
				Literal{Text: "Hello, "},
				NonTerminal{Name: "name"},
				Literal{Text: "!"},
			},
		},
		{
			name:  "adjacent substitutions",
			input: "<a><b>",
			want:  []Token{NonTerminal{Name: "a"}, NonTerminal{Name: "b"}},
		},
		{
			name:  "binding",
			input: "<@speaker> says",
			want:  []Token{Binding{Name: "speaker"}, Literal{Text: " says"}},
		},
		{
			name:  "sticky",
			input: "<!hero> met <!hero>",
			want: []Token{
				StickyNonTerminal{Name: "hero"},
				Literal{Text: " met "},
				StickyNonTerminal{Name: "hero"},
			},
		},
		{
			name:  "range",
			input: "<#1-100>",
			want:  []Token{Range{Lower: 1, Upper: 100}},
		},
		{
			name:  "assignment then read",
			input: "<$x:leaf><@x>",
			want: []Token{
				VariableAssignment{Name: "x", Rule: "leaf"},
				Binding{Name: "x"},
			},
		},
		{
			name:  "command",
			input: "<(an animal)>",
			want: []Token{
				Expression{Inner: NonTerminal{Name: "animal"}, Command: IndefiniteArticle},
			},
		},
		{
			name:  "command aliases",
			input: "<(capitalize @x)><(title !y)>",
			want: []Token{
				Expression{Inner: Binding{Name: "x"}, Command: Capitalize},
				Expression{Inner: StickyNonTerminal{Name: "y"}, Command: Titlecase},
			},
		},
		{
			name:  "nested commands",
			input: "<(an (cap animal))>",
			want: []Token{
				Expression{
					Inner: Expression{
						Inner:   NonTerminal{Name: "animal"},
						Command: Capitalize,
					},
					Command: IndefiniteArticle,
				},
			},
		},
		{
			name:  "command trims inner whitespace",
			input: "<(low   thing )>",
			want: []Token{
				Expression{Inner: NonTerminal{Name: "thing"}, Command: Lowercase},
			},
		},
		{
			name:  "unicode names",
			input: "¡<héroe_1-b>!",
			want: []Token{
				Literal{Text: "¡"},
				NonTerminal{Name: "héroe_1-b"},
				Literal{Text: "!"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     Kind
		beg, end int
	}{
		{"empty", "", KindEmptyRule, 0, 0},
		{"lone open", "<", KindUnbalancedBrackets, 0, 0},
		{"lone close", ">", KindUnbalancedBrackets, 0, 0},
		{"open open", "<<", KindUnbalancedBrackets, 0, 0},
		{"extra close", "<>>", KindUnbalancedBrackets, 0, 0},
		{"unterminated sticky", "Hello <!", KindUnbalancedBrackets, 0, 0},
		{"nested open", "<<>>", KindUnbalancedBrackets, 1, 2},
		{"close before open", "><", KindUnbalancedBrackets, 0, 1},
		{"zero length", "<>", KindZeroLengthSubst, 1, 2},
		{"zero length after text", "ab<>", KindZeroLengthSubst, 3, 4},
		{"zero length pair", "<><>", KindZeroLengthSubst, 1, 2},
		{"zero length command", "<()>", KindZeroLengthSubst, 2, 3},
		{"bare binding sigil", "<@>", KindInvalidName, 1, 2},
		{"bare sticky sigil", "<!>", KindInvalidName, 1, 2},
		{"punctuation", "<,>", KindInvalidName, 1, 2},
		{"space in binding", "<@some binding>", KindInvalidName, 1, 14},
		{"rune offsets", "é<@x y>", KindInvalidName, 2, 6},
		{"assignment without rule", "<$x>", KindInvalidName, 1, 3},
		{"assignment empty side", "<$:leaf>", KindInvalidName, 1, 7},
		{"assignment two colons", "<$a:b:c>", KindInvalidName, 1, 7},
		{"unknown command", "<(foo x)>", KindUnknownCommand, 2, 5},
		{"command without space", "<(cap)>", KindInvalidExpression, 1, 6},
		{"unknown command without space", "<(foo)>", KindInvalidExpression, 1, 6},
		{"command with empty body", "<(cap )>", KindZeroLengthSubst, 6, 7},
		{"unclosed paren", "<(cap x>", KindInvalidExpression, 1, 7},
		{"two groups", "<(cap x) (low y)>", KindInvalidExpression, 1, 16},
		{"range not numeric", "<#1-x>", KindInvalidRange, 1, 5},
		{"range reversed", "<#5-1>", KindInvalidRange, 1, 5},
		{"range empty", "<#3-3>", KindInvalidRange, 1, 5},
		{"range extra dash", "<#1-2-3>", KindInvalidRange, 1, 7},
		{"range no dash", "<#12>", KindInvalidRange, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want %v", tt.input, tt.kind)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error %T is not *ParseError", tt.input, err)
			}

			if perr.Kind != tt.kind {
				t.Errorf("Parse(%q) kind = %v, want %v", tt.input, perr.Kind, tt.kind)
			}

			if beg, end := perr.Span(); beg != tt.beg || end != tt.end {
				t.Errorf("Parse(%q) span = (%d,%d), want (%d,%d)",
					tt.input, beg, end, tt.beg, tt.end)
			}

			if perr.Source != tt.input {
				t.Errorf("Parse(%q) source = %q", tt.input, perr.Source)
			}
		})
	}
}

func TestParse_ErrorsIs(t *testing.T) {
	_, err := Parse("<@>")
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("errors.Is(%v, ErrInvalidName) = false", err)
	}

	if errors.Is(err, ErrInvalidRange) {
		t.Errorf("errors.Is(%v, ErrInvalidRange) = true", err)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		"plain text",
		`with \<escaped\> brackets`,
		"Hello, <name>!",
		"<@speaker> said <!greeting> <#1-10> times",
		"<$pet:animal>, <(an (capitalize @pet))>",
		"<(lowercase (titlecase thing))>",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tokens, err := Parse(input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", input, err)
			}

			if got := Format(tokens); got != input {
				t.Errorf("Format(Parse(%q)) = %q", input, got)
			}

			again, err := Parse(Format(tokens))
			if err != nil {
				t.Fatalf("reparse: %v", err)
			}

			if diff := cmp.Diff(tokens, again); diff != "" {
				t.Errorf("reparse mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

func TestParseCommand(t *testing.T) {
	for keyword, want := range commandKeyword {
		got, ok := ParseCommand(keyword)
		if !ok || got != want {
			t.Errorf("ParseCommand(%q) = %v, %v; want %v", keyword, got, ok, want)
		}
	}

	if _, ok := ParseCommand("shout"); ok {
		t.Error("ParseCommand(shout) accepted an unknown keyword")
	}

	if got := len(Commands()); got != 4 {
		t.Errorf("len(Commands()) = %d, want 4", got)
	}
}

func TestValidName(t *testing.T) {
	tests := map[string]bool{
		"animal":    true,
		"big-cat_2": true,
		"ñandú":     true,
		"":          false,
		"two words": false,
		"@x":        false,
		"a:b":       false,
	}

	for name, want := range tests {
		if got := ValidName(name); got != want {
			t.Errorf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	const rule = "<(cap @speaker)> saw <(an (low animal))> near the <!place> " +
		`about <#1-100> \<times\> and called it <$pet:name>.`

	b.ReportAllocs()

	for b.Loop() {
		if _, err := Parse(rule); err != nil {
			b.Fatal(err)
		}
	}
}
