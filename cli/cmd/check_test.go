package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckRun(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.yml", animalsDoc)
	dangling := writeSource(t, dir, "dangling.yml", `
- name: story
  groups:
    - rules: ["the <hero> met <(an animal)>"]
`)
	broken := writeSource(t, dir, "broken.yml", `
- name: broken
  groups:
    - rules: [fine, "Hello <@some binding>!"]
`)

	tests := []struct {
		name    string
		check   Check
		sources []string
		want    []string
		wantErr bool
	}{
		{
			name:    "valid",
			sources: []string{good},
			want:    []string{"ok: 2 cognates, 4 rules"},
		},
		{
			name:    "undefined_warns",
			sources: []string{good, dangling},
			want:    []string{`warning: cognate "story" refers to undefined "hero"`, "ok: 3 cognates"},
		},
		{
			name:    "undefined_strict",
			check:   Check{Strict: true},
			sources: []string{good, dangling},
			want:    []string{`undefined "hero"`},
			wantErr: true,
		},
		{
			name:    "syntax_error_reported",
			sources: []string{broken, good},
			want:    []string{broken + ":", "invalid rule", "^"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, tt.sources...)

			err := tt.check.Run(ctx)
			if tt.wantErr {
				if !errors.Is(err, ErrCheckFailed) {
					t.Errorf("Check.Run() error = %v, want ErrCheckFailed", err)
				}
			} else if err != nil {
				t.Errorf("Check.Run() error = %v", err)
			}

			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestCheckRequiresSource(t *testing.T) {
	ctx, _ := testContext(t)

	if err := (&Check{}).Run(ctx); !errors.Is(err, ErrNoSource) {
		t.Errorf("Check.Run() error = %v, want ErrNoSource", err)
	}
}
