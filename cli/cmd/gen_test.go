package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/ardnew/annals/scribe"
)

func TestGenRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeSource(t, t.TempDir(), "animals.yml", animalsDoc)

	tests := []struct {
		name    string
		gen     Gen
		allowed []string
		lines   int
		wantErr error
	}{
		{
			name:    "single",
			gen:     Gen{Name: "animal", Count: 1, Jobs: 1},
			allowed: []string{"elephant", "whale", "mouse"},
			lines:   1,
		},
		{
			name:    "tagged",
			gen:     Gen{Name: "animal", Count: 5, Jobs: 2, Scope: scope{Tag: map[string]string{"size": "small"}}},
			allowed: []string{"mouse"},
			lines:   5,
		},
		{
			name:    "where",
			gen:     Gen{Name: "animal", Count: 4, Jobs: 4, Attempts: 200, Where: `tags.size == "big" && length > 5`},
			allowed: []string{"elephant"},
			lines:   4,
		},
		{
			name:    "where_text",
			gen:     Gen{Name: "sighting", Count: 3, Jobs: 1, Attempts: 200, Where: `text contains "an "`},
			allowed: []string{"look, an elephant!"},
			lines:   3,
		},
		{
			name:    "no_match",
			gen:     Gen{Name: "animal", Count: 2, Jobs: 1, Attempts: 5, Where: `text == "zebra"`},
			wantErr: ErrNoMatch,
		},
		{
			name:    "bad_where",
			gen:     Gen{Name: "animal", Count: 1, Where: `text +`},
			wantErr: ErrWhere,
		},
		{
			name:    "unknown_cognate",
			gen:     Gen{Name: "plant", Count: 1},
			wantErr: scribe.ErrUnknownCognate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, path)

			err := tt.gen.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Gen.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Gen.Run() error = %v", err)
			}

			lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
			if len(lines) != tt.lines {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), tt.lines, out)
			}

			for _, line := range lines {
				if !contains(tt.allowed, line) {
					t.Errorf("line %q not in %q", line, tt.allowed)
				}
			}
		})
	}
}

// TestGenSeeded tests that a seeded run is reproducible regardless of the
// number of concurrent jobs.
func TestGenSeeded(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeSource(t, t.TempDir(), "animals.yml", animalsDoc)

	run := func(jobs int) string {
		ctx, out := testContext(t, path)

		g := Gen{Name: "animal", Count: 16, Jobs: jobs, Scope: scope{Seed: 1234}}
		if err := g.Run(ctx); err != nil {
			t.Fatalf("Gen.Run() error = %v", err)
		}

		return out.String()
	}

	serial := run(1)

	if diff := cmp.Diff(serial, run(8)); diff != "" {
		t.Errorf("concurrent run differs (-serial +concurrent):\n%s", diff)
	}
}

func TestGenRequiresSource(t *testing.T) {
	ctx, _ := testContext(t)

	if err := (&Gen{Name: "animal", Count: 1}).Run(ctx); !errors.Is(err, ErrNoSource) {
		t.Errorf("Gen.Run() error = %v, want ErrNoSource", err)
	}
}

func TestCompileWhere(t *testing.T) {
	prog, err := compileWhere("")
	if err != nil || prog != nil {
		t.Fatalf("compileWhere(\"\") = %v, %v", prog, err)
	}

	ok, err := accept(nil, "anything", scribe.NewContext())
	if err != nil || !ok {
		t.Errorf("accept(nil) = %v, %v", ok, err)
	}

	// A non-boolean expression is rejected at compile time.
	if _, err := compileWhere("length + 1"); !errors.Is(err, ErrWhere) {
		t.Errorf("compileWhere(non-bool) error = %v, want ErrWhere", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
