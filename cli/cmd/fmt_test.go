package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/annals/scribe"
)

// TestFmtYAMLRoundTrip tests that formatted output loads back into the same
// grammar and is already in normal form.
func TestFmtYAMLRoundTrip(t *testing.T) {
	path := writeSource(t, t.TempDir(), "animals.yml", animalsDoc)
	ctx, out := testContext(t, path)

	if err := (&YAML{}).Run(ctx); err != nil {
		t.Fatalf("YAML.Run() error = %v", err)
	}

	first := out.String()
	if !strings.HasPrefix(strings.TrimSpace(first), "- name: animal") {
		t.Errorf("output does not start with the first cognate:\n%s", first)
	}

	// Formatting the output again changes nothing.
	again := writeSource(t, t.TempDir(), "formatted.yml", first)
	ctx, out = testContext(t, again)

	if err := (&YAML{}).Run(ctx); err != nil {
		t.Fatalf("YAML.Run() on formatted output error = %v", err)
	}

	if diff := cmp.Diff(first, out.String()); diff != "" {
		t.Errorf("formatting is not idempotent (-first +second):\n%s", diff)
	}
}

func TestFmtJSON(t *testing.T) {
	path := writeSource(t, t.TempDir(), "animals.yml", animalsDoc)

	for _, indent := range []int{0, 4} {
		ctx, out := testContext(t, path)

		if err := (&JSON{Indent: indent}).Run(ctx); err != nil {
			t.Fatalf("JSON.Run() error = %v", err)
		}

		var docs []struct {
			Name   string `json:"name"`
			Groups []struct {
				Tags  map[string]string `json:"tags"`
				Rules []string          `json:"rules"`
			} `json:"groups"`
		}

		if err := json.Unmarshal(out.Bytes(), &docs); err != nil {
			t.Fatalf("indent %d: output is not JSON: %v\n%s", indent, err, out)
		}

		if len(docs) != 2 || docs[0].Name != "animal" || docs[1].Name != "sighting" {
			t.Errorf("indent %d: unexpected documents %+v", indent, docs)
		}

		compact := !strings.Contains(strings.TrimSpace(out.String()), "\n")
		if compact != (indent == 0) {
			t.Errorf("indent %d: compact = %v", indent, compact)
		}

		// JSON is accepted as a grammar source.
		s := scribe.New()
		if err := s.LoadString(context.Background(), out.String()); err != nil {
			t.Errorf("indent %d: LoadString() error = %v", indent, err)
		}
	}
}

func TestFmtInvalidSyntax(t *testing.T) {
	path := writeSource(t, t.TempDir(), "broken.yml", `
- name: broken
  groups:
    - rules: ["<(shout loudly)>"]
`)

	for name, run := range map[string]func(context.Context) error{
		"yaml": (&YAML{}).Run,
		"json": (&JSON{Indent: 2}).Run,
	} {
		t.Run(name, func(t *testing.T) {
			ctx, out := testContext(t, path)

			if err := run(ctx); !errors.Is(err, scribe.ErrInvalidRule) {
				t.Errorf("Run() error = %v, want ErrInvalidRule", err)
			}

			if out.Len() != 0 {
				t.Errorf("unexpected output for invalid grammar:\n%s", out)
			}
		})
	}
}
