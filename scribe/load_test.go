package scribe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/annals/lang"
)

func TestLoadFile(t *testing.T) {
	s := New()
	if err := s.LoadFile(context.Background(), "testdata/animals.yml"); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	animal, ok := s.Cognate("animal")
	if !ok {
		t.Fatal("animal not loaded")
	}

	if animal.Len() != 4 {
		t.Errorf("animal.Len() = %d, want 4", animal.Len())
	}

	var notes []string
	for g := range animal.Groups() {
		notes = append(notes, g.Note())
	}

	if diff := cmp.Diff([]string{"", "the small ones"}, notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidRule(t *testing.T) {
	err := New().LoadFile(context.Background(), "testdata/invalid.yml")
	if !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("error = %v, want ErrInvalidRule", err)
	}

	var perr *lang.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v does not wrap *lang.ParseError", err)
	}

	if perr.Kind != lang.KindInvalidName {
		t.Errorf("kind = %v, want invalid name", perr.Kind)
	}

	for key, want := range map[string]string{
		"cognate": "broken",
		"group":   "1",
		"rule":    "1",
		"literal": "Hello <@some binding>!",
		"path":    "testdata/invalid.yml",
	} {
		if got := errAttr(t, err, key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"malformed", "- name: [unclosed", ErrDecode},
		{"bad name", "- name: two words\n  groups: []", ErrInvalidName},
		{"empty rule", "- name: x\n  groups:\n    - rules: ['']", lang.ErrEmptyRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), strings.NewReader(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	err := New().LoadFile(context.Background(), "testdata/nope.yml")
	if !errors.Is(err, ErrReadInput) {
		t.Fatalf("error = %v, want ErrReadInput", err)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()

	src := New()
	if err := src.LoadFile(ctx, "testdata/animals.yml"); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	src.Insert(mustCognate(t, "escaped",
		mustGroup(t, map[string]string{"k": "v"}, `a \<b\> <(an (cap x))> <#1-9>`),
	))

	var yml, js bytes.Buffer

	if err := src.Save(ctx, &yml); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := src.SaveJSON(&js, 2); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	for name, buf := range map[string]*bytes.Buffer{"yaml": &yml, "json": &js} {
		t.Run(name, func(t *testing.T) {
			dst := New()
			if err := dst.LoadString(ctx, buf.String()); err != nil {
				t.Fatalf("reload: %v\n%s", err, buf.String())
			}

			if diff := cmp.Diff(src.documents(), dst.documents()); diff != "" {
				t.Errorf("round trip mismatch (-saved +reloaded):\n%s", diff)
			}
		})
	}
}

func TestLoad_Cache(t *testing.T) {
	ClearCache()

	ctx := context.Background()
	doc := "- name: cached\n  groups:\n    - rules: [one]\n"

	first, err := Load(ctx, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	second, err := Load(ctx, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if first[0] != second[0] {
		t.Error("identical documents were decoded twice")
	}

	ClearCache()

	third, err := Load(ctx, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if first[0] == third[0] {
		t.Error("ClearCache did not discard the cached document")
	}
}
