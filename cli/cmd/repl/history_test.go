package repl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}

	for _, e := range []HistoryEntry{
		{"<animal>", modeEval},
		{"tag size=big", modeCtrl},
		{"expression", modeEval},
		{"<animal>", modeEval}, // duplicate moves to the end
		{"<animal>", modeEval}, // repeat of last is skipped
	} {
		if _, err := h.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatalf("WriteWithMode(%q) error = %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"tag size=big", modeCtrl},
		{"expression", modeEval},
		{"<animal>", modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got := string(data); got != "C:tag size=big\nE:expression\nE:<animal>\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Bounds(t *testing.T) {
	h := NewHistory("")

	if _, err := h.WriteWithMode("  ", modeEval); err != nil {
		t.Fatalf("WriteWithMode(blank) error = %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}

	if _, err := h.GetEntry(0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetEntry(0) error = %v, want ErrOutOfBounds", err)
	}
}

func TestHistory_Trim(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	for i := range maxHistory + 5 {
		if _, err := h.WriteWithMode(fmt.Sprintf("line %d", i), modeEval); err != nil {
			t.Fatalf("WriteWithMode() error = %v", err)
		}
	}

	if h.Len() != maxHistory {
		t.Errorf("Len() = %d, want %d", h.Len(), maxHistory)
	}
}

func TestHistory_LegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("plain\nC:list\n\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []HistoryEntry{{"plain", modeEval}, {"list", modeCtrl}}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}
