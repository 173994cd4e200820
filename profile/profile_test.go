package profile

import (
	"path/filepath"
	"testing"
)

func TestProfiler_Path(t *testing.T) {
	dir := filepath.Join("cache", Tag)

	tests := []struct {
		command string
		want    string
	}{
		{"gen <name>", filepath.Join(dir, "gen")},
		{"repl", filepath.Join(dir, "repl")},
		{"", dir},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			p := Profiler{Mode: "cpu", Dir: dir, Command: tt.command}
			if got := p.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProfiler_StartWithoutMode(t *testing.T) {
	stop := Profiler{Dir: t.TempDir(), Command: "gen"}.Start()
	if stop == nil {
		t.Fatal("Start() returned nil")
	}

	stop()
}
