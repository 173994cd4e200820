package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_DefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithPretty(false)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) ||
				!strings.Contains(out, `"key":"value"`) {
				t.Errorf("unexpected output: %s", out)
			}
		})
	}
}

func TestPackage_ContextFunctions(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithPretty(false)))

	// Config layers options over the current default.
	Config(WithLevel(LevelTrace))

	ctx := context.Background()
	fns := []func(context.Context, string, ...slog.Attr){
		TraceContext, DebugContext, InfoContext, WarnContext, ErrorContext,
	}

	for _, fn := range fns {
		fn(ctx, "ctx message")
	}

	if got := strings.Count(buf.String(), "ctx message"); got != len(fns) {
		t.Errorf("wrote %d records, want %d", got, len(fns))
	}
}
