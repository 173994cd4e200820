//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      profileDir(),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start profiles the selected command if a mode is set.
func (f pprofConfig) start(ctx context.Context, command string) (stop func()) {
	p := profile.Profiler{Mode: f.Mode, Dir: f.Dir, Command: command}
	if p.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{
		slog.String("mode", p.Mode),
		slog.String("path", p.Path()),
	}

	log.DebugContext(ctx, "pprof start", attrs...)

	halt := p.Start()

	return func() {
		halt()
		log.DebugContext(ctx, "pprof stop", attrs...)
	}
}
