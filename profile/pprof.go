//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Modes returns the sorted names of the supported profiling modes.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(modes))
	},
)

var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// start begins profiling in the named mode. Unknown modes start nothing.
// The CLI logs start and stop itself, so pkg/profile stays quiet.
func start(mode, path string) func() {
	fn, ok := modes[mode]
	if !ok {
		return func() {}
	}

	opts := []func(*profile.Profile){fn, profile.NoShutdownHook, profile.Quiet}
	if path != "" {
		opts = append(opts, profile.ProfilePath(path))
	}

	return profile.Start(opts...).Stop
}
