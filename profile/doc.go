// Package profile provides optional runtime profiling for annals.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof -o annals .
//
// Without the tag every [Profiler] starts nothing and [Modes]
// returns nothing, so the command line offers no profiling flags.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Profiler{Mode: "cpu", Dir: dir, Command: "gen"}.Start()
//	defer stop()
//
// Profiles land in a subdirectory of Dir named after the command.
//
// A generation-heavy run is easiest to study with CPU or allocation
// profiles:
//
//	annals --pprof-mode=cpu gen -n 100000 -s names.yml name > /dev/null
//	go tool pprof -http=: ~/.cache/annals/pprof/gen/cpu.pprof
//
// When built with the tag the package also registers the [net/http/pprof]
// handlers on the default mux.
package profile
