package profile

import (
	"path/filepath"
	"strings"
)

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler describes one profiling run of an annals command.
//
// Profiles are written to Dir/Command, so runs of gen and repl do not
// overwrite each other. An empty Mode disables profiling.
type Profiler struct {
	Mode    string
	Dir     string
	Command string
}

// Path returns the directory the profile is written to.
func (p Profiler) Path() string {
	name := strings.Fields(p.Command)
	if len(name) == 0 {
		return p.Dir
	}

	return filepath.Join(p.Dir, name[0])
}

// Start begins profiling and returns the function that stops it.
// The returned function is never nil.
func (p Profiler) Start() (stop func()) {
	if p.Mode == "" {
		return func() {}
	}

	return start(p.Mode, p.Path())
}
