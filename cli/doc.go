// Package cli contains the command line interface for annals.
//
// # Usage
//
// Grammar documents are named with --source (repeatable, "-" for stdin) and
// the subcommand defaults to gen:
//
//	annals -s names.yml person
//	annals -s names.yml gen -n 5 --tag era=bronze person
//	annals -s names.yml expand 'the <(capitalize <person>)> of <place>'
//	annals -s names.yml check --strict
//	annals -s names.yml fmt json
//	annals -s names.yml repl
//
// # Configuration
//
// Flags not given on the command line are read from, in order:
//
//   - Environment variables named after the flag, such as ANNALS_LOG_LEVEL
//   - config.json in the configuration directory
//   - config.yaml in the configuration directory, written by the init command
//
// The YAML document is a flat mapping from flag name to value. See
// [resolve] for the accepted forms.
//
// # Logging Options
//
// Log records are written to stderr. Only warnings and errors are logged by
// default.
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - -v, --log-verbose: Lower the level one step per use; -vvv traces
//     every substitution with caller and microsecond timestamps
//   - --log-format: Set log output format (text, json)
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o annals .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/annals/pprof)
//
// Each command writes to its own subdirectory, such as pprof/gen.
package cli
