// Package cmd implements the annals subcommands: gen, expand, check, fmt,
// init and repl.
//
// Commands read their grammar from the sources stored in the context by
// [WithSourceFiles] and write to the writer stored by [WithOutput].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default maximum expansion depth.
	MaxDepthIdentifier = "maxDepth"
)
