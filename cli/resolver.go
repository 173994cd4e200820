package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads YAML configuration
// files, such as the one written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The document is a flat mapping from flag name to value:
//   - Keys may use hyphens or underscores (log-level or log_level)
//   - Scalars are passed to kong as strings and parsed by the flag's mapper
//   - Sequences set slice flags; mappings set map flags
//
// Example config file:
//
//	log-level: debug
//	log_pretty: false
//	source: [names.yml, places.yml]
//	tag:
//	  era: bronze
//
// Command-line flags override config file values. An empty or unreadable
// document yields an empty configuration.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return config{}, nil //nolint:nilerr
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return config{}, nil //nolint:nilerr
	}

	cfg := make(config, len(doc))
	for key, value := range doc {
		cfg[strings.ReplaceAll(key, "_", "-")] = flagText(value)
	}

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configs.
// Keys are stored in their hyphenated form.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagText converts a decoded YAML value into the form kong's mappers
// accept. Scalars become strings, as do the elements of sequences and the
// values of mappings.
func flagText(value any) any {
	switch v := value.(type) {
	case nil:
		return nil

	case string:
		return v

	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = fmt.Sprint(item)
		}

		return out
	}

	return fmt.Sprint(value)
}
