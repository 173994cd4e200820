package cli

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ardnew/annals/pkg"
	"github.com/ardnew/annals/profile"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// dirMode is the permission mode of the directories annals creates.
const dirMode os.FileMode = 0o700

// basePrefix names the configuration and cache directories and prefixes
// environment variables. It is the executable's base name without its
// extension or leading dots, or [pkg.Name] for a dlv debug binary or a name
// left empty.
var basePrefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		return prefixOf(exe)
	},
)

func prefixOf(exe string) string {
	id := strings.TrimLeft(filepath.Base(exe), ".")
	id = strings.TrimSuffix(id, filepath.Ext(id))

	if id == "" || strings.HasPrefix(id, "__debug_bin") {
		return pkg.Name
	}

	return id
}

// envPrefix returns the prefix of environment variables that set flags,
// formed from [basePrefix] in upper case with every other character
// replaced by an underscore.
func envPrefix() string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		}

		return '_'
	}, basePrefix())
}

// userDir returns the annals subdirectory of the directory named by user,
// falling back to ~/fallback and then to the working directory.
func userDir(user func() (string, error), fallback string) string {
	dir, err := user()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

// cliConfigDir holds config.yaml and config.json.
var cliConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// cliCacheDir holds REPL history and profiles.
var cliCacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// configPath joins elem onto [cliConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{cliConfigDir()}, elem...)...)
}

// profileDir is the default root of profile output.
func profileDir() string {
	return filepath.Join(cliCacheDir(), profile.Tag)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{cliConfigDir(), cliCacheDir()} {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return err
		}
	}

	return nil
}
