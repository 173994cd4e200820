package cmd

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/scribe"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the writer stored by WithOutput, or os.Stdout.
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		paths    []string
		hasStdin bool
	}

	// SourceFiles is the set of grammar documents a command reads.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		Sources() iter.Seq[string]
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.paths) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// Sources iterates the source paths in read order. Stdin, if present, is
// last and reported as "-".
func (s *sourceFiles) Sources() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, path := range s.paths {
			if !yield(path) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource)
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the given source
// files.
//
// The function deduplicates paths by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin source
// placed last so it is read after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
// Paths that cannot be resolved are skipped. Nil is returned if nothing
// remains.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.paths = make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := uniquePath(src, seen)
		if !ok {
			continue
		}

		srcs.paths = append(srcs.paths, path)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	if srcs.hasStdin {
		// A named path that resolved to stdin is read through os.Stdin.
		srcs.paths = slices.DeleteFunc(srcs.paths, func(p string) bool {
			info, err := os.Stat(p)
			if err != nil {
				return false
			}

			key, _ := makeFileKey(info)

			return key == stdinKey
		})
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// uniquePath resolves path and reports whether it names a file not seen
// before. It resolves symlinks and uses device/inode to detect duplicates.
func uniquePath(path string, seen map[fileKey]struct{}) (string, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the SourceFiles stored in ctx by WithSourceFiles.
// Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// loadSource inserts the cognates of one source into s.
func loadSource(ctx context.Context, s *scribe.Scribe, path string) error {
	if path != stdinSource {
		return s.LoadFile(ctx, path)
	}

	if err := s.LoadReader(ctx, os.Stdin); err != nil {
		return scribe.WrapError(err).With(slog.String("path", path))
	}

	return nil
}

// loadScribe returns a Scribe holding every source stored in ctx.
// Without sources it fails with ErrNoSource if required is set, and
// otherwise returns an empty grammar.
func loadScribe(
	ctx context.Context,
	required bool,
	opts ...scribe.Option,
) (*scribe.Scribe, error) {
	s := scribe.New(slices.Concat(
		[]scribe.Option{scribe.WithLogger(log.Default())},
		opts,
	)...)

	src := sourceFilesFrom(ctx)
	if src == nil || src.IsZero() {
		if required {
			return nil, ErrNoSource
		}

		return s, nil
	}

	for path := range src.Sources() {
		if err := loadSource(ctx, s, path); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// scope holds the flags that seed the generation context.
type scope struct {
	Tag      map[string]string `help:"Set a context tag (key=value)."                                short:"t"`
	Bind     map[string]string `help:"Bind a variable (name=value)."                                 short:"b"`
	Seed     uint64            `help:"Seed for reproducible output. Zero uses a random seed."`
	MaxDepth int               `help:"Maximum nesting of expansions." default:"${maxDepth}"`
}

// context returns a generation context holding the configured tags and
// bindings.
func (s scope) context() *scribe.Context {
	c := scribe.NewContext()

	for k, v := range s.Tag {
		c.Set(k, v)
	}

	for k, v := range s.Bind {
		c.Bind(k, v)
	}

	return c
}

// rand returns the random source of one sample, or nil to use the global
// source. Each stream of a seeded run draws an independent sequence.
func (s scope) rand(stream uint64) *rand.Rand {
	if s.Seed == 0 {
		return nil
	}

	return rand.New(rand.NewPCG(s.Seed, stream)) //nolint:gosec
}

func (s scope) options() []scribe.Option {
	return []scribe.Option{scribe.WithMaxDepth(s.MaxDepth)}
}

// derive returns a fresh context derived from base that draws from r.
// A nil r keeps the source of base.
func derive(base *scribe.Context, r *rand.Rand) *scribe.Context {
	c := base.Clone()
	if r != nil {
		c.SetRand(r)
	}

	return c
}
