package scribe

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/annals/log"
)

// documentCache stores decoded grammar documents keyed by the xxh3 hash of
// their bytes.
var documentCache sync.Map

// cacheEntry holds the result of decoding one document exactly once.
type cacheEntry struct {
	once     sync.Once
	cognates []*Cognate
	err      error
}

// decodeCached decodes data, reusing an earlier result for identical bytes.
// Failed decodes are not retained.
func decodeCached(
	ctx context.Context,
	data []byte,
	logger log.Logger,
) ([]*Cognate, error) {
	key := xxh3.Hash(data)

	value, hit := documentCache.LoadOrStore(key, new(cacheEntry))

	entry, ok := value.(*cacheEntry)
	if !ok {
		return nil, ErrDecode.With(slog.String("issue", "invalid cache entry type"))
	}

	logger.TraceContext(ctx, "cache lookup",
		slog.String("hash", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.cognates, entry.err = decode(ctx, data)
	})

	if entry.err != nil {
		documentCache.CompareAndDelete(key, entry)

		return nil, entry.err
	}

	return slices.Clone(entry.cognates), nil
}

// ClearCache discards every cached grammar document.
func ClearCache() { documentCache.Clear() }
