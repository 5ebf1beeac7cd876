package grammar

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kirovets/avro/pkg/schema"
)

// cacheKey identifies a compiled grammar by the pair of schema fingerprints
// it was built from.
type cacheKey struct {
	writer uint64
	reader uint64
}

// Cache is a process-wide interner for compiled grammars, deduplicating
// concurrent first-compiles of the same (writer, reader) pair with a
// singleflight.Group so N goroutines racing to resolve the same schema
// pair pay for exactly one compile.
type Cache struct {
	entries sync.Map // cacheKey -> *Symbol
	group   singleflight.Group
	log     *zap.Logger
}

func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{log: zap.L()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type CacheOption func(*Cache)

// WithLogger routes cache hit/miss diagnostics to the given logger instead
// of the zap global default.
func WithLogger(l *zap.Logger) CacheOption {
	return func(c *Cache) { c.log = l }
}

// GetOrCompile returns the cached grammar for (writer, reader), compiling
// it via build on a cache miss.
func (c *Cache) GetOrCompile(writer, reader schema.Schema, build func() (*Symbol, error)) (*Symbol, error) {
	key := cacheKey{writer: schema.Fingerprint64(writer), reader: schema.Fingerprint64(reader)}
	if v, ok := c.entries.Load(key); ok {
		c.log.Debug("grammar cache hit", zap.Uint64("writer_fp", key.writer), zap.Uint64("reader_fp", key.reader))
		return v.(*Symbol), nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("%d:%d", key.writer, key.reader), func() (interface{}, error) {
		if v, ok := c.entries.Load(key); ok {
			return v.(*Symbol), nil
		}
		sym, err := build()
		if err != nil {
			return nil, err
		}
		c.entries.Store(key, sym)
		c.log.Debug("grammar compiled", zap.Uint64("writer_fp", key.writer), zap.Uint64("reader_fp", key.reader))
		return sym, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Symbol), nil
}

// defaultCache backs the package-level convenience used when callers don't
// need a dedicated cache instance.
var defaultCache = NewCache()

// Default returns the shared process-wide grammar cache.
func Default() *Cache { return defaultCache }
