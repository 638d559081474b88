package multimethod

import (
	"reflect"

	lru "github.com/hashicorp/golang-lru"
	metrics "github.com/ipfs/go-metrics-interface"
)

// DefaultCacheSize is used by WithCache when size is not positive.
const DefaultCacheSize = 256

// KeyFunc derives a cache key from the arguments of a call. Two calls that
// get the same key must have the same applicable methods. Return false for
// calls that should not be cached. Keys must be comparable.
//
// Example, caching type dispatch on the dynamic types of the arguments:
//
//	func typeKey(args multimethod.Args) (any, bool) {
//	    if len(args.Kw) > 0 || len(args.Pos) > 4 {
//	        return nil, false
//	    }
//	    var k [4]reflect.Type
//	    for i, a := range args.Pos {
//	        k[i] = reflect.TypeOf(a)
//	    }
//	    return k, true
//	}
type KeyFunc func(args Args) (key any, ok bool)

// WithCache memoizes which entries apply to a call, keyed by fn, in an LRU
// of the given size. A hit still re-tests the cached entries so their
// matches reflect the live arguments; only the scan of the whole table is
// skipped. Registration invalidates the cache.
func WithCache(size int, fn KeyFunc) Option {
	return func(c *config) {
		c.cacheSize = size
		c.cacheKey = fn
	}
}

// memo caches the indices of applicable entries per call key.
type memo struct {
	cache *lru.Cache
	key   KeyFunc
	hits  metrics.Counter
}

// memoEntry records the table length it was computed against, so a result
// computed from an older snapshot is never served for a larger table.
type memoEntry struct {
	tableLen int
	indices  []int
}

func newMemo(size int, fn KeyFunc, hits metrics.Counter) *memo {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		// lru.New only fails for non-positive sizes
		panic(err)
	}
	return &memo{cache: cache, key: fn, hits: hits}
}

// keyFor returns the cache key for args, or false if args are not cacheable.
func (m *memo) keyFor(args Args) (any, bool) {
	k, ok := m.key(args)
	if !ok || k == nil || !reflect.ValueOf(k).Comparable() {
		return nil, false
	}
	return k, true
}

func (m *memo) get(k any, tableLen int) ([]int, bool) {
	v, ok := m.cache.Get(k)
	if !ok {
		return nil, false
	}
	e := v.(memoEntry)
	if e.tableLen != tableLen {
		return nil, false
	}
	m.hits.Inc()
	return e.indices, true
}

func (m *memo) put(k any, tableLen int, indices []int) {
	m.cache.Add(k, memoEntry{tableLen: tableLen, indices: indices})
}

func (m *memo) purge() {
	m.cache.Purge()
}
