package memogo

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/memogo/codec"
	"github.com/hupe1980/memogo/fingerprint"
)

type funcOptions struct {
	ttl          time.Duration
	forceRefresh bool
}

// FuncOption configures a memoized function wrapper.
type FuncOption func(*funcOptions)

// WithFuncTTL overrides the cache's default TTL for this wrapper.
func WithFuncTTL(ttl time.Duration) FuncOption {
	return func(o *funcOptions) {
		o.ttl = ttl
	}
}

// WithForceRefresh ignores stored values on the first call of each
// fingerprint within this process; later calls of the same fingerprint reuse
// normally. Useful to recompute once per run while still deduplicating
// repeats inside the run.
func WithForceRefresh() FuncOption {
	return func(o *funcOptions) {
		o.forceRefresh = true
	}
}

// Func memoizes one operation against a Cache.
//
// The wrapped function receives the call arguments unchanged; the same
// arguments are stringified into the fingerprint. If the final argument is a
// fingerprint.Kwargs map it forms the named-argument component of the key.
//
// Call is safe for concurrent use: the fingerprint, lookup, and new entry of
// each call live on that call's own stack, so interleaved completions cannot
// write each other's keys. Concurrent calls with identical arguments each
// compute and store, last writer wins.
type Func[T any] struct {
	cache *Cache
	name  string
	fn    func(context.Context, ...any) (T, error)

	ttl          time.Duration
	forceRefresh bool

	mu  sync.Mutex
	ran map[string]struct{}
}

// NewFunc wraps fn as a memoized operation named name on cache c.
func NewFunc[T any](c *Cache, name string, fn func(context.Context, ...any) (T, error), optFns ...FuncOption) *Func[T] {
	opts := funcOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Func[T]{
		cache:        c,
		name:         name,
		fn:           fn,
		ttl:          opts.ttl,
		forceRefresh: opts.forceRefresh,
		ran:          make(map[string]struct{}),
	}
}

// Call returns the memoized result for args, invoking the wrapped function on
// a miss or when the stored entry has outlived its TTL. Errors from the
// wrapped function propagate unchanged and are never cached.
func (f *Func[T]) Call(ctx context.Context, args ...any) (T, error) {
	posArgs, kwargs := splitKwargs(args)
	key := fingerprint.Signature(f.name, posArgs, kwargs)

	if !f.forceRefresh || f.hasRun(key) {
		if e, ok := f.cache.entry(key); ok && e.StoredAt.Add(f.effectiveTTL()).After(time.Now()) {
			if value, err := decodeAs[T](f.cache.codec, e.Value); err == nil {
				f.cache.noteStatus(key, StatusHit)
				return value, nil
			}
			f.cache.logger.Debug("stored value not decodable, recomputing", "key", key)
		}
	}

	value, err := f.fn(ctx, args...)
	if err != nil {
		var zero T
		return zero, err
	}

	f.cache.setEntry(key, Entry{Value: value, StoredAt: time.Now()})
	_ = f.cache.Save(ctx) // persistence failures degrade to recomputing next run; Save logs them
	f.markRan(key)
	f.cache.noteStatus(key, StatusMiss)
	return value, nil
}

func (f *Func[T]) effectiveTTL() time.Duration {
	if f.ttl > 0 {
		return f.ttl
	}
	return f.cache.ttl
}

func (f *Func[T]) hasRun(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ran[key]
	return ok
}

func (f *Func[T]) markRan(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ran[key] = struct{}{}
}

// splitKwargs peels a trailing fingerprint.Kwargs off the argument list for
// key derivation. The wrapped function still receives the full list.
func splitKwargs(args []any) ([]any, fingerprint.Kwargs) {
	if len(args) == 0 {
		return args, nil
	}
	if kw, ok := args[len(args)-1].(fingerprint.Kwargs); ok {
		return args[:len(args)-1], kw
	}
	return args, nil
}

// decodeAs converts a stored value to the wrapper's result type. Values
// cached in this process are returned as-is; values restored from a persisted
// document pass through the codec to regain their concrete type.
func decodeAs[T any](c codec.Codec, v any) (T, error) {
	if typed, ok := v.(T); ok {
		return typed, nil
	}
	var out T
	raw, err := c.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := c.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
