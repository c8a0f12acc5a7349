package memogo

import (
	"time"

	"github.com/hupe1980/memogo/codec"
	"github.com/hupe1980/memogo/kvstore"
)

// DefaultDirectory is where cache files live unless WithDirectory is given.
const DefaultDirectory = "data/cache"

// DefaultTTL is the freshness window applied when WithTTL is not given.
var DefaultTTL = Days(999)

// Days converts a day count into a duration. Fractional days are fine.
func Days(n float64) time.Duration {
	return time.Duration(n * 24 * float64(time.Hour))
}

type varBinding struct {
	name string
	ptr  any
}

type options struct {
	directory          string
	clearOnInit        bool
	ttl                time.Duration
	logLevel           LogLevel
	hasLogLevel        bool
	logger             *Logger
	codec              codec.Codec
	remote             kvstore.Store
	flushRemoteOnClose bool
	vars               []varBinding
	excluded           map[string]struct{}
}

// Option configures cache construction behavior.
type Option func(*options)

// WithDirectory sets the local storage root for cache files.
func WithDirectory(dir string) Option {
	return func(o *options) {
		o.directory = dir
	}
}

// WithClearOnInit skips loading persisted state during construction, so the
// cache starts empty.
func WithClearOnInit(clear bool) Option {
	return func(o *options) {
		o.clearOnInit = clear
	}
}

// WithTTL sets the default freshness window for entries and for the variable
// snapshot. Use Days for day counts:
//
//	memogo.New(ctx, "weather", memogo.WithTTL(memogo.Days(7)))
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithLogLevel sets this cache's log level (silent, normal, verbose). The
// process-wide default applies otherwise, and a silent process-wide default
// always wins.
func WithLogLevel(level LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
		o.hasLogLevel = true
	}
}

// WithLogger sets a fully custom logger. Takes precedence over WithLogLevel.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCodec configures the codec used for snapshot values.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithRemote attaches a remote store as the second cache tier. A nil or
// disabled store is skipped without error.
func WithRemote(store kvstore.Store) Option {
	return func(o *options) {
		o.remote = store
	}
}

// WithFlushRemoteOnClose also writes the remote tier when the cache is
// closed. Off by default: remote writes on every teardown would be
// surprising and expensive.
func WithFlushRemoteOnClose(flush bool) Option {
	return func(o *options) {
		o.flushRemoteOnClose = flush
	}
}

// WithVar registers a variable for the persisted snapshot. ptr must be a
// non-nil pointer; the pointed-to value is serialized on save and restored on
// load while the snapshot is within TTL.
func WithVar(name string, ptr any) Option {
	return func(o *options) {
		o.vars = append(o.vars, varBinding{name: name, ptr: ptr})
	}
}

// WithExcludedVars masks registered variable names from the persisted
// snapshot. Their in-memory values still work normally; they are just never
// written out.
func WithExcludedVars(names ...string) Option {
	return func(o *options) {
		if o.excluded == nil {
			o.excluded = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			o.excluded[name] = struct{}{}
		}
	}
}
