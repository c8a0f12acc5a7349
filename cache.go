package memogo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"

	"github.com/hupe1980/memogo/codec"
	"github.com/hupe1980/memogo/fingerprint"
	"github.com/hupe1980/memogo/kvstore"
)

const (
	// maxIDLength is the data-id length from which file names switch to the
	// truncated+hashed form, keeping paths bounded on every filesystem.
	maxIDLength = 180

	// truncateIDLength is the number of readable id characters kept in
	// front of the hash suffix.
	truncateIDLength = 140
)

// Status is the outcome of the most recent lookup for a fingerprint.
type Status string

const (
	// StatusHit means a fresh stored value was returned.
	StatusHit Status = "hit"
	// StatusMiss means the operation was invoked and its result stored.
	StatusMiss Status = "miss"
)

// Entry is one memoized result: the value and when it was stored.
// Entries are replaced wholesale, never mutated in place.
type Entry struct {
	Value    any
	StoredAt time.Time
}

// Cache owns the memoized results of one logical object: an entry map keyed
// by call fingerprint, a registered-variable snapshot, a local JSON file (L1),
// and an optional remote store mirror (L2).
//
// A Cache is a scoped resource: construct it with New, use it, and Close it
// on every exit path so the local tier is flushed:
//
//	c, err := memogo.New(ctx, "weather-berlin")
//	if err != nil { ... }
//	defer c.Close()
//
// All methods are safe for concurrent use. Writes to distinct fingerprints
// never corrupt each other; concurrent writes to the same fingerprint resolve
// last-writer-wins.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	status     map[string]Status
	lastStatus Status

	dataID             string
	directory          string
	ttl                time.Duration
	codec              codec.Codec
	logger             *Logger
	remote             kvstore.Store
	flushRemoteOnClose bool
	vars               []varBinding
	excluded           map[string]struct{}
}

// New creates a Cache identified by dataID and, unless WithClearOnInit is
// set, restores persisted state: the local file first, the remote tier when
// no local file exists. Load problems are logged and leave the cache empty;
// they are never fatal.
func New(ctx context.Context, dataID string, optFns ...Option) (*Cache, error) {
	if dataID == "" {
		return nil, ErrEmptyDataID
	}

	opts := options{
		directory: DefaultDirectory,
		ttl:       DefaultTTL,
		codec:     codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	for _, v := range opts.vars {
		rv := reflect.ValueOf(v.ptr)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return nil, ErrInvalidVar
		}
	}

	c := &Cache{
		entries:            make(map[string]Entry),
		status:             make(map[string]Status),
		dataID:             dataID,
		directory:          opts.directory,
		ttl:                opts.ttl,
		codec:              opts.codec,
		logger:             resolveLogger(opts).WithID(dataID),
		remote:             opts.remote,
		flushRemoteOnClose: opts.flushRemoteOnClose,
		vars:               opts.vars,
		excluded:           opts.excluded,
	}

	if !opts.clearOnInit {
		c.load(ctx)
	}
	return c, nil
}

func resolveLogger(opts options) *Logger {
	if opts.logger != nil {
		return opts.logger
	}
	level := DefaultLogLevel()
	if opts.hasLogLevel && level != LogSilent {
		level = opts.logLevel
	}
	return newLevelLogger(level)
}

// DataID returns the cache identity used for the file name and remote key.
func (c *Cache) DataID() string { return c.dataID }

// FilePath returns the local cache file path: the slugified data id under the
// configured directory, truncated and hash-suffixed for overlong ids.
func (c *Cache) FilePath() string {
	name := c.dataID
	if len(name) >= maxIDLength {
		sum := sha256.Sum256([]byte(c.dataID))
		name = name[:truncateIDLength] + "-" + hex.EncodeToString(sum[:])
	}
	return filepath.Join(c.directory, slug.Make(name)+".json")
}

func (c *Cache) remoteEnabled() bool {
	return c.remote != nil && c.remote.Enabled()
}

// entry returns the stored entry for key, if any.
func (c *Cache) entry(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// setEntry stores an entry. Last writer wins on identical keys.
func (c *Cache) setEntry(key string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

func (c *Cache) noteStatus(key string, s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[key] = s
	c.lastStatus = s
}

// Status returns a copy of the per-fingerprint hit/miss observations.
// Purely observational; it never affects cache behavior.
func (c *Cache) Status() map[string]Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Status, len(c.status))
	for k, v := range c.status {
		out[k] = v
	}
	return out
}

// LastStatus returns the outcome of the most recent lookup, or "" before the
// first one.
func (c *Cache) LastStatus() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastStatus
}

// Save writes the snapshot to the local file and, when a remote store is
// enabled, mirrors it there. Failures are logged; the returned error exists
// for callers that want to inspect it, memoized calls ignore it.
func (c *Cache) Save(ctx context.Context) error {
	if err := c.saveLocal(); err != nil {
		c.logger.Warn("error saving cache", "error", err)
		return err
	}
	if c.remoteEnabled() {
		if err := c.writeRemote(ctx); err != nil {
			c.logger.Warn("error saving cache to remote store", "error", err)
			return err
		}
	}
	return nil
}

func (c *Cache) saveLocal() error {
	if c.directory != "" {
		if err := os.MkdirAll(c.directory, 0o755); err != nil {
			return err
		}
	}

	doc, err := codec.MarshalIndent(c.buildSnapshot())
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.FilePath(), doc, 0o644); err != nil {
		return err
	}
	c.logger.Debug("cache saved", "path", c.FilePath())
	return nil
}

// writeRemote serializes the snapshot and writes it to the remote tier,
// compressing past the envelope threshold and skipping the write entirely
// when even the compressed form exceeds the item-size ceiling.
func (c *Cache) writeRemote(ctx context.Context) error {
	payload, err := c.codec.Marshal(c.buildSnapshot())
	if err != nil {
		return err
	}

	doc, compressed, err := kvstore.EncodeDocument(payload)
	if err != nil {
		if errors.Is(err, kvstore.ErrTooLarge) {
			c.logger.Warn("compressed payload exceeds remote item size limit, skipping remote write",
				"raw_bytes", len(payload))
			return nil
		}
		return err
	}
	if compressed {
		c.logger.Info("compressing remote payload",
			"raw_bytes", len(payload), "compressed_bytes", len(doc))
	}

	return c.remote.Put(ctx, c.dataID, doc, c.ttl.Hours()/24)
}

// load restores persisted state: L1 first, then L2 on local-file-not-found.
// Any successful load triggers a remote write-back so both tiers converge.
func (c *Cache) load(ctx context.Context) {
	raw, err := os.ReadFile(c.FilePath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("error loading cache", "error", err)
			return
		}
		c.loadRemote(ctx)
		return
	}

	if err := c.restoreSnapshot(raw); err != nil {
		c.logger.Warn("error loading cache", "error", err)
		return
	}
	c.logger.Debug("cache loaded", "path", c.FilePath())

	if c.remoteEnabled() {
		if err := c.writeRemote(ctx); err != nil {
			c.logger.Warn("error backfilling remote store", "error", err)
		}
	}
}

func (c *Cache) loadRemote(ctx context.Context) {
	if !c.remoteEnabled() {
		return
	}

	doc, err := c.remote.Get(ctx, c.dataID)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			c.logger.Warn("error loading cache from remote store", "error", err)
		}
		return
	}

	plain, err := kvstore.DecodeDocument(doc)
	if err != nil {
		c.logger.Warn("error decoding remote cache document", "error", err)
		return
	}

	if err := c.restoreSnapshot(plain); err != nil {
		c.logger.Warn("error loading cache from remote store", "error", err)
		return
	}
	c.logger.Debug("cache loaded from remote store")

	if err := c.writeRemote(ctx); err != nil {
		c.logger.Warn("error backfilling remote store", "error", err)
	}
}

// Clear drops cached entries. With operation == "" the whole entry map is
// dropped and the remote document deleted; otherwise only entries of that
// operation are removed.
func (c *Cache) Clear(ctx context.Context, operation string) {
	c.mu.Lock()
	if operation == "" {
		c.entries = make(map[string]Entry)
	} else {
		for key := range c.entries {
			if strings.HasPrefix(key, operation) {
				delete(c.entries, key)
			}
		}
	}
	c.mu.Unlock()

	if operation == "" && c.remoteEnabled() {
		if err := c.remote.Delete(ctx, c.dataID); err != nil {
			c.logger.Warn("error deleting remote cache document", "error", err)
		}
	}
}

// Stats summarizes the entry map.
type Stats struct {
	// TotalEntries is the number of stored entries.
	TotalEntries int
	// Operations counts entries per operation name.
	Operations map[string]int
}

// Stats returns entry counts grouped by operation name.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		TotalEntries: len(c.entries),
		Operations:   make(map[string]int),
	}
	for key := range c.entries {
		stats.Operations[fingerprint.Operation(key)]++
	}
	return stats
}

// ListRemoteKeys lists cache ids stored in the remote tier with pagination.
// Returns an empty page when no remote store is enabled.
func (c *Cache) ListRemoteKeys(ctx context.Context, limit int, cursor string) (kvstore.Page, error) {
	if !c.remoteEnabled() {
		return kvstore.Page{}, nil
	}
	return c.remote.ListKeys(ctx, limit, cursor)
}

// Close flushes the local tier and, if WithFlushRemoteOnClose was set, the
// remote tier. Safe to call multiple times.
func (c *Cache) Close() error {
	if err := c.saveLocal(); err != nil {
		c.logger.Warn("error saving cache", "error", err)
		return err
	}
	if c.flushRemoteOnClose && c.remoteEnabled() {
		if err := c.writeRemote(context.Background()); err != nil {
			c.logger.Warn("error saving cache to remote store", "error", err)
			return err
		}
	}
	return nil
}
