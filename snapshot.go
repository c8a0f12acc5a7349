package memogo

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/hupe1980/memogo/codec"
)

// entryDoc is the persisted form of one Entry.
type entryDoc struct {
	Value any    `json:"value"`
	Date  string `json:"date"`
}

// snapshotDoc is the persisted document: the serializable entry map, the
// registered-variable snapshot, and the save timestamp. Map keys are emitted
// in sorted order, so files are deterministic for the same state.
type snapshotDoc struct {
	FuncCache     map[string]entryDoc `json:"_json_cache_func_cache"`
	VariableCache map[string]any      `json:"_json_cache_variable_cache"`
	LastSaveDate  string              `json:"_json_cache_last_save_date"`
}

// buildSnapshot collects the serializable state. Entries or variables that
// cannot be serialized are excluded rather than failing the save.
func (c *Cache) buildSnapshot() snapshotDoc {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc := snapshotDoc{
		FuncCache:     make(map[string]entryDoc, len(c.entries)),
		VariableCache: make(map[string]any, len(c.vars)),
		LastSaveDate:  codec.FormatTime(time.Now()),
	}

	for key, e := range c.entries {
		if strings.HasPrefix(key, "_json_cache_") {
			continue
		}
		if !codec.Serializable(c.codec, e.Value) {
			c.logger.Debug("excluding unserializable entry from snapshot", "key", key)
			continue
		}
		doc.FuncCache[key] = entryDoc{
			Value: e.Value,
			Date:  codec.FormatTime(e.StoredAt),
		}
	}

	for _, v := range c.vars {
		if _, skip := c.excluded[v.name]; skip {
			continue
		}
		value := reflect.ValueOf(v.ptr).Elem().Interface()
		if !codec.Serializable(c.codec, value) {
			c.logger.Debug("excluding unserializable variable from snapshot", "name", v.name)
			continue
		}
		doc.VariableCache[v.name] = value
	}

	return doc
}

// loadedDoc mirrors snapshotDoc on the read side; variable values stay raw so
// they can be decoded into the registered pointers' types.
type loadedDoc struct {
	FuncCache     map[string]entryDoc        `json:"_json_cache_func_cache"`
	VariableCache map[string]json.RawMessage `json:"_json_cache_variable_cache"`
	LastSaveDate  string                     `json:"_json_cache_last_save_date"`
}

// restoreSnapshot parses a persisted document and restores it. The variable
// snapshot is only applied while the document is within TTL; the entry map is
// always restored since freshness is re-checked per entry at hit time.
func (c *Cache) restoreSnapshot(raw []byte) error {
	var probe map[string]json.RawMessage
	if err := c.codec.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if _, ok := probe["_json_cache_func_cache"]; !ok {
		return fmt.Errorf("%w: missing entry map", ErrInvalidDocument)
	}

	var doc loadedDoc
	if err := c.codec.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	c.restoreVariables(doc)
	c.restoreEntries(doc)
	return nil
}

func (c *Cache) restoreVariables(doc loadedDoc) {
	if doc.LastSaveDate == "" {
		return
	}
	lastSave, err := codec.ParseTime(doc.LastSaveDate)
	if err != nil {
		c.logger.Debug("unparseable snapshot save date", "date", doc.LastSaveDate)
		return
	}
	if !lastSave.Add(c.ttl).After(time.Now()) {
		return
	}

	for _, v := range c.vars {
		raw, ok := doc.VariableCache[v.name]
		if !ok {
			continue
		}
		if err := c.codec.Unmarshal(raw, v.ptr); err != nil {
			c.logger.Debug("skipping variable with incompatible persisted value",
				"name", v.name, "error", err)
		}
	}
}

func (c *Cache) restoreEntries(doc loadedDoc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range doc.FuncCache {
		storedAt, err := codec.ParseTime(e.Date)
		if err != nil {
			c.logger.Debug("skipping entry with unparseable date", "key", key)
			continue
		}
		c.entries[key] = Entry{Value: e.Value, StoredAt: storedAt}
	}
}
