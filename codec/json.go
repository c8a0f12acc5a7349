package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Notes:
// - For snapshot documents (map-like structures), JSON is stable and portable.
// - Map keys are emitted in sorted order, which keeps persisted files
//   deterministic across saves.
//
// If you need custom encoding, implement Codec and set it on the cache via
// the codec option.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// MarshalIndent encodes the value as human-indented JSON.
//
// This is the format of the local cache file; the standard library is used
// here regardless of the configured codec because it is the most portable
// indent writer.
func MarshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "    ")
}
