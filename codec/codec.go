// Package codec centralizes snapshot and entry encoding.
//
// Memogo intentionally treats codec selection as a breaking-change boundary:
// if you change codecs, persisted documents created by older codecs may no
// longer decode.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the default codec used by the library.
var Default Codec = GoJSON{}

// Serializable reports whether v can be encoded by the given codec.
// Values that cannot be encoded are silently excluded from snapshots rather
// than aborting a save.
func Serializable(c Codec, v any) bool {
	if c == nil {
		c = Default
	}
	_, err := c.Marshal(v)
	return err == nil
}

// MustMarshal is a helper for internal tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
