// Package fingerprint derives deterministic cache keys from an operation name
// and its call arguments.
//
// The key is a readable string of the form "name(arg, ...){k=v, ...}". Keys
// shorter than MaxKeyLength are used verbatim; longer keys are truncated and
// suffixed with a SHA-1 digest of the full string so they remain bounded while
// staying unique.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const (
	// MaxKeyLength is the length below which the readable form is the key.
	MaxKeyLength = 180

	// truncateLength is the number of readable characters kept in front of
	// the digest suffix for overlong keys.
	truncateLength = 149
)

// Kwargs models named arguments of a call.
//
// Kwargs are stringified in sorted key order, so two calls passing the same
// named arguments always produce the same fingerprint regardless of map
// iteration order.
type Kwargs map[string]any

// Signature returns the canonical cache key for one call.
//
// It never fails: arguments that have no meaningful textual form fall back to
// their default fmt representation. Only stringifiability matters here;
// whether the eventual result is serializable is the caller's concern.
func Signature(name string, args []any, kwargs Kwargs) string {
	var sb strings.Builder

	sb.WriteString(name)
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", arg)
	}
	sb.WriteByte(')')

	if len(kwargs) > 0 {
		keys := make([]string, 0, len(kwargs))
		for k := range kwargs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, kwargs[k])
		}
		sb.WriteByte('}')
	}

	full := sb.String()
	if len(full) < MaxKeyLength {
		return full
	}

	sum := sha1.Sum([]byte(full))
	return full[:truncateLength] + "_" + hex.EncodeToString(sum[:])
}

// Operation returns the operation name component of a key, i.e. everything
// before the first "(".
func Operation(key string) string {
	if i := strings.IndexByte(key, '('); i >= 0 {
		return key[:i]
	}
	return key
}
