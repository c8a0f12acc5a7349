package kvstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a document does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Page is one page of document ids returned by ListKeys.
type Page struct {
	// Keys are the document ids on this page.
	Keys []string
	// NextCursor resumes listing after this page. Empty on the last page.
	NextCursor string
}

// Store is an abstraction for the remote cache tier: a key-value store that
// holds one snapshot document per cache id.
//
// Documents are raw JSON bytes; callers own the compression envelope (see
// EncodeDocument/DecodeDocument). Implementations must be safe for concurrent
// use.
type Store interface {
	// Get fetches the document stored under id.
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, id string) ([]byte, error)

	// Put writes the document under id with the given time-to-live in days.
	// Backends without native expiry may ignore ttlDays.
	Put(ctx context.Context, id string, doc []byte, ttlDays float64) error

	// Delete removes the document stored under id.
	// Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// ListKeys returns up to limit document ids, resuming at cursor.
	ListKeys(ctx context.Context, limit int, cursor string) (Page, error)

	// Enabled reports whether the store is usable. A disabled store is
	// skipped by the cache without error.
	Enabled() bool
}
