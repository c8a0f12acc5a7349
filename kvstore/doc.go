// Package kvstore provides the storage abstraction for memogo's remote cache
// tier.
//
// Store is the interface for reading and writing snapshot documents keyed by
// cache id. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: In-memory store for testing
//   - dynamodb.Store: Amazon DynamoDB with native item expiry
//   - s3.Store: Amazon S3, one object per cache id
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Compression Envelope
//
// Snapshot documents above CompressThreshold bytes are gzip-compressed and
// base64-wrapped before the remote write:
//
//	{"_compressed": true, "data": "<base64 of gzip(doc)>"}
//
// EncodeDocument and DecodeDocument implement both directions. Documents whose
// compressed form still exceeds MaxItemSize are rejected with ErrTooLarge and
// must not be written.
//
// # Custom Implementations
//
// Implement the Store interface to support custom backends:
//
//	type Store interface {
//	    Get(ctx, id) ([]byte, error)            // ErrNotFound when missing
//	    Put(ctx, id, doc, ttlDays) error
//	    Delete(ctx, id) error
//	    ListKeys(ctx, limit, cursor) (Page, error)
//	    Enabled() bool
//	}
package kvstore
