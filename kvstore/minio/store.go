package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/memogo/kvstore"
)

// Store implements kvstore.Store for MinIO and S3-compatible object storage.
// One snapshot object per cache id, stored as "<prefix>/<id>.json".
//
// Object stores have no per-item TTL; ttlDays is ignored on Put. Use bucket
// lifecycle rules if remote documents should expire.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a new MinIO document store.
// rootPrefix is prepended to all object keys (e.g. "cache/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: rootPrefix}
}

func (s *Store) key(id string) string {
	return path.Join(s.prefix, id+".json")
}

// Enabled reports whether the store has a client and a bucket configured.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil && s.bucket != ""
}

// Get fetches the document stored under id.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get %q: %w", id, err)
	}
	defer func() { _ = obj.Close() }()

	doc, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, kvstore.ErrNotFound
		}
		return nil, fmt.Errorf("minio: read %q: %w", id, err)
	}
	return doc, nil
}

// Put writes the document under id. ttlDays is ignored, see Store docs.
func (s *Store) Put(ctx context.Context, id string, doc []byte, _ float64) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(id), bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("minio: put %q: %w", id, err)
	}
	return nil
}

// Delete removes the document stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(id), minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil // Already gone
		}
		return fmt.Errorf("minio: delete %q: %w", id, err)
	}
	return nil
}

// ListKeys returns up to limit cache ids in lexical order, resuming after
// cursor. The cursor is the last id of the previous page.
func (s *Store) ListKeys(ctx context.Context, limit int, cursor string) (kvstore.Page, error) {
	startAfter := ""
	if cursor != "" {
		startAfter = s.key(cursor)
	}

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:     s.prefix,
		Recursive:  true,
		StartAfter: startAfter,
	})

	var page kvstore.Page
	for obj := range objects {
		if obj.Err != nil {
			return kvstore.Page{}, fmt.Errorf("minio: list keys: %w", obj.Err)
		}
		if limit > 0 && len(page.Keys) == limit {
			page.NextCursor = page.Keys[len(page.Keys)-1]
			break
		}
		name := obj.Key
		if s.prefix != "" {
			name = strings.TrimPrefix(strings.TrimPrefix(name, s.prefix), "/")
		}
		page.Keys = append(page.Keys, strings.TrimSuffix(name, ".json"))
	}
	return page, nil
}
