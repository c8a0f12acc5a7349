package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/memogo/kvstore"
)

// Client is the interface for S3 operations used by the store.
type Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store implements kvstore.Store for S3: one snapshot object per cache id,
// stored as "<prefix>/<id>.json".
//
// S3 has no per-item TTL, so ttlDays is ignored on Put; configure a bucket
// lifecycle rule on the prefix if remote documents should expire.
type Store struct {
	client Client
	bucket string
	prefix string
}

// New creates a Store using the default AWS configuration chain.
// rootPrefix is prepended to all object keys (e.g. "cache/").
func New(ctx context.Context, bucket, rootPrefix string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	return NewFromClient(s3.NewFromConfig(cfg), bucket, rootPrefix), nil
}

// NewFromClient creates a Store with an explicit client. Useful for custom
// endpoints and for tests.
func NewFromClient(client Client, bucket, rootPrefix string) *Store {
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
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, kvstore.ErrNotFound
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, kvstore.ErrNotFound
		}
		return nil, fmt.Errorf("s3: get %q: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: read %q: %w", id, err)
	}
	return doc, nil
}

// Put writes the document under id. ttlDays is ignored, see Store docs.
func (s *Store) Put(ctx context.Context, id string, doc []byte, _ float64) error {
	uploader := manager.NewUploader(s.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(doc),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3: put %q: %w", id, err)
	}
	return nil
}

// Delete removes the document stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("s3: delete %q: %w", id, err)
	}
	return nil
}

// ListKeys returns up to limit cache ids, resuming at cursor.
// The cursor is an S3 continuation token.
func (s *Store) ListKeys(ctx context.Context, limit int, cursor string) (kvstore.Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}
	if limit > 0 {
		input.MaxKeys = aws.Int32(int32(limit)) //nolint:gosec // limit is a page size
	}
	if cursor != "" {
		input.ContinuationToken = aws.String(cursor)
	}

	resp, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return kvstore.Page{}, fmt.Errorf("s3: list keys: %w", err)
	}

	var page kvstore.Page
	for _, obj := range resp.Contents {
		name := aws.ToString(obj.Key)
		if s.prefix != "" {
			name = strings.TrimPrefix(strings.TrimPrefix(name, s.prefix), "/")
		}
		page.Keys = append(page.Keys, strings.TrimSuffix(name, ".json"))
	}
	if aws.ToBool(resp.IsTruncated) {
		page.NextCursor = aws.ToString(resp.NextContinuationToken)
	}
	return page, nil
}
