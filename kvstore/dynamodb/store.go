package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/memogo/kvstore"
)

// Client is the interface for DynamoDB operations used by the store.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements kvstore.Store backed by a DynamoDB table.
//
// One item per cache id. Item expiry uses DynamoDB's native TTL mechanism on
// the "ttl" attribute (epoch seconds).
//
// Table schema:
//   - Partition key: cache_id (string)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name memogo-cache \
//	  --attribute-definitions AttributeName=cache_id,AttributeType=S \
//	  --key-schema AttributeName=cache_id,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
//	aws dynamodb update-time-to-live \
//	  --table-name memogo-cache \
//	  --time-to-live-specification Enabled=true,AttributeName=ttl
type Store struct {
	client Client
	table  string
}

// New creates a Store using the default AWS configuration chain.
func New(ctx context.Context, table string) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}
	return NewFromClient(dynamodb.NewFromConfig(cfg), table), nil
}

// NewFromClient creates a Store with an explicit client. Useful for custom
// endpoints and for tests.
func NewFromClient(client Client, table string) *Store {
	return &Store{client: client, table: table}
}

// Enabled reports whether the store has a client and a table configured.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil && s.table != ""
}

// Get fetches the document stored under id.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"cache_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: get %q: %w", id, err)
	}
	if len(resp.Item) == 0 {
		return nil, kvstore.ErrNotFound
	}

	doc, ok := resp.Item["document"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("dynamodb: invalid document attribute for %q", id)
	}
	return []byte(doc.Value), nil
}

// Put writes the document under id with expiry ttlDays from now.
func (s *Store) Put(ctx context.Context, id string, doc []byte, ttlDays float64) error {
	now := time.Now()
	expiry := now.Add(time.Duration(ttlDays * 24 * float64(time.Hour)))

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"cache_id":   &types.AttributeValueMemberS{Value: id},
			"document":   &types.AttributeValueMemberS{Value: string(doc)},
			"ttl":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiry.Unix())},
			"updated_at": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put %q: %w", id, err)
	}
	return nil
}

// Delete removes the document stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"cache_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb: delete %q: %w", id, err)
	}
	return nil
}

// ListKeys returns up to limit cache ids, resuming at cursor.
func (s *Store) ListKeys(ctx context.Context, limit int, cursor string) (kvstore.Page, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		ProjectionExpression: aws.String("cache_id"),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit)) //nolint:gosec // limit is a page size
	}
	if cursor != "" {
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			"cache_id": &types.AttributeValueMemberS{Value: cursor},
		}
	}

	resp, err := s.client.Scan(ctx, input)
	if err != nil {
		return kvstore.Page{}, fmt.Errorf("dynamodb: list keys: %w", err)
	}

	var page kvstore.Page
	for _, item := range resp.Items {
		if id, ok := item["cache_id"].(*types.AttributeValueMemberS); ok {
			page.Keys = append(page.Keys, id.Value)
		}
	}
	if last, ok := resp.LastEvaluatedKey["cache_id"].(*types.AttributeValueMemberS); ok {
		page.NextCursor = last.Value
	}
	return page, nil
}
