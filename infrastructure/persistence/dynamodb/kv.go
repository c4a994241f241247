// Package dynamodb provides a DynamoDB-backed KeyValueStore for
// deployments that keep the persisted collections in AWS instead of a
// local file. Each key maps to one item carrying the whole JSON blob.
package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"memoryvault/application/ports"
)

// Store is a DynamoDB-backed KeyValueStore over a table keyed by Key
type Store struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// kvItem is the DynamoDB item layout: the key attribute plus the
// whole-value blob.
type kvItem struct {
	Key   string `dynamodbav:"Key"`
	Value []byte `dynamodbav:"Value"`
}

// New creates a Store over the given table
func New(client *dynamodb.Client, tableName string, logger *zap.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Get implements ports.KeyValueStore. Reads are strongly consistent so
// a Put followed by a Get observes the written value.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item %q: %w", key, err)
	}
	if len(out.Item) == 0 {
		return nil, ports.ErrKeyNotFound
	}

	var item kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal item %q: %w", key, err)
	}
	return item.Value, nil
}

// Put implements ports.KeyValueStore
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(kvItem{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("marshal item %q: %w", key, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put item %q: %w", key, err)
	}
	s.logger.Debug("Persisted value",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
	)
	return nil
}

// Delete implements ports.KeyValueStore
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       itemKey(key),
	}); err != nil {
		return fmt.Errorf("delete item %q: %w", key, err)
	}
	return nil
}

// Close implements ports.KeyValueStore
func (s *Store) Close() error {
	return nil
}

func itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"Key": &types.AttributeValueMemberS{Value: key},
	}
}
