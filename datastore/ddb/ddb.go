/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/errors"
	"github.com/graymoor/mudstore/logging"
)

var log = logging.Get("ddb")

// keyAttr is the partition key attribute on the backing table.
const keyAttr = "K"

// Store implements datastore.Backend on a DynamoDB table with a single
// string partition key.
type Store struct {
	client *sdk.Client
	table  string
}

// NewClient initializes a DynamoDB client from static credentials.
func NewClient(accessKey, secretKey, region string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// New constructs a Store over an existing client and table.
func New(client *sdk.Client, table string) *Store {
	log.Debugw("dynamodb backend initialized", "table", table)
	return &Store{client: client, table: table}
}

// NewWithCredentials constructs a client and Store in one call.
func NewWithCredentials(accessKey, secretKey, region, table string) (*Store, error) {
	client, err := NewClient(accessKey, secretKey, region)
	if err != nil {
		return nil, err
	}
	return New(client, table), nil
}

func (s *Store) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: key},
	}
}

// Has reports whether a key exists, fetching only the key attribute.
func (s *Store) Has(key string) (bool, error) {
	out, err := s.client.GetItem(context.TODO(), &sdk.GetItemInput{
		TableName:            &s.table,
		Key:                  s.itemKey(key),
		ProjectionExpression: aws.String("#k"),
		ExpressionAttributeNames: map[string]string{
			"#k": keyAttr,
		},
	})
	if err != nil {
		return false, fmt.Errorf("GetItem error: %w", err)
	}
	return out.Item != nil, nil
}

// Get retrieves and unmarshals the record stored under a key.
func (s *Store) Get(key string) (datastore.Record, error) {
	out, err := s.client.GetItem(context.TODO(), &sdk.GetItemInput{
		TableName: &s.table,
		Key:       s.itemKey(key),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError("record", key)
	}
	rec := make(datastore.Record)
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	delete(rec, keyAttr)
	return rec, nil
}

// Put marshals a record and writes it under a key.
func (s *Store) Put(key string, rec datastore.Record) error {
	av, err := attributevalue.MarshalMap(map[string]any(rec))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	av[keyAttr] = &types.AttributeValueMemberS{Value: key}

	_, err = s.client.PutItem(context.TODO(), &sdk.PutItemInput{
		TableName: &s.table,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// Delete removes the item stored under a key.
func (s *Store) Delete(key string) error {
	_, err := s.client.DeleteItem(context.TODO(), &sdk.DeleteItemInput{
		TableName: &s.table,
		Key:       s.itemKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// Keys scans the table, fetching only the key attribute.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(context.TODO(), &sdk.ScanInput{
			TableName:            &s.table,
			ProjectionExpression: aws.String("#k"),
			ExpressionAttributeNames: map[string]string{
				"#k": keyAttr,
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("Scan error: %w", err)
		}
		for _, item := range out.Items {
			if v, ok := item[keyAttr].(*types.AttributeValueMemberS); ok {
				keys = append(keys, v.Value)
			}
		}
		if out.LastEvaluatedKey == nil {
			return keys, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
