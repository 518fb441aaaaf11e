package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-watch-store/internal/aws"
	"github.com/imrishuroy/go-watch-store/internal/docstore"
)

// Store encapsulates idempotency operations against DynamoDB.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration // default TTL window when creating entries
	nowFunc   func() time.Time
}

// NewStore returns a Store on the idempotency collection of docs.
// ttlWindow: default TTL window (e.g., 48*time.Hour)
func NewStore(docs *docstore.Store, ttlWindow time.Duration) *Store {
	return &Store{
		client:    docs.Client(),
		tableName: docs.TableName(Collection),
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// WithClock replaces the store's time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.nowFunc = now
	return s
}

// ErrConditionFailed indicates a conditional write failed (e.g., the record is no longer IN_PROGRESS)
var ErrConditionFailed = errors.New("conditional check failed")

// CreateIfNotExists creates an IN_PROGRESS record for key, bound to cartID.
// Returns (created=true, nil) if successfully created, including over an expired record.
// Returns (created=false, nil) if a live record already exists (caller should Get to inspect).
// Returns (created=false, err) on other errors.
func (s *Store) CreateIfNotExists(ctx context.Context, key, cartID string) (bool, error) {
	now := s.nowFunc().UTC()
	rec := IdempotencyRecord{
		IdempotencyKey: key,
		CartID:         cartID,
		Status:         StatusInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:                &s.tableName,
		Item:                     item,
		ConditionExpression:      sdkaws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": docstore.IDAttribute},
	})
	if err == nil {
		return true, nil
	}
	if !isConditionFailure(err) {
		return false, fmt.Errorf("put item: %w", err)
	}

	// DynamoDB deletes expired items lazily; an expired record is taken over.
	prev, err := s.load(ctx, key)
	if err != nil {
		return false, err
	}
	if prev == nil || !s.expired(prev) {
		return false, nil
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:                 &s.tableName,
		Item:                      item,
		ConditionExpression:       sdkaws.String("#e = :prev"),
		ExpressionAttributeNames:  map[string]string{"#e": TTLAttribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{":prev": &types.AttributeValueMemberN{Value: strconv.FormatInt(prev.ExpiresAt, 10)}},
	})
	if err != nil {
		if isConditionFailure(err) {
			return false, nil
		}
		return false, fmt.Errorf("put item (take over): %w", err)
	}
	return true, nil
}

// Get retrieves a live idempotency record by key. Missing and expired records return (nil, nil).
func (s *Store) Get(ctx context.Context, key string) (*IdempotencyRecord, error) {
	rec, err := s.load(ctx, key)
	if err != nil || rec == nil || s.expired(rec) {
		return nil, err
	}
	return rec, nil
}

func (s *Store) load(ctx context.Context, key string) (*IdempotencyRecord, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       keyOf(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec IdempotencyRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &rec, nil
}

func (s *Store) expired(rec *IdempotencyRecord) bool {
	return rec.ExpiresAt > 0 && s.nowFunc().Unix() >= rec.ExpiresAt
}

// MarkDone moves an IN_PROGRESS record to DONE and stores the response to replay for duplicates.
func (s *Store) MarkDone(ctx context.Context, key, orderID, responseBody string, responseStatus int) error {
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              keyOf(key),
		UpdateExpression: sdkaws.String("SET #s = :done, order_id = :oid, response_body = :rb, response_status = :rs, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":done":     &types.AttributeValueMemberS{Value: StatusDone},
			":oid":      &types.AttributeValueMemberS{Value: orderID},
			":rb":       &types.AttributeValueMemberS{Value: responseBody},
			":rs":       &types.AttributeValueMemberN{Value: strconv.Itoa(responseStatus)},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":progress": &types.AttributeValueMemberS{Value: StatusInProgress},
		},
		ConditionExpression: sdkaws.String("#s = :progress"),
		ReturnValues:        types.ReturnValueUpdatedNew,
	})
	if err != nil {
		if isConditionFailure(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("update item (mark done): %w", err)
	}
	return nil
}

// Release deletes an IN_PROGRESS record so the client can retry with the same key.
func (s *Store) Release(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:                 &s.tableName,
		Key:                       keyOf(key),
		ConditionExpression:       sdkaws.String("#s = :progress"),
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":progress": &types.AttributeValueMemberS{Value: StatusInProgress}},
	})
	if err != nil {
		if isConditionFailure(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("delete item (release): %w", err)
	}
	return nil
}

func keyOf(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		docstore.IDAttribute: &types.AttributeValueMemberS{Value: key},
	}
}

func isConditionFailure(err error) bool {
	var sc smithy.APIError
	return errors.As(err, &sc) && sc.ErrorCode() == "ConditionalCheckFailedException"
}
