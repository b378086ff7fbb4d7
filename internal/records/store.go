package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/imrishuroy/go-qrcode-api/internal/aws"
	"github.com/imrishuroy/go-qrcode-api/internal/qrcode"
)

// Listing defaults when the caller omits pagination parameters. No upper
// bound on limit is enforced here; abuse is the rate limiter's problem.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// TTLWindow is how long records live. Expiry is enforced by DynamoDB's TTL
// sweeper against expires_at, so removal is best-effort and asynchronous.
const TTLWindow = 30 * 24 * time.Hour

// createdAtIndex is the GSI on (record_type, created_at) serving
// newest-first listings.
const createdAtIndex = "created_at-index"

// Store encapsulates operations on the QR codes table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	newID     func() string
}

// NewStore creates a new record Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		newID:     uuid.NewString,
	}
}

// Insert assigns an id, created_at and expires_at, persists the record and
// returns it in full. Input is stored trimmed of surrounding whitespace.
func (s *Store) Insert(ctx context.Context, input string, opts qrcode.RenderOptions, userID string) (*Record, error) {
	now := s.nowFunc().UTC()
	rec := Record{
		ID:         s.newID(),
		RecordType: recordType,
		Input:      strings.TrimSpace(input),
		Options:    opts,
		UserID:     userID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(TTLWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	put := &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
		// ids are UUIDs; the condition guards against the pathological collision
		ConditionExpression: awsString("attribute_not_exists(id)"),
	}
	if _, err := s.client.PutItem(ctx, put); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return nil, fmt.Errorf("id collision on insert: %w", err)
		}
		return nil, fmt.Errorf("put item: %w", err)
	}
	return &rec, nil
}

// GetByID fetches a record by id. Returns (nil, nil) if not found.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}

// ListRecent returns one page of records ordered by created_at descending,
// plus the total record count. skip = (page-1) * limit; the skipped window is
// read through the GSI and discarded, which is the usual offset-pagination
// trade-off on DynamoDB.
func (s *Store) ListRecent(ctx context.Context, page, limit int) ([]Record, int, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	skip := (page - 1) * limit
	want := skip + limit

	items, err := s.queryRecent(ctx, want)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.countAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	if skip >= len(items) {
		return []Record{}, total, nil
	}
	items = items[skip:]

	out := make([]Record, 0, len(items))
	for _, item := range items {
		var rec Record
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, 0, fmt.Errorf("unmarshal record: %w", err)
		}
		out = append(out, rec)
	}
	return out, total, nil
}

func (s *Store) queryRecent(ctx context.Context, want int) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for len(items) < want {
		out, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:              &s.tableName,
			IndexName:              awsString(createdAtIndex),
			KeyConditionExpression: awsString("record_type = :rt"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":rt": &types.AttributeValueMemberS{Value: recordType},
			},
			ScanIndexForward:  awsBool(false), // newest first
			Limit:             awsInt32(int32(want - len(items))),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query recent: %w", err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

func (s *Store) countAll(ctx context.Context) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:              &s.tableName,
			IndexName:              awsString(createdAtIndex),
			KeyConditionExpression: awsString("record_type = :rt"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":rt": &types.AttributeValueMemberS{Value: recordType},
			},
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("count records: %w", err)
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
func awsInt32(n int32) *int32    { return &n }
