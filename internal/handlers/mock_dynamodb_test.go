package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo backs the record store in handler tests: PutItem/GetItem plus
// the created_at-index query shapes, everything in one page.
type mockDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	putCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++

	idAttr, ok := params.Item["id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing id in put item")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(id)" {
		if _, exists := m.items[idAttr.Value]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[idAttr.Value] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idAttr, ok := params.Key["id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing id key")
	}
	item, ok := m.items[idAttr.Value]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := params.ExpressionAttributeValues[":rt"].(*types.AttributeValueMemberS).Value
	matched := make([]map[string]types.AttributeValue, 0, len(m.items))
	for _, item := range m.items {
		if rt, ok := item["record_type"].(*types.AttributeValueMemberS); ok && rt.Value == want {
			matched = append(matched, item)
		}
	}

	if params.Select == types.SelectCount {
		return &dyn.QueryOutput{Count: int32(len(matched))}, nil
	}

	sort.Slice(matched, func(i, j int) bool {
		a := matched[i]["created_at"].(*types.AttributeValueMemberS).Value
		b := matched[j]["created_at"].(*types.AttributeValueMemberS).Value
		if params.ScanIndexForward != nil && !*params.ScanIndexForward {
			return a > b
		}
		return a < b
	})
	if params.Limit != nil && int(*params.Limit) < len(matched) {
		matched = matched[:*params.Limit]
	}
	return &dyn.QueryOutput{Items: matched, Count: int32(len(matched))}, nil
}
