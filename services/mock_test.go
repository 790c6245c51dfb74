package services

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type apiCall[T, U any] func(context.Context, *T, ...func(*dynamodb.Options)) (*U, error)

// mockDynamoAPI is an expectation-based mock: tests set the call fields
// they expect, everything else fails the test.
type mockDynamoAPI struct {
	QueryFunc         apiCall[dynamodb.QueryInput, dynamodb.QueryOutput]
	ScanFunc          apiCall[dynamodb.ScanInput, dynamodb.ScanOutput]
	BatchGetFunc      apiCall[dynamodb.BatchGetItemInput, dynamodb.BatchGetItemOutput]
	TransactWriteFunc apiCall[dynamodb.TransactWriteItemsInput, dynamodb.TransactWriteItemsOutput]
}

var _ DynamoDBAPI = (*mockDynamoAPI)(nil)

func newMockDynamoAPI(t *testing.T) *mockDynamoAPI {
	return &mockDynamoAPI{
		QueryFunc:         unexpectedCall[dynamodb.QueryInput, dynamodb.QueryOutput](t),
		ScanFunc:          unexpectedCall[dynamodb.ScanInput, dynamodb.ScanOutput](t),
		BatchGetFunc:      unexpectedCall[dynamodb.BatchGetItemInput, dynamodb.BatchGetItemOutput](t),
		TransactWriteFunc: unexpectedCall[dynamodb.TransactWriteItemsInput, dynamodb.TransactWriteItemsOutput](t),
	}
}

func unexpectedCall[T, U any](t *testing.T) apiCall[T, U] {
	return func(ctx context.Context, params *T, optFns ...func(*dynamodb.Options)) (*U, error) {
		t.Helper()
		t.Fatalf("unexpected %T call", params)
		return nil, nil
	}
}

func (m *mockDynamoAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return m.QueryFunc(ctx, params, optFns...)
}

func (m *mockDynamoAPI) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return m.ScanFunc(ctx, params, optFns...)
}

func (m *mockDynamoAPI) BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	return m.BatchGetFunc(ctx, params, optFns...)
}

func (m *mockDynamoAPI) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return m.TransactWriteFunc(ctx, params, optFns...)
}
