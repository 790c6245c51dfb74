package services

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"battleroyale/capacity"
	"battleroyale/models"
)

func TestJoinBuildsConditionalTransaction(t *testing.T) {
	var captured *dynamodb.TransactWriteItemsInput

	mock := newMockDynamoAPI(t)
	mock.TransactWriteFunc = func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
		captured = params
		return &dynamodb.TransactWriteItemsOutput{}, nil
	}

	service := NewJoinService(&DynamoService{Client: mock})
	tracker := capacity.NewTracker()

	if !service.Join(context.Background(), tracker, gameItem("g1", "Haunted Hills"), "alice") {
		t.Fatal("Expected join to succeed")
	}

	if len(captured.TransactItems) != 2 {
		t.Fatalf("Expected 2 transaction statements, got %d", len(captured.TransactItems))
	}

	put := captured.TransactItems[0].Put
	if put == nil {
		t.Fatal("Expected first statement to be the membership Put")
	}
	if !strings.Contains(*put.ConditionExpression, "attribute_not_exists") {
		t.Errorf("Expected existence condition on membership, got %q", *put.ConditionExpression)
	}
	var membership models.Membership
	if err := attributevalue.UnmarshalMap(put.Item, &membership); err != nil {
		t.Fatalf("Failed to unmarshal membership item: %v", err)
	}
	if membership.PK != "GAME#g1" || membership.SK != "USER#alice" {
		t.Errorf("Unexpected membership keys: %+v", membership)
	}
	if membership.GameID != "g1" || membership.Username != "alice" {
		t.Errorf("Unexpected membership attributes: %+v", membership)
	}

	update := captured.TransactItems[1].Update
	if update == nil {
		t.Fatal("Expected second statement to be the counter Update")
	}
	if update.ConditionExpression == nil {
		t.Fatal("Expected capacity condition on the update")
	}
	if !hasNumberValue(update.ExpressionAttributeValues, "499") {
		t.Errorf("Expected pre-increment ceiling 499 in values, got %v", update.ExpressionAttributeValues)
	}
	if !hasNumberValue(update.ExpressionAttributeValues, "1") {
		t.Errorf("Expected increment of exactly 1 in values, got %v", update.ExpressionAttributeValues)
	}
	if key := update.Key["SK"].(*types.AttributeValueMemberS).Value; key != "#METADATA#g1" {
		t.Errorf("Expected metadata sort key, got %q", key)
	}
}

func TestJoinRecordsTransactionConsumption(t *testing.T) {
	mock := newMockDynamoAPI(t)
	mock.TransactWriteFunc = func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
		return &dynamodb.TransactWriteItemsOutput{
			ConsumedCapacity: []types.ConsumedCapacity{
				{Table: &types.Capacity{CapacityUnits: aws.Float64(2)}},
				{Table: &types.Capacity{WriteCapacityUnits: aws.Float64(4)}},
			},
		}, nil
	}

	service := NewJoinService(&DynamoService{Client: mock})
	tracker := capacity.NewTracker()

	if !service.Join(context.Background(), tracker, gameItem("g7", "Open Ocean"), "bob") {
		t.Fatal("Expected join to succeed")
	}

	rec := tracker.Snapshot()
	if rec.WCU != 6 {
		t.Errorf("Expected wcu 6 from both statements, got %v", rec.WCU)
	}
	if len(rec.Operations) != 1 || rec.Operations[0] != "join_game_transaction" {
		t.Errorf("Expected the fixed join operation name, got %v", rec.Operations)
	}
}

func TestJoinConditionRejectionIsTerminal(t *testing.T) {
	mock := newMockDynamoAPI(t)
	mock.TransactWriteFunc = func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
		return nil, &types.TransactionCanceledException{
			Message: aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons"),
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("None")},
				{Code: aws.String("ConditionalCheckFailed")},
			},
		}
	}

	service := NewJoinService(&DynamoService{Client: mock})
	tracker := capacity.NewTracker()

	if service.Join(context.Background(), tracker, gameItem("g1", "Haunted Hills"), "alice") {
		t.Fatal("Expected join to fail on condition rejection")
	}

	rec := tracker.Snapshot()
	if rec.Status != capacity.StatusFailed {
		t.Fatal("Expected failed status")
	}
	if !strings.Contains(rec.Error, "transaction error") {
		t.Errorf("Expected transaction error message, got %q", rec.Error)
	}
	if len(rec.Operations) != 0 {
		t.Errorf("Rejected transaction must not record consumption, got %v", rec.Operations)
	}
}

func TestJoinFailsWithoutDerivableGameID(t *testing.T) {
	// No transact expectation: the call must never reach the store.
	mock := newMockDynamoAPI(t)

	service := NewJoinService(&DynamoService{Client: mock})
	tracker := capacity.NewTracker()

	candidate := map[string]types.AttributeValue{
		"map": &types.AttributeValueMemberS{Value: "Foggy Forest"},
	}
	if service.Join(context.Background(), tracker, candidate, "carol") {
		t.Fatal("Expected join to fail without a game id")
	}

	rec := tracker.Snapshot()
	if rec.Status != capacity.StatusFailed {
		t.Fatal("Expected failed status")
	}
	if !strings.Contains(rec.Error, "game id") {
		t.Errorf("Expected extraction error message, got %q", rec.Error)
	}
}

func hasNumberValue(values map[string]types.AttributeValue, want string) bool {
	for _, value := range values {
		if n, ok := value.(*types.AttributeValueMemberN); ok && n.Value == want {
			return true
		}
	}
	return false
}
