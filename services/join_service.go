package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"battleroyale/capacity"
	"battleroyale/models"
	"battleroyale/utils"
)

// joinOperation is the fixed ledger name for the admission transaction.
const joinOperation = "join_game_transaction"

// JoinService is the transactional write path: it enrolls a user into a
// game only if that membership does not already exist and the game is
// below capacity. Both conditions are evaluated by DynamoDB inside one
// TransactWriteItems call, which closes the double-join and over-capacity
// races without any application-side locking.
type JoinService struct {
	Dynamo     *DynamoService
	MaxPlayers int
}

// NewJoinService returns a JoinService with the standard capacity ceiling.
func NewJoinService(dynamo *DynamoService) *JoinService {
	return &JoinService{Dynamo: dynamo, MaxPlayers: models.MaxPlayers}
}

// Join atomically adds username to the game described by candidate, a raw
// item from the open-games query. Returns false with the failure recorded
// on the tracker when the game id cannot be derived or either transaction
// condition is rejected. A rejection is terminal for this attempt; retrying
// would require re-fetching the candidate, which is the caller's decision.
func (js *JoinService) Join(ctx context.Context, tracker *capacity.Tracker, candidate map[string]types.AttributeValue, username string) bool {
	gameID := utils.ExtractGameID(candidate)
	if gameID == "" {
		slog.Error("could not determine game id from candidate record")
		tracker.MarkFailed("could not determine game id")
		return false
	}

	slog.Info("attempting to join game", "game_id", gameID, "username", username)

	input, err := js.buildTransaction(gameID, username)
	if err != nil {
		tracker.MarkFailed(fmt.Sprintf("failed to build join transaction: %v", err))
		return false
	}

	output, err := js.Dynamo.TransactWrite(ctx, input)
	if err != nil {
		slog.Error("join transaction rejected", "game_id", gameID, "username", username, "error", err)
		tracker.MarkFailed(fmt.Sprintf("transaction error: %v", err))
		return false
	}

	tracker.Record(joinOperation, capacity.Many(output.ConsumedCapacity))
	slog.Info("joined game", "game_id", gameID, "username", username)
	return true
}

// buildTransaction assembles the two-statement conditional write:
//   - put the membership item, conditioned on it not existing yet;
//   - increment the game's player count, conditioned on the pre-increment
//     count being at most MaxPlayers-1.
func (js *JoinService) buildTransaction(gameID, username string) (*dynamodb.TransactWriteItemsInput, error) {
	membership, err := attributevalue.MarshalMap(models.NewMembership(gameID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal membership: %w", err)
	}

	putExpr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("SK"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build membership condition: %w", err)
	}

	updateExpr, err := expression.NewBuilder().
		WithUpdate(expression.Set(
			expression.Name("people"),
			expression.Name("people").Plus(expression.Value(1)),
		)).
		WithCondition(expression.Name("people").LessThanEqual(expression.Value(js.MaxPlayers - 1))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build capacity condition: %w", err)
	}

	return &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:                aws.String(models.GamesTable),
					Item:                     membership,
					ConditionExpression:      putExpr.Condition(),
					ExpressionAttributeNames: putExpr.Names(),
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(models.GamesTable),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: models.GameKey(gameID)},
						"SK": &types.AttributeValueMemberS{Value: models.GameMetadataKey(gameID)},
					},
					UpdateExpression:          updateExpr.Update(),
					ConditionExpression:       updateExpr.Condition(),
					ExpressionAttributeNames:  updateExpr.Names(),
					ExpressionAttributeValues: updateExpr.Values(),
				},
			},
		},
	}, nil
}
