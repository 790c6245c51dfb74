package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"battleroyale/capacity"
	"battleroyale/models"
	"battleroyale/utils"
)

// GameQueryService serves the read-only secondary-index access patterns:
// open games by map (OpenGamesIndex) and games for a user (InvertedIndex).
// Failures are recorded on the tracker and surface as empty results so
// callers treat "none" and "failed" uniformly at the data level.
type GameQueryService struct {
	Dynamo *DynamoService
}

// OpenGamesByMap queries the OpenGamesIndex for games on the given map that
// still carry the open_timestamp marker. The raw candidate items are
// returned so the join path can reuse the exact record it selected.
func (gs *GameQueryService) OpenGamesByMap(ctx context.Context, tracker *capacity.Tracker, mapName string) []map[string]types.AttributeValue {
	operation := fmt.Sprintf("query_open_games_map_%s", mapName)

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("map").Equal(expression.Value(mapName))).
		WithFilter(expression.AttributeExists(expression.Name("open_timestamp"))).
		Build()
	if err != nil {
		tracker.MarkFailed(fmt.Sprintf("failed to build open games query: %v", err))
		return nil
	}

	output, err := gs.Dynamo.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(models.GamesTable),
		IndexName:                 aws.String(models.OpenGamesIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		gs.recordQueryFailure(tracker, models.OpenGamesIndex, err)
		return nil
	}

	tracker.Record(operation, capacity.Single(output.ConsumedCapacity))
	slog.Info("queried open games", "map", mapName, "count", len(output.Items))
	return output.Items
}

// GamesForUser queries the InvertedIndex for every membership row of a
// user, one GameRef per row. Rows without a derivable game id are dropped.
func (gs *GameQueryService) GamesForUser(ctx context.Context, tracker *capacity.Tracker, userID string) []models.GameRef {
	operation := fmt.Sprintf("query_user_games_%s", userID)

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("SK").Equal(expression.Value(models.UserKey(userID)))).
		Build()
	if err != nil {
		tracker.MarkFailed(fmt.Sprintf("failed to build user games query: %v", err))
		return nil
	}

	output, err := gs.Dynamo.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(models.GamesTable),
		IndexName:                 aws.String(models.InvertedIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		gs.recordQueryFailure(tracker, models.InvertedIndex, err)
		return nil
	}

	tracker.Record(operation, capacity.Single(output.ConsumedCapacity))

	refs := make([]models.GameRef, 0, len(output.Items))
	for _, item := range output.Items {
		gameID := utils.ExtractGameID(item)
		if gameID == "" {
			continue
		}
		refs = append(refs, models.GameRef{GameID: gameID, Username: userID})
	}

	slog.Info("queried user games", "user_id", userID, "count", len(refs))
	return refs
}

// recordQueryFailure distinguishes a missing GSI, which is a deployment
// defect, from transient query failures.
func (gs *GameQueryService) recordQueryFailure(tracker *capacity.Tracker, indexName string, err error) {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		slog.Error("GSI not found", "index", indexName, "error", err)
		tracker.MarkFailed(fmt.Sprintf("GSI not found: %v", err))
		return
	}
	slog.Error("query failed", "index", indexName, "error", err)
	tracker.MarkFailed(fmt.Sprintf("DynamoDB error: %v", err))
}
