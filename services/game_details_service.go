package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"battleroyale/capacity"
	"battleroyale/models"
	"battleroyale/utils"
)

// batchGetLimit is DynamoDB's per-call item ceiling for BatchGetItem.
const batchGetLimit = 100

// GameDetailsService fetches game metadata in bulk by primary key.
type GameDetailsService struct {
	Dynamo *DynamoService
}

// GameDetails looks up metadata for the given game ids in batches of at
// most 100 keys, one bulk-read call per batch, each reported to the
// tracker under a batch-indexed operation name. A failed batch ends the
// lookup but keeps the results gathered so far: callers display the games
// they know about even when a later batch failed.
func (gd *GameDetailsService) GameDetails(ctx context.Context, tracker *capacity.Tracker, gameIDs []string) []models.GameDetail {
	if len(gameIDs) == 0 {
		return nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: models.GameKey(gameID)},
			"SK": &types.AttributeValueMemberS{Value: models.GameMetadataKey(gameID)},
		})
	}

	var details []models.GameDetail
	for start := 0; start < len(keys); start += batchGetLimit {
		end := start + batchGetLimit
		if end > len(keys) {
			end = len(keys)
		}

		operation := fmt.Sprintf("get_game_details_batch_%d", start/batchGetLimit)
		output, err := gd.Dynamo.BatchGet(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				models.GamesTable: {
					Keys:           keys[start:end],
					ConsistentRead: aws.Bool(false),
				},
			},
		})
		if err != nil {
			slog.Error("batch get failed", "batch", start/batchGetLimit, "error", err)
			tracker.MarkFailed(fmt.Sprintf("failed to get game details: %v", err))
			return details
		}

		tracker.Record(operation, capacity.Many(output.ConsumedCapacity))

		for _, item := range output.Responses[models.GamesTable] {
			var detail models.GameDetail
			if err := attributevalue.UnmarshalMap(item, &detail); err != nil {
				slog.Warn("skipping malformed game item", "error", err)
				continue
			}
			if detail.GameID == "" {
				detail.GameID = utils.ExtractGameID(item)
			}
			details = append(details, detail)
		}
	}

	slog.Info("retrieved game details", "count", len(details))
	return details
}
