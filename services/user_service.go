package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"battleroyale/models"
	"battleroyale/utils"
)

// UserService picks actor usernames for sessions that were not given one.
type UserService struct {
	Dynamo *DynamoService
}

// RandomUsername scans a small sample of user metadata items and returns
// one username at random. The scan is a deliberate convenience fallback,
// not a tracked access pattern, so it reports nothing to any tracker. When
// the scan fails or the table holds no users, a synthetic user_<hex8> name
// is returned instead.
func (us *UserService) RandomUsername(ctx context.Context) string {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("PK").BeginsWith(models.UserKeyPrefix).
			And(expression.Name("SK").BeginsWith(models.MetadataKeyPrefix))).
		WithProjection(expression.NamesList(expression.Name("PK"))).
		Build()
	if err != nil {
		return syntheticUsername()
	}

	output, err := us.Dynamo.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(models.GamesTable),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(10),
	})
	if err != nil {
		slog.Error("failed to fetch users from table", "error", err)
		return syntheticUsername()
	}

	if len(output.Items) == 0 {
		slog.Warn("no users found in table, generating a random username")
		return syntheticUsername()
	}

	item := output.Items[rand.Intn(len(output.Items))]
	username := utils.ExtractUsername(item)
	if username == "" {
		return syntheticUsername()
	}

	slog.Info("selected random user", "username", username)
	return username
}

func syntheticUsername() string {
	id := uuid.New()
	return fmt.Sprintf("user_%x", id[:4])
}
