package utils

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"battleroyale/models"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractNumber safely extracts a numeric attribute in its raw string form.
// Callers that need typed values unmarshal the whole item instead; this is
// for the places that only log the value.
func ExtractNumber(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractGameID derives a game id from an item returned by a query. Items
// carry either a direct game_id attribute or a GAME#-prefixed partition
// key; the key form covers index projections that omit game_id. Returns ""
// when neither is present.
func ExtractGameID(item map[string]types.AttributeValue) string {
	if id := ExtractString(item, "game_id"); id != "" {
		return id
	}
	if pk := ExtractString(item, "PK"); strings.HasPrefix(pk, models.GameKeyPrefix) {
		return strings.TrimPrefix(pk, models.GameKeyPrefix)
	}
	return ""
}

// ExtractUsername derives a username from the username attribute, falling
// back to a USER#-prefixed partition key.
func ExtractUsername(item map[string]types.AttributeValue) string {
	if name := ExtractString(item, "username"); name != "" {
		return name
	}
	if pk := ExtractString(item, "PK"); strings.HasPrefix(pk, models.UserKeyPrefix) {
		return strings.TrimPrefix(pk, models.UserKeyPrefix)
	}
	return ""
}
