package models

import "fmt"

// Table and index names for the battle-royale single-table layout.
const (
	GamesTable     = "battle-royale"
	OpenGamesIndex = "OpenGamesIndex"
	InvertedIndex  = "InvertedIndex"
)

// MaxPlayers is the hard capacity ceiling per game. The join transaction
// conditions on people <= MaxPlayers-1 so the post-increment count never
// exceeds it.
const MaxPlayers = 500

// Key prefixes used by the single-table key schema.
const (
	GameKeyPrefix     = "GAME#"
	UserKeyPrefix     = "USER#"
	MetadataKeyPrefix = "#METADATA#"
)

// Game is the metadata item for a game, stored under
// PK=GAME#<id>, SK=#METADATA#<id>.
type Game struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GameID        string `dynamodbav:"game_id,omitempty"`
	Map           string `dynamodbav:"map,omitempty"`
	Creator       string `dynamodbav:"creator,omitempty"`
	People        int    `dynamodbav:"people,omitempty"`
	MaxPeople     int    `dynamodbav:"max_people,omitempty"`
	OpenTimestamp int64  `dynamodbav:"open_timestamp,omitempty"`
}

// Membership records that a user has joined a game, stored under
// PK=GAME#<id>, SK=USER#<name>. Created exactly once per pair by the
// join transaction.
type Membership struct {
	PK       string `dynamodbav:"PK"`
	SK       string `dynamodbav:"SK"`
	GameID   string `dynamodbav:"game_id"`
	Username string `dynamodbav:"username"`
}

// GameRef is a lightweight reference to a game a user belongs to,
// produced by the inverted-index query.
type GameRef struct {
	GameID   string `json:"game_id"`
	Username string `json:"username"`
}

// GameDetail is the bulk-lookup view of a game's metadata.
type GameDetail struct {
	GameID        string `dynamodbav:"game_id" json:"game_id"`
	Map           string `dynamodbav:"map" json:"map"`
	People        int    `dynamodbav:"people" json:"people"`
	MaxPeople     int    `dynamodbav:"max_people" json:"max_people"`
	OpenTimestamp int64  `dynamodbav:"open_timestamp,omitempty" json:"open_timestamp,omitempty"`
}

// GameKey returns the partition key value for a game id.
func GameKey(gameID string) string {
	return GameKeyPrefix + gameID
}

// GameMetadataKey returns the sort key value for a game's metadata item.
func GameMetadataKey(gameID string) string {
	return fmt.Sprintf("%s%s", MetadataKeyPrefix, gameID)
}

// UserKey returns the sort key value for a membership item.
func UserKey(username string) string {
	return UserKeyPrefix + username
}

// NewMembership builds the membership item for a (game, user) pair.
func NewMembership(gameID, username string) Membership {
	return Membership{
		PK:       GameKey(gameID),
		SK:       UserKey(username),
		GameID:   gameID,
		Username: username,
	}
}
