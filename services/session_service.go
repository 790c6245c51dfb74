package services

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"battleroyale/capacity"
	"battleroyale/models"
	"battleroyale/usagelog"
)

// Module names stamped onto the emitted usage records.
const (
	JoinGameModule  = "join-game"
	UserGamesModule = "query-user-games"
	OpenGamesModule = "query-open-games"
	unknownActor    = "N/A"
)

// SessionService composes the query, join, and lookup services into the two
// request kinds the system serves. One session is one tracker lifetime and
// produces exactly one emitted usage record, success or not.
type SessionService struct {
	Games   *GameQueryService
	Join    *JoinService
	Details *GameDetailsService
	Users   *UserService
	Usage   *usagelog.Logger
	Maps    []string
}

// NewSessionService wires a session service over one DynamoService.
func NewSessionService(dynamo *DynamoService, usage *usagelog.Logger) *SessionService {
	return &SessionService{
		Games:   &GameQueryService{Dynamo: dynamo},
		Join:    NewJoinService(dynamo),
		Details: &GameDetailsService{Dynamo: dynamo},
		Users:   &UserService{Dynamo: dynamo},
		Usage:   usage,
		Maps:    models.Maps,
	}
}

// JoinRandomGame runs one join session: pick a map at random, find its open
// games (falling back through every other map when it has none), pick a
// candidate, and run the admission transaction for username. When username
// is empty a random user is selected from the table. The accumulated usage
// record is emitted and returned regardless of outcome.
func (ss *SessionService) JoinRandomGame(ctx context.Context, username string) capacity.Record {
	tracker := capacity.NewTracker()

	selectedMap := ss.Maps[rand.Intn(len(ss.Maps))]
	slog.Info("selected map", "map", selectedMap)

	openGames := ss.Games.OpenGamesByMap(ctx, tracker, selectedMap)

	// Fall back through the remaining maps in order until one has an open
	// game or all are exhausted.
	if len(openGames) == 0 {
		slog.Warn("no open games on selected map, trying others", "map", selectedMap)
		for _, mapName := range ss.Maps {
			if mapName == selectedMap {
				continue
			}
			openGames = ss.Games.OpenGamesByMap(ctx, tracker, mapName)
			if len(openGames) > 0 {
				slog.Info("found open games on fallback map", "map", mapName)
				break
			}
		}
	}

	if len(openGames) == 0 {
		slog.Warn("no open games found on any map")
		tracker.MarkFailed("No open games available")
		return ss.Usage.Emit(ctx, JoinGameModule, unknownActor, tracker.Snapshot())
	}

	candidate := openGames[rand.Intn(len(openGames))]

	if username == "" {
		username = ss.Users.RandomUsername(ctx)
	}

	if ss.Join.Join(ctx, tracker, candidate, username) {
		// Empty fallback queries may have recorded a failure before this
		// attempt succeeded; the session outcome wins.
		tracker.MarkSucceeded()
		slog.Info("join session succeeded", "username", username)
	} else {
		slog.Error("join session failed", "username", username)
	}

	return ss.Usage.Emit(ctx, JoinGameModule, username, tracker.Snapshot())
}

// OpenGames runs one listing session for the HTTP surface: query the open
// games on a single map, no fallback, and emit the usage record.
func (ss *SessionService) OpenGames(ctx context.Context, mapName string) ([]models.Game, capacity.Record) {
	tracker := capacity.NewTracker()

	items := ss.Games.OpenGamesByMap(ctx, tracker, mapName)

	var games []models.Game
	if err := attributevalue.UnmarshalListOfMaps(items, &games); err != nil {
		slog.Error("failed to unmarshal open games", "map", mapName, "error", err)
		tracker.MarkFailed("failed to decode open games")
	}

	return games, ss.Usage.Emit(ctx, OpenGamesModule, unknownActor, tracker.Snapshot())
}

// UserGames runs one lookup session: list every game the user belongs to
// via the inverted index, then fetch metadata for those games in bulk.
// When userID is empty a random user is selected from the table. Returns
// the details gathered (possibly partial) and the emitted usage record.
func (ss *SessionService) UserGames(ctx context.Context, userID string) ([]models.GameDetail, capacity.Record) {
	tracker := capacity.NewTracker()

	if userID == "" {
		userID = ss.Users.RandomUsername(ctx)
	}

	refs := ss.Games.GamesForUser(ctx, tracker, userID)
	if len(refs) == 0 {
		slog.Warn("no games found for user", "user_id", userID)
		return nil, ss.Usage.Emit(ctx, UserGamesModule, userID, tracker.Snapshot())
	}

	gameIDs := make([]string, 0, len(refs))
	for _, ref := range refs {
		gameIDs = append(gameIDs, ref.GameID)
	}

	details := ss.Details.GameDetails(ctx, tracker, gameIDs)
	for _, detail := range details {
		slog.Info("user game",
			"game_id", detail.GameID,
			"map", detail.Map,
			"players", detail.People,
			"max_players", detail.MaxPeople,
		)
	}

	return details, ss.Usage.Emit(ctx, UserGamesModule, userID, tracker.Snapshot())
}
