package controllers

import (
	"encoding/json"
	"net/http"

	"battleroyale/services"
)

// GameController handles HTTP requests for the matchmaking access patterns.
// Every handler runs a full ledger lifetime and returns the usage record
// alongside the data payload; failed sessions still answer 200 because
// failures are data, not transport faults.
type GameController struct {
	Sessions *services.SessionService
}

// NewGameController creates a new GameController instance
func NewGameController(sessions *services.SessionService) *GameController {
	return &GameController{Sessions: sessions}
}

// GetOpenGames handles listing open games on a map
func (gc *GameController) GetOpenGames(w http.ResponseWriter, r *http.Request) {
	mapName := r.URL.Query().Get("map")
	if mapName == "" {
		http.Error(w, "map is required", http.StatusBadRequest)
		return
	}

	games, usage := gc.Sessions.OpenGames(r.Context(), mapName)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"games": games,
		"usage": usage,
	})
}

// JoinGame handles running one join session for a user
func (gc *GameController) JoinGame(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if r.Body != nil {
		// An empty or absent body means "pick a random user".
		json.NewDecoder(r.Body).Decode(&body)
	}

	usage := gc.Sessions.JoinRandomGame(r.Context(), body.Username)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"usage": usage,
	})
}

// GetUserGames handles listing the games a user has joined, with details
func (gc *GameController) GetUserGames(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	details, usage := gc.Sessions.UserGames(r.Context(), userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"games": details,
		"usage": usage,
	})
}
