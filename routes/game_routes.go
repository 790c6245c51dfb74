package routes

import (
	"battleroyale/controllers"
	"battleroyale/services"

	"github.com/gorilla/mux"
)

// RegisterGameRoutes wires the matchmaking endpoints onto the router.
func RegisterGameRoutes(r *mux.Router, sessions *services.SessionService) {
	controller := controllers.NewGameController(sessions)

	gameRouter := r.PathPrefix("/api").Subrouter()
	gameRouter.HandleFunc("/games/open", controller.GetOpenGames).Methods("GET")
	gameRouter.HandleFunc("/games/join", controller.JoinGame).Methods("POST")
	gameRouter.HandleFunc("/users/games", controller.GetUserGames).Methods("GET")
}
