package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"battleroyale/config"
	"battleroyale/models"
	"battleroyale/routes"
	"battleroyale/services"
	"battleroyale/usagelog"
)

func main() {
	var cfgFile string

	root := &cobra.Command{
		Use:          "battleroyale",
		Short:        "Capacity-accounted access layer for the battle-royale table",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	root.AddCommand(joinGameCmd(&cfgFile))
	root.AddCommand(userGamesCmd(&cfgFile))
	root.AddCommand(serveCmd(&cfgFile))

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// buildSessions loads config and wires the session service and its
// dependencies for one command invocation.
func buildSessions(ctx context.Context, cfgFile string) (*services.SessionService, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	client, err := services.InitializeDynamoDBClient(ctx, cfg.Region)
	if err != nil {
		return nil, nil, err
	}
	dynamo := &services.DynamoService{Client: client}

	usage := usagelog.NewFileLogger(usagelog.FileConfig{
		Path:       cfg.UsageLogPath,
		MaxSizeMB:  cfg.UsageLogMaxSizeMB,
		MaxBackups: cfg.UsageLogMaxBackups,
		MaxAgeDays: cfg.UsageLogMaxAgeDays,
		Compress:   cfg.UsageLogCompress,
	}, cfg.Region, models.GamesTable)

	if cfg.ArchiveBucket != "" {
		archiver, err := usagelog.NewS3Archiver(ctx, cfg.Region, cfg.ArchiveBucket)
		if err != nil {
			return nil, nil, err
		}
		usage.WithArchiver(archiver)
	}

	return services.NewSessionService(dynamo, usage), cfg, nil
}

// joinGameCmd runs one join session. Failures are recorded on the emitted
// usage record, not surfaced as a non-zero exit.
func joinGameCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "join-game [username]",
		Short: "Join a user to a random open game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, _, err := buildSessions(cmd.Context(), *cfgFile)
			if err != nil {
				return err
			}

			username := ""
			if len(args) > 0 {
				username = args[0]
			}

			record := sessions.JoinRandomGame(cmd.Context(), username)
			slog.Info("join session finished",
				"status", record.Status,
				"rcu", record.RCU,
				"wcu", record.WCU,
				"request_id", record.RequestID,
			)
			return nil
		},
	}
}

// userGamesCmd runs one user-games lookup session.
func userGamesCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "user-games [user_id]",
		Short: "List the games a user has joined",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, _, err := buildSessions(cmd.Context(), *cfgFile)
			if err != nil {
				return err
			}

			userID := ""
			if len(args) > 0 {
				userID = args[0]
			}

			details, record := sessions.UserGames(cmd.Context(), userID)
			slog.Info("user-games session finished",
				"status", record.Status,
				"games", len(details),
				"rcu", record.RCU,
				"request_id", record.RequestID,
			)
			return nil
		},
	}
}

// serveCmd exposes the access patterns over HTTP.
func serveCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the matchmaking API",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, cfg, err := buildSessions(cmd.Context(), *cfgFile)
			if err != nil {
				return err
			}

			r := mux.NewRouter()

			r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, "battle-royale matchmaking")
			}).Methods("GET")

			r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
			}).Methods("GET")

			routes.RegisterGameRoutes(r, sessions)

			corsHandler := cors.New(cors.Options{
				AllowedOrigins:   []string{"*"},
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Content-Type", "Authorization"},
				AllowCredentials: true,
			}).Handler(r)

			slog.Info("starting server", "port", cfg.Port)
			return http.ListenAndServe(":"+cfg.Port, corsHandler)
		},
	}
}
