// Package api exposes the archive over HTTP: leaderboard views, user
// lookups, the game catalog, manual ingestion, and the dashboard.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/okian/scorevault/internal/domain/model"
	"github.com/okian/scorevault/internal/domain/query"
	"github.com/okian/scorevault/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service behind it.
type Dependencies interface {
	// Leaderboard answers one period window relative to today.
	Leaderboard(ctx context.Context, w query.Window) (types.Result, error)

	// Users returns the derived user index.
	Users(ctx context.Context) (*model.UserIndex, error)

	// User looks up one user case-insensitively; nil when unknown.
	User(ctx context.Context, username string) (*model.UserRecord, error)

	// Games returns the known games as id -> display name.
	Games(ctx context.Context) (map[string]string, error)

	// Ingest runs one capture cycle now.
	Ingest(ctx context.Context) error

	// AvatarDir is the local avatar mirror served under /avatars/.
	AvatarDir() string
}

// Server wires HTTP routes for the archive API.
type Server struct {
	leaderboardHandler *LeaderboardHandler
	usersHandler       *UsersHandler
	gamesHandler       *GamesHandler
	ingestHandler      *IngestHandler
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	dashboardHandler   *dashboardHandler
	avatarDir          string
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		leaderboardHandler: NewLeaderboardHandler(deps),
		usersHandler:       NewUsersHandler(deps),
		gamesHandler:       NewGamesHandler(deps),
		ingestHandler:      NewIngestHandler(deps),
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		dashboardHandler:   newDashboardHandler(),
		avatarDir:          deps.AvatarDir(),
	}
}

// Router builds the full route table with CORS applied.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.healthHandler.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard")).Methods(http.MethodGet)
	r.HandleFunc("/api/users", MetricsMiddleware(s.usersHandler.HandleListUsers, "users")).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{username}", MetricsMiddleware(s.usersHandler.HandleGetUser, "user")).Methods(http.MethodGet)
	r.HandleFunc("/api/games", MetricsMiddleware(s.gamesHandler.HandleListGames, "games")).Methods(http.MethodGet)
	r.HandleFunc("/api/ingest", MetricsMiddleware(s.ingestHandler.HandlePostIngest, "ingest")).Methods(http.MethodPost)

	r.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/", s.dashboardHandler.HandleDashboard).Methods(http.MethodGet)

	if s.avatarDir != "" {
		r.PathPrefix("/avatars/").Handler(
			http.StripPrefix("/avatars/", http.FileServer(http.Dir(s.avatarDir))),
		).Methods(http.MethodGet)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
