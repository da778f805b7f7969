package api

import (
	"context"
	"net/http"
	"sort"
)

// GameDependencies defines the interface for the game catalog.
type GameDependencies interface {
	Games(ctx context.Context) (map[string]string, error)
}

// GamesHandler handles game catalog requests.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

type gameInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HandleListGames handles GET /api/games requests, sorted by id.
func (h *GamesHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.deps.Games(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := make([]gameInfo, 0, len(games))
	for id, name := range games {
		out = append(out, gameInfo{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	writeJSON(w, http.StatusOK, out)
}
