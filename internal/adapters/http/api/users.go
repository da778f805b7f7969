package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/okian/scorevault/internal/domain/model"
)

// UserDependencies defines the interface for user index reads.
type UserDependencies interface {
	Users(ctx context.Context) (*model.UserIndex, error)
	User(ctx context.Context, username string) (*model.UserRecord, error)
}

// UsersHandler handles user index requests.
type UsersHandler struct {
	deps UserDependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// userSummary is the list shape: enough for a roster page without the
// full per-game breakdown.
type userSummary struct {
	Username string     `json:"username"`
	Avatar   string     `json:"avatar,omitempty"`
	LastSeen model.Date `json:"lastSeen,omitempty"`
	Games    int        `json:"games"`
}

type usersResponse struct {
	LastUpdated model.Date    `json:"lastUpdated,omitempty"`
	Count       int           `json:"count"`
	Users       []userSummary `json:"users"`
}

// HandleListUsers handles GET /api/users requests, sorted by username.
func (h *UsersHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	idx, err := h.deps.Users(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := usersResponse{
		LastUpdated: idx.LastUpdated,
		Count:       len(idx.Users),
		Users:       make([]userSummary, 0, len(idx.Users)),
	}
	for _, u := range idx.Users {
		out.Users = append(out.Users, userSummary{
			Username: u.Username,
			Avatar:   u.Avatar,
			LastSeen: u.LastSeen,
			Games:    len(u.Games),
		})
	}
	sort.Slice(out.Users, func(i, j int) bool {
		return model.Key(out.Users[i].Username) < model.Key(out.Users[j].Username)
	})

	writeJSON(w, http.StatusOK, out)
}

// HandleGetUser handles GET /api/users/{username} requests. Lookup is
// case-insensitive; the stored display casing is returned.
func (h *UsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	u, err := h.deps.User(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user_not_found", ErrUserNotFound)
		return
	}

	writeJSON(w, http.StatusOK, u)
}
