package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/scorevault/internal/domain/query"
	"github.com/okian/scorevault/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, w query.Window) (types.Result, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// leaderboardResponse wraps the per-game views with the period they
// answer, so the dashboard can label tabs without guessing.
type leaderboardResponse struct {
	Period string       `json:"period"`
	Games  types.Result `json:"games"`
}

// HandleGetLeaderboard handles GET /api/leaderboard?period=P requests.
// P defaults to "today"; an unknown period is the only rejected input.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "today"
	}

	win, err := query.ParseWindow(period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_period", err)
		return
	}

	res, err := h.deps.Leaderboard(r.Context(), win)
	if err != nil {
		if errors.Is(err, query.ErrUnknownPeriod) {
			writeError(w, http.StatusBadRequest, "unknown_period", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{
		Period: win.String(),
		Games:  res,
	})
}
