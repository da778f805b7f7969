package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/scorevault/internal/app"
)

// IngestDependencies defines the interface for triggering ingestion.
type IngestDependencies interface {
	Ingest(ctx context.Context) error
}

// IngestHandler handles manual ingestion requests.
type IngestHandler struct {
	deps IngestDependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps IngestDependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

type ingestResponse struct {
	Status string `json:"status"`
}

// HandlePostIngest handles POST /api/ingest requests. The run executes
// synchronously; a run already in flight answers 409 instead of
// queueing a second one.
func (h *IngestHandler) HandlePostIngest(w http.ResponseWriter, r *http.Request) {
	err := h.deps.Ingest(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ingestResponse{Status: "ok"})
	case errors.Is(err, service.ErrIngestInProgress):
		writeError(w, http.StatusConflict, "ingest_in_progress", err)
	case errors.Is(err, service.ErrNoSource):
		writeError(w, http.StatusServiceUnavailable, "no_source", err)
	default:
		writeError(w, http.StatusBadGateway, "ingest_failed", err)
	}
}
