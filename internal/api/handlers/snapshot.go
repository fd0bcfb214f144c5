package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/store"
)

// SnapshotHandler persists the belief graph to the snapshot store.
type SnapshotHandler struct {
	graph     *store.BeliefGraph
	snapshots domain.SnapshotStore
	logger    *zap.Logger
}

func NewSnapshotHandler(graph *store.BeliefGraph, snapshots domain.SnapshotStore, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{graph: graph, snapshots: snapshots, logger: logger}
}

type snapshotResponse struct {
	Saved int `json:"saved"`
}

// Save writes all schema records to persistent storage.
// POST /v1/snapshot
func (h *SnapshotHandler) Save(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		writeError(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	records := h.graph.Records()
	if err := h.snapshots.Save(r.Context(), records); err != nil {
		h.logger.Error("snapshot save failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Saved: len(records)})
}
