package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/culturiqai/nalanda/internal/service"
)

// AssimilateHandler adds proposed knowledge to the graph as
// unverified hypotheses.
type AssimilateHandler struct {
	engine *service.ValidatingEngine
}

func NewAssimilateHandler(engine *service.ValidatingEngine) *AssimilateHandler {
	return &AssimilateHandler{engine: engine}
}

type assimilateTextRequest struct {
	Text string `json:"text"`
}

type assimilateResponse struct {
	Added []string `json:"added"`
	Count int      `json:"count"`
}

// Text proposes schemas from a block of text and assimilates them.
// POST /v1/assimilate
func (h *AssimilateHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req assimilateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	added, err := h.engine.AssimilateText(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assimilateResponse{Added: added, Count: len(added)})
}

type assimilateTopicRequest struct {
	Topic string `json:"topic"`
}

// Topic proposes one schema for a topic via corpus retrieval.
// POST /v1/assimilate/topic
func (h *AssimilateHandler) Topic(w http.ResponseWriter, r *http.Request) {
	var req assimilateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	name, err := h.engine.AssimilateTopic(r.Context(), req.Topic)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var added []string
	if name != "" {
		added = []string{name}
	}
	writeJSON(w, http.StatusOK, assimilateResponse{Added: added, Count: len(added)})
}
