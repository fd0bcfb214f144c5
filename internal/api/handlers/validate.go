package handlers

import (
	"net/http"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/service"
)

// ValidateHandler runs the pending-hypothesis validation cycle.
type ValidateHandler struct {
	engine *service.ValidatingEngine
}

func NewValidateHandler(engine *service.ValidatingEngine) *ValidateHandler {
	return &ValidateHandler{engine: engine}
}

type validateResponse struct {
	Verdicts map[string]domain.Verdict `json:"verdicts"`
	Tested   int                       `json:"tested"`
}

// Run tests all unverified schemas and promotes the consistent ones.
// POST /v1/validate
func (h *ValidateHandler) Run(w http.ResponseWriter, r *http.Request) {
	verdicts := h.engine.ValidatePending(r.Context())
	if verdicts == nil {
		verdicts = map[string]domain.Verdict{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Verdicts: verdicts, Tested: len(verdicts)})
}
