package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/service"
)

// ReasonHandler runs reasoning cycles over HTTP. Requests name an
// object directly or carry free text routed through perception.
type ReasonHandler struct {
	engine     *service.ValidatingEngine
	perception *service.Perception
	llm        domain.LLMClient
	logger     *zap.Logger
}

func NewReasonHandler(engine *service.ValidatingEngine, perception *service.Perception, llm domain.LLMClient, logger *zap.Logger) *ReasonHandler {
	return &ReasonHandler{engine: engine, perception: perception, llm: llm, logger: logger}
}

type reasonDropRequest struct {
	Object string `json:"object,omitempty"`
	Text   string `json:"text,omitempty"`
	Report bool   `json:"report,omitempty"`
}

type trialResponse struct {
	domain.Trial
	Report string `json:"report,omitempty"`
}

// Drop runs the single-object drop cycle.
// POST /v1/reason/drop
func (h *ReasonHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var req reasonDropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	object := req.Object
	if object == "" && req.Text != "" {
		parsed, err := h.perception.ParseSingleObject(r.Context(), req.Text)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		object = parsed
	}
	if object == "" {
		writeError(w, http.StatusBadRequest, "object or text is required")
		return
	}

	trial, err := h.engine.ReasonAbout(r.Context(), service.NormalizeName(object))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.withReport(r, trial, req.Report))
}

type reasonToolUseRequest struct {
	Tool   string `json:"tool,omitempty"`
	Target string `json:"target,omitempty"`
	Text   string `json:"text,omitempty"`
	Report bool   `json:"report,omitempty"`
}

// ToolUse runs the tool-use cycle.
// POST /v1/reason/tool-use
func (h *ReasonHandler) ToolUse(w http.ResponseWriter, r *http.Request) {
	var req reasonToolUseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	toolRef, targetRef := req.Tool, req.Target
	if (toolRef == "" || targetRef == "") && req.Text != "" {
		var err error
		toolRef, targetRef, err = h.perception.ParseToolUse(r.Context(), req.Text)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if toolRef == "" || targetRef == "" {
		writeError(w, http.StatusBadRequest, "tool and target (or text) are required")
		return
	}

	trial, err := h.engine.ReasonAboutToolUse(r.Context(),
		service.NormalizeName(toolRef), service.NormalizeName(targetRef))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.withReport(r, trial, req.Report))
}

// withReport optionally attaches a narrative report. Report failures
// degrade to an empty report, never fail the trial.
func (h *ReasonHandler) withReport(r *http.Request, trial domain.Trial, wantReport bool) trialResponse {
	resp := trialResponse{Trial: trial}
	if !wantReport || h.llm == nil {
		return resp
	}

	report, err := h.llm.GenerateReport(r.Context(), trial)
	if err != nil {
		h.logger.Warn("report generation failed", zap.Error(err))
		return resp
	}
	resp.Report = report
	return resp
}
