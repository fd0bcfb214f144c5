package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/service"
)

// SchemaHandler exposes the belief graph for inspection and direct
// schema insertion.
type SchemaHandler struct {
	engine *service.ValidatingEngine
}

func NewSchemaHandler(engine *service.ValidatingEngine) *SchemaHandler {
	return &SchemaHandler{engine: engine}
}

type listSchemasResponse struct {
	Schemas map[string]domain.SchemaView `json:"schemas"`
	Count   int                          `json:"count"`
}

// List returns a snapshot of all schemas.
// GET /v1/schemas?include_properties=true
func (h *SchemaHandler) List(w http.ResponseWriter, r *http.Request) {
	includeProps := r.URL.Query().Get("include_properties") == "true"

	schemas := h.engine.Graph().AllSchemas(includeProps)
	writeJSON(w, http.StatusOK, listSchemasResponse{
		Schemas: schemas,
		Count:   len(schemas),
	})
}

// GetByName returns one schema with its properties.
// GET /v1/schemas/{name}
func (h *SchemaHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	// Encode a detached record: the live node may be corrected by a
	// reasoning cycle while the response is being written.
	record, err := h.engine.Graph().GetRecord(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "schema not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type createSchemaRequest struct {
	Name       string            `json:"name"`
	Parent     string            `json:"parent,omitempty"`
	Properties domain.Properties `json:"properties"`
	Verified   bool              `json:"verified"`
}

// Create inserts or overwrites a schema directly.
// POST /v1/schemas
func (h *SchemaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	name := service.NormalizeName(req.Name)
	h.engine.Graph().Add(name, domain.SchemaData{
		Parent:     req.Parent,
		Properties: req.Properties,
	}, req.Verified)

	record, err := h.engine.Graph().GetRecord(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}
