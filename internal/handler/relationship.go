package handler

import (
	"log/slog"
	"net/http"

	"famtree/internal/config"
	"famtree/internal/domain/services"
	"famtree/internal/httputil"
)

// RelationshipHandler handles relationship endpoints
type RelationshipHandler struct {
	relService services.RelationshipService
	logger     *slog.Logger
}

// NewRelationshipHandler creates a new relationship handler
func NewRelationshipHandler(relService services.RelationshipService, logger *slog.Logger) *RelationshipHandler {
	return &RelationshipHandler{relService: relService, logger: logger}
}

// List handles GET /api/relationships?treeId=...
func (h *RelationshipHandler) List(w http.ResponseWriter, r *http.Request) {
	treeID := r.URL.Query().Get("treeId")
	if treeID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "treeId is required")
		return
	}

	relationships, err := h.relService.ListRelationships(r.Context(), httputil.GetUser(r), treeID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, relationships)
}

// Create handles POST /api/relationships
func (h *RelationshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateRelationshipRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rel, err := h.relService.CreateRelationship(r.Context(), httputil.GetUser(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, rel)
}

// Update handles PUT /api/relationships/{id}
func (h *RelationshipHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.relService.UpdateRelationshipType(r.Context(), httputil.GetUser(r), r.PathValue("id"), req.Type); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete handles DELETE /api/relationships/{id}
func (h *RelationshipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.relService.DeleteRelationship(r.Context(), httputil.GetUser(r), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
