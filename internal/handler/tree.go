package handler

import (
	"log/slog"
	"net/http"

	"famtree/internal/config"
	"famtree/internal/domain/services"
	"famtree/internal/httputil"
)

// TreeHandler handles tree endpoints
type TreeHandler struct {
	treeService services.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{treeService: treeService, logger: logger}
}

// List handles GET /api/trees?forestId=...
func (h *TreeHandler) List(w http.ResponseWriter, r *http.Request) {
	forestID := r.URL.Query().Get("forestId")
	if forestID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "forestId is required")
		return
	}

	trees, err := h.treeService.ListTrees(r.Context(), httputil.GetUser(r), forestID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, trees)
}

// Get handles GET /api/trees/{id}
func (h *TreeHandler) Get(w http.ResponseWriter, r *http.Request) {
	tree, err := h.treeService.GetTree(r.Context(), httputil.GetUser(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tree)
}

// Create handles POST /api/trees
func (h *TreeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateTreeRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tree, err := h.treeService.CreateTree(r.Context(), httputil.GetUser(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, tree)
}

// Rename handles PUT /api/trees/{id}
func (h *TreeHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tree, err := h.treeService.RenameTree(r.Context(), httputil.GetUser(r), r.PathValue("id"), req.Name)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tree)
}

// Delete handles DELETE /api/trees/{id}
func (h *TreeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.treeService.DeleteTree(r.Context(), httputil.GetUser(r), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
