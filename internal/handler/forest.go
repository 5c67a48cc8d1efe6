package handler

import (
	"log/slog"
	"net/http"

	"famtree/internal/config"
	"famtree/internal/domain/services"
	"famtree/internal/httputil"
)

// ForestHandler handles forest endpoints
type ForestHandler struct {
	forestService services.ForestService
	logger        *slog.Logger
}

// NewForestHandler creates a new forest handler
func NewForestHandler(forestService services.ForestService, logger *slog.Logger) *ForestHandler {
	return &ForestHandler{forestService: forestService, logger: logger}
}

// List handles GET /api/forests
func (h *ForestHandler) List(w http.ResponseWriter, r *http.Request) {
	forests, err := h.forestService.ListForests(r.Context(), httputil.GetUser(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, forests)
}

// Get handles GET /api/forests/{id}
func (h *ForestHandler) Get(w http.ResponseWriter, r *http.Request) {
	forest, err := h.forestService.GetForest(r.Context(), httputil.GetUser(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, forest)
}

// Create handles POST /api/forests
func (h *ForestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateForestRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	forest, err := h.forestService.CreateForest(r.Context(), httputil.GetUser(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, forest)
}

// Rename handles PUT /api/forests/{id}
func (h *ForestHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	forest, err := h.forestService.RenameForest(r.Context(), httputil.GetUser(r), r.PathValue("id"), req.Name)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, forest)
}
