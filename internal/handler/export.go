package handler

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"famtree/internal/config"
	"famtree/internal/domain/models"
	"famtree/internal/domain/services"
	"famtree/internal/httputil"
)

// ExportHandler handles plain export and import endpoints. Documents go out
// as JSON by default; ?format=yaml switches the export encoding, and imports
// accept either encoding based on the request Content-Type.
type ExportHandler struct {
	exportService services.ExportService
	importService services.ImportService
	logger        *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService services.ExportService, importService services.ImportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, importService: importService, logger: logger}
}

// ExportTree handles GET /api/trees/{id}/export
func (h *ExportHandler) ExportTree(w http.ResponseWriter, r *http.Request) {
	includeImages := r.URL.Query().Get("includeImages") == "true"

	doc, err := h.exportService.ExportTree(r.Context(), httputil.GetUser(r), r.PathValue("id"), includeImages)
	if err != nil {
		handleError(w, err)
		return
	}
	h.respondDocument(w, r, doc)
}

// ExportForest handles GET /api/forests/{id}/export
func (h *ExportHandler) ExportForest(w http.ResponseWriter, r *http.Request) {
	includeImages := r.URL.Query().Get("includeImages") == "true"

	doc, err := h.exportService.ExportForest(r.Context(), httputil.GetUser(r), r.PathValue("id"), includeImages)
	if err != nil {
		handleError(w, err)
		return
	}
	h.respondDocument(w, r, doc)
}

// ImportTree handles POST /api/trees/import
func (h *ExportHandler) ImportTree(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ForestID string             `json:"forestId" yaml:"forestId"`
		TreeData *models.TreeExport `json:"treeData" yaml:"treeData"`
	}
	if err := h.parseDocument(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ForestID == "" || req.TreeData == nil {
		httputil.RespondError(w, http.StatusBadRequest, "forestId and treeData are required")
		return
	}

	tree, err := h.importService.ImportTree(r.Context(), httputil.GetUser(r), req.ForestID, req.TreeData)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, map[string]string{
		"id":   tree.ID,
		"name": tree.Name,
	})
}

// ImportForest handles POST /api/forests/import
func (h *ExportHandler) ImportForest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ForestData *models.ForestExport `json:"forestData" yaml:"forestData"`
	}
	if err := h.parseDocument(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ForestData == nil {
		httputil.RespondError(w, http.StatusBadRequest, "forestData is required")
		return
	}

	forest, err := h.importService.ImportForest(r.Context(), httputil.GetUser(r), req.ForestData)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, map[string]string{
		"id":   forest.ID,
		"name": forest.Name,
	})
}

func (h *ExportHandler) respondDocument(w http.ResponseWriter, r *http.Request, doc interface{}) {
	if r.URL.Query().Get("format") != "yaml" {
		httputil.RespondJSON(w, http.StatusOK, doc)
		return
	}

	payload, err := yaml.Marshal(doc)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (h *ExportHandler) parseDocument(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasSuffix(mediaType, "yaml") {
		r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBodyBytes)
		return yaml.NewDecoder(r.Body).Decode(dest)
	}
	return httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, dest)
}
