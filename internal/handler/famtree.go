package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"famtree/internal/config"
	"famtree/internal/domain/models"
	"famtree/internal/domain/services"
	"famtree/internal/httputil"
)

// PackageHandler handles the .famtree package endpoints
type PackageHandler struct {
	packageService services.PackageService
	logger         *slog.Logger
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(packageService services.PackageService, logger *slog.Logger) *PackageHandler {
	return &PackageHandler{packageService: packageService, logger: logger}
}

// Export handles GET /api/trees/{id}/export-famtree. The response is a file
// download; the filename comes from the tree name.
func (h *PackageHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc, filename, err := h.packageService.ExportPackage(r.Context(), httputil.GetUser(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to encode package")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// ImportIntoTree handles POST /api/trees/{id}/import-famtree?mode=...
func (h *PackageHandler) ImportIntoTree(w http.ResponseWriter, r *http.Request) {
	doc, err := h.readPackage(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.packageService.ImportIntoTree(r.Context(), httputil.GetUser(r), r.PathValue("id"), r.URL.Query().Get("mode"), doc)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// ImportAsNewTree handles POST /api/forests/{id}/import-famtree-new
func (h *PackageHandler) ImportAsNewTree(w http.ResponseWriter, r *http.Request) {
	doc, err := h.readPackage(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.packageService.ImportAsNewTree(r.Context(), httputil.GetUser(r), r.PathValue("id"), doc)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, result)
}

// readPackage accepts the package either as a multipart upload under the
// "file" field or as a raw JSON body.
func (h *PackageHandler) readPackage(w http.ResponseWriter, r *http.Request) (*models.FamTreePackage, error) {
	var reader io.Reader

	if err := r.ParseMultipartForm(config.MaxPackageUploadBytes); err == nil {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("no package file provided")
		}
		defer file.Close()
		reader = io.LimitReader(file, config.MaxPackageUploadBytes)
	} else {
		reader = http.MaxBytesReader(w, r.Body, config.MaxPackageUploadBytes)
	}

	var doc models.FamTreePackage
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid package: %w", err)
	}
	return &doc, nil
}
