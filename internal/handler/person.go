package handler

import (
	"io"
	"log/slog"
	"net/http"

	"famtree/internal/config"
	"famtree/internal/domain/services"
	"famtree/internal/httputil"
)

// PersonHandler handles person and photo endpoints
type PersonHandler struct {
	personService services.PersonService
	logger        *slog.Logger
}

// NewPersonHandler creates a new person handler
func NewPersonHandler(personService services.PersonService, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{personService: personService, logger: logger}
}

// List handles GET /api/people?treeId=...
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	treeID := r.URL.Query().Get("treeId")
	if treeID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "treeId is required")
		return
	}

	people, err := h.personService.ListPeople(r.Context(), httputil.GetUser(r), treeID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, people)
}

// Create handles POST /api/people
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePersonRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	person, err := h.personService.CreatePerson(r.Context(), httputil.GetUser(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, person)
}

// Update handles PUT /api/people/{id}
func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req services.UpdatePersonRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	person, err := h.personService.UpdatePerson(r.Context(), httputil.GetUser(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, person)
}

// Delete handles DELETE /api/people/{id}
func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.personService.DeletePerson(r.Context(), httputil.GetUser(r), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UploadPhoto handles POST /api/people/{id}/photo
func (h *PersonHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxPhotoUploadBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "no photo file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, config.MaxPhotoUploadBytes))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read photo")
		return
	}

	result, err := h.personService.UploadPhoto(r.Context(), httputil.GetUser(r), r.PathValue("id"), data)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, result)
}

// ListImages handles GET /api/people/{id}/images
func (h *PersonHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.personService.ListImages(r.Context(), httputil.GetUser(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, images)
}

// SetPrimaryImage handles PUT /api/people/{personId}/images/{imageId}/primary
func (h *PersonHandler) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	photoURL, err := h.personService.SetPrimaryImage(r.Context(), httputil.GetUser(r), r.PathValue("personId"), r.PathValue("imageId"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"photo_url": photoURL,
	})
}

// DeleteImage handles DELETE /api/people/{personId}/images/{imageId}
func (h *PersonHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	err := h.personService.DeleteImage(r.Context(), httputil.GetUser(r), r.PathValue("personId"), r.PathValue("imageId"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteAllPhotos handles DELETE /api/people/{id}/photo
func (h *PersonHandler) DeleteAllPhotos(w http.ResponseWriter, r *http.Request) {
	if err := h.personService.DeleteAllPhotos(r.Context(), httputil.GetUser(r), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
