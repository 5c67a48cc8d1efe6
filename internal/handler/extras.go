package handler

import (
	"log/slog"
	"net/http"

	"famtree/internal/config"
	"famtree/internal/domain/services"
	"famtree/internal/httputil"
)

// RecordsHandler handles life events, stories, invitations, and AI tasks
type RecordsHandler struct {
	eventService services.LifeEventService
	storyService services.StoryService
	invService   services.InvitationService
	taskService  services.AITaskService
	logger       *slog.Logger
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(
	eventService services.LifeEventService,
	storyService services.StoryService,
	invService services.InvitationService,
	taskService services.AITaskService,
	logger *slog.Logger,
) *RecordsHandler {
	return &RecordsHandler{
		eventService: eventService,
		storyService: storyService,
		invService:   invService,
		taskService:  taskService,
		logger:       logger,
	}
}

// ListLifeEvents handles GET /api/events?personId=...
func (h *RecordsHandler) ListLifeEvents(w http.ResponseWriter, r *http.Request) {
	personID := r.URL.Query().Get("personId")
	if personID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "personId is required")
		return
	}

	events, err := h.eventService.ListLifeEvents(r.Context(), httputil.GetUser(r), personID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, events)
}

// CreateLifeEvent handles POST /api/events
func (h *RecordsHandler) CreateLifeEvent(w http.ResponseWriter, r *http.Request) {
	var req services.CreateLifeEventRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventService.CreateLifeEvent(r.Context(), httputil.GetUser(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, event)
}

// ListStories handles GET /api/stories?personId=...&treeId=...
func (h *RecordsHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stories, err := h.storyService.ListStories(r.Context(), httputil.GetUser(r), q.Get("personId"), q.Get("treeId"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stories)
}

// CreateStory handles POST /api/stories
func (h *RecordsHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var req services.CreateStoryRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	story, err := h.storyService.CreateStory(r.Context(), httputil.GetUser(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, story)
}

// CreateInvitation handles POST /api/invitations
func (h *RecordsHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req services.CreateInvitationRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := h.invService.CreateInvitation(r.Context(), httputil.GetUser(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, inv)
}

// AcceptInvitation handles POST /api/invitations/{token}/accept
func (h *RecordsHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	if err := h.invService.AcceptInvitation(r.Context(), httputil.GetUser(r), r.PathValue("token")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// EnqueueAITask handles POST /api/ai/tasks
func (h *RecordsHandler) EnqueueAITask(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAITaskRequest
	if err := httputil.ParseJSON(w, r, config.MaxJSONBodyBytes, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.EnqueueTask(r.Context(), httputil.GetUser(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, map[string]string{
		"id":     task.ID,
		"status": task.Status,
	})
}
