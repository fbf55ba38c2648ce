package handler

import (
	"net/http"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/service"
)

// PublicHandler handles the attendee-facing read endpoints
type PublicHandler struct {
	activityService *service.ActivityService
	programService  *service.ProgramService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(activityService *service.ActivityService, programService *service.ProgramService) *PublicHandler {
	return &PublicHandler{
		activityService: activityService,
		programService:  programService,
	}
}

// ListActivities handles GET /v1/activities. Only published, public
// activities are visible whatever the query asks for.
func (h *PublicHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	query, problem := parseListQuery(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	page, err := h.activityService.ListPublicActivities(r.Context(), query)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, page)
}

// GetActivity handles GET /v1/activities/{activityId} and bumps the view
// counter.
func (h *PublicHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	activity, err := h.activityService.GetPublicActivity(r.Context(), activityID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, activity, nil)
}

// ListPrograms handles GET /v1/programs
func (h *PublicHandler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	listings, err := h.programService.ListPrograms(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, listings)
}

// GetProgram handles GET /v1/programs/{program}
func (h *PublicHandler) GetProgram(w http.ResponseWriter, r *http.Request) {
	program := r.PathValue("program")
	if program == "" {
		WriteError(w, model.NewBadRequestError("program required"))
		return
	}

	listing, err := h.programService.GetProgram(r.Context(), program)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, listing, nil)
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
