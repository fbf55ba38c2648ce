package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kinovera/festival/api/internal/middleware"
	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/service"
)

// ActivityHandler handles staff activity endpoints
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// Create handles POST /v1/admin/activities
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetAccountID(r.Context())

	var req model.CreateActivityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	var fieldErrors []model.FieldError
	if req.Name == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "name", Message: "name is required"})
	}
	if req.EventDate.IsZero() {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "event_date", Message: "event_date is required"})
	}
	if req.Venue.Name == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "venue.name", Message: "venue name is required"})
	}
	if len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	activity, err := h.activityService.CreateActivity(r.Context(), actorID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, activity, map[string]string{
		"self": "/v1/admin/activities/" + activity.ID,
	})
}

// Get handles GET /v1/admin/activities/{activityId}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	activity, err := h.activityService.GetActivity(r.Context(), activityID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, activity, nil)
}

// List handles GET /v1/admin/activities
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	query, problem := parseListQuery(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	page, err := h.activityService.ListActivities(r.Context(), query)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, page)
}

// Update handles PATCH /v1/admin/activities/{activityId}
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetAccountID(r.Context())
	activityID := r.PathValue("activityId")

	var req model.UpdateActivityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	activity, err := h.activityService.UpdateActivity(r.Context(), actorID, activityID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, activity, nil)
}

// Delete handles DELETE /v1/admin/activities/{activityId}
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")

	if err := h.activityService.DeleteActivity(r.Context(), activityID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Duplicate handles POST /v1/admin/activities/{activityId}/duplicate
func (h *ActivityHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetAccountID(r.Context())
	activityID := r.PathValue("activityId")

	activity, err := h.activityService.DuplicateActivity(r.Context(), actorID, activityID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, activity, map[string]string{
		"self": "/v1/admin/activities/" + activity.ID,
	})
}

// BulkStatusRequest is the bulk status update payload.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

// BulkStatus handles POST /v1/admin/activities/bulk/status
func (h *ActivityHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetAccountID(r.Context())

	var req BulkStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if len(req.IDs) == 0 {
		WriteError(w, model.NewBadRequestError("ids are required"))
		return
	}

	if err := h.activityService.BulkUpdateStatus(r.Context(), actorID, req.IDs, req.Status); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// BulkDeleteRequest is the bulk delete payload.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDelete handles POST /v1/admin/activities/bulk/delete
func (h *ActivityHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if len(req.IDs) == 0 {
		WriteError(w, model.NewBadRequestError("ids are required"))
		return
	}

	if err := h.activityService.BulkDelete(r.Context(), req.IDs); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// parseListQuery reads the shared listing query parameters.
func parseListQuery(r *http.Request) (model.ListQuery, *model.ProblemDetails) {
	q := model.ListQuery{Search: r.URL.Query().Get("search")}

	if v := r.URL.Query().Get("status"); v != "" {
		q.Filters.Status = &v
	}
	if v := r.URL.Query().Get("visibility"); v != "" {
		q.Filters.Visibility = &v
	}
	if v := r.URL.Query().Get("tag"); v != "" {
		q.Filters.Tag = &v
	}
	if v := r.URL.Query().Get("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return q, model.NewBadRequestError("date_from must be YYYY-MM-DD")
		}
		q.Filters.DateFrom = &t
	}
	if v := r.URL.Query().Get("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return q, model.NewBadRequestError("date_to must be YYYY-MM-DD")
		}
		// Inclusive end of day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		q.Filters.DateTo = &t
	}

	if v := r.URL.Query().Get("sort"); v != "" {
		q.Sort = &model.SortSpec{
			Field: v,
			Desc:  r.URL.Query().Get("order") == "desc",
		}
	}

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, model.NewBadRequestError("page must be a positive integer")
		}
		q.Page.Page = n
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, model.NewBadRequestError("page_size must be a positive integer")
		}
		q.Page.PageSize = n
	}

	return q, nil
}
