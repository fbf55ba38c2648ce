package handler

import (
	"fmt"
	"net/http"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/service"
)

// RegistrationHandler handles registration endpoints, public and staff
type RegistrationHandler struct {
	registrationService *service.RegistrationService
	exportService       *service.ExportService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *service.RegistrationService, exportService *service.ExportService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		exportService:       exportService,
	}
}

// Register handles POST /v1/activities/{activityId}/registrations - the
// public registration form.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	var req model.RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	reg, err := h.registrationService.Register(r.Context(), activityID, &req, r.UserAgent())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, reg, map[string]string{
		"lookup": fmt.Sprintf("/v1/activities/%s/registrations/lookup/%s", activityID, reg.TrackingCode),
	})
}

// Lookup handles GET /v1/activities/{activityId}/registrations/lookup/{code}
// - the attendee-facing lookup by tracking code.
func (h *RegistrationHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")
	code := r.PathValue("code")

	reg, err := h.registrationService.LookupByTrackingCode(r.Context(), activityID, code)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, reg, nil)
}

// List handles GET /v1/admin/activities/{activityId}/registrations
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")

	filters := model.RegistrationFilters{}
	if v := r.URL.Query().Get("status"); v != "" {
		filters.Status = &v
	}
	if v := r.URL.Query().Get("category"); v != "" {
		filters.Category = &v
	}

	regs, err := h.registrationService.ListRegistrations(r.Context(), activityID, filters)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, regs)
}

// Get handles GET /v1/admin/registrations/{registrationId}
func (h *RegistrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationId")

	reg, err := h.registrationService.GetRegistration(r.Context(), registrationID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, reg, nil)
}

// Update handles PATCH /v1/admin/registrations/{registrationId}
func (h *RegistrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationId")

	var req model.UpdateRegistrationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	reg, err := h.registrationService.UpdateRegistration(r.Context(), registrationID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, reg, nil)
}

// Delete handles DELETE /v1/admin/registrations/{registrationId}
func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationId")

	if err := h.registrationService.DeleteRegistration(r.Context(), registrationID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// BulkStatus handles POST /v1/admin/registrations/bulk/status
func (h *RegistrationHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	var req BulkStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if len(req.IDs) == 0 {
		WriteError(w, model.NewBadRequestError("ids are required"))
		return
	}

	if err := h.registrationService.BulkUpdateStatus(r.Context(), req.IDs, req.Status); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Export handles GET /v1/admin/activities/{activityId}/registrations/export
func (h *RegistrationHandler) Export(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = service.ExportFormatCSV
	}

	filters := model.RegistrationFilters{}
	if v := r.URL.Query().Get("status"); v != "" {
		filters.Status = &v
	}

	export, err := h.exportService.ExportRegistrations(r.Context(), activityID, format, filters)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

// ExportActivities handles GET /v1/admin/activities/export
func (h *RegistrationHandler) ExportActivities(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = service.ExportFormatCSV
	}

	export, err := h.exportService.ExportActivities(r.Context(), format)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}
