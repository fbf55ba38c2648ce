package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/kinovera/festival/api/internal/middleware"
	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/service"
	"github.com/kinovera/festival/api/internal/storage"
)

// UploadHandler handles activity and speaker image uploads
type UploadHandler struct {
	store           storage.Store
	activityService *service.ActivityService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store storage.Store, activityService *service.ActivityService) *UploadHandler {
	return &UploadHandler{store: store, activityService: activityService}
}

// ActivityImage handles POST /v1/admin/activities/{activityId}/image.
// Multipart field name is "image". The stored key replaces the activity's
// image_path.
func (h *UploadHandler) ActivityImage(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetAccountID(r.Context())
	activityID := r.PathValue("activityId")

	if _, err := h.activityService.GetActivity(r.Context(), activityID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	file, header, problem := h.openUpload(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}
	defer file.Close()

	body, contentType, err := storage.ValidateImage(file, header.Size)
	if err != nil {
		WriteError(w, mapStorageError(err))
		return
	}

	key, err := storage.ActivityImageKey(header.Filename)
	if err != nil {
		WriteError(w, mapStorageError(err))
		return
	}

	key, err = h.store.Put(r.Context(), key, contentType, body, header.Size)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to store image"))
		return
	}

	activity, err := h.activityService.UpdateActivity(r.Context(), actorID, activityID, &model.UpdateActivityRequest{
		ImagePath: &key,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"activity": activity,
		"url":      h.store.URL(key),
	}, nil)
}

// SpeakerImage handles POST /v1/admin/activities/{activityId}/speakers/{speakerId}/image
func (h *UploadHandler) SpeakerImage(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetAccountID(r.Context())
	activityID := r.PathValue("activityId")
	speakerID := r.PathValue("speakerId")

	activity, err := h.activityService.GetActivity(r.Context(), activityID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	speakers := activity.Speakers
	idx := -1
	for i, sp := range speakers {
		if sp.ID == speakerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		WriteError(w, MapServiceError(service.ErrSpeakerNotFound))
		return
	}

	file, header, problem := h.openUpload(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}
	defer file.Close()

	body, contentType, err := storage.ValidateImage(file, header.Size)
	if err != nil {
		WriteError(w, mapStorageError(err))
		return
	}

	key, err := storage.SpeakerImageKey(activityID, speakerID, header.Filename)
	if err != nil {
		WriteError(w, mapStorageError(err))
		return
	}

	key, err = h.store.Put(r.Context(), key, contentType, body, header.Size)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to store image"))
		return
	}

	speakers[idx].ImagePath = &key
	updated, err := h.activityService.UpdateActivity(r.Context(), actorID, activityID, &model.UpdateActivityRequest{
		Speakers: speakers,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"activity": updated,
		"url":      h.store.URL(key),
	}, nil)
}

func (h *UploadHandler) openUpload(r *http.Request) (multipart.File, *multipart.FileHeader, *model.ProblemDetails) {
	if err := r.ParseMultipartForm(storage.MaxUploadBytes + 1024); err != nil {
		return nil, nil, model.NewBadRequestError("invalid multipart form")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, nil, model.NewBadRequestError("image field is required")
	}
	return file, header, nil
}

func mapStorageError(err error) *model.ProblemDetails {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return MapServiceError(service.ErrUploadTooLarge)
	case errors.Is(err, storage.ErrBadType):
		return MapServiceError(service.ErrUploadBadType)
	case errors.Is(err, storage.ErrEmpty):
		return MapServiceError(service.ErrUploadEmpty)
	case errors.Is(err, storage.ErrInvalidName):
		return MapServiceError(service.ErrUploadNameInvalid)
	}
	return model.NewInternalError("failed to process upload")
}
