package handler

import (
	"errors"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrRoleNotPermitted):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrActivityNotFound):
		return model.NewNotFoundError("activity")
	case errors.Is(err, service.ErrRegistrationNotFound):
		return model.NewNotFoundError("registration")
	case errors.Is(err, service.ErrSpeakerNotFound):
		return model.NewNotFoundError("speaker")
	case errors.Is(err, service.ErrAccountNotFound):
		return model.NewNotFoundError("account")
	case errors.Is(err, service.ErrProgramNotFound):
		return model.NewNotFoundError("program")

	// ===== Registration Conflicts → 409 =====
	// The closed reason is deliberately not surfaced in detail text.
	case errors.Is(err, service.ErrRegistrationClosed):
		return model.NewRegistrationClosedError()
	case errors.Is(err, service.ErrDuplicateRegistration):
		return model.NewDuplicateEmailError()
	case errors.Is(err, service.ErrAccountExists):
		return model.NewConflictError(err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return model.NewConflictError(err.Error())
	case errors.Is(err, service.ErrAccountDeactivate):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrInvalidRegistration),
		errors.Is(err, service.ErrActivityNameEmpty),
		errors.Is(err, service.ErrActivityNameLong),
		errors.Is(err, service.ErrDescriptionTooLong),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidVisibility),
		errors.Is(err, service.ErrInvalidSortField),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrNothingToUpdate),
		errors.Is(err, service.ErrTooManySpeakers),
		errors.Is(err, service.ErrTooManyTags),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidAccount),
		errors.Is(err, service.ErrUnknownExportFormat),
		errors.Is(err, service.ErrUploadTooLarge),
		errors.Is(err, service.ErrUploadBadType),
		errors.Is(err, service.ErrUploadEmpty),
		errors.Is(err, service.ErrUploadNameInvalid):
		return model.NewBadRequestError(err.Error())

	// ===== Everything else → 500 =====
	default:
		return model.NewInternalError("an unexpected error occurred")
	}
}
