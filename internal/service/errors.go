package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable. The set is closed:
// handlers map exactly these, and anything else becomes an internal error.

// ===== Activity Errors =====
var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrActivityNameEmpty  = errors.New("activity name is required")
	ErrActivityNameLong   = errors.New("activity name exceeds maximum length")
	ErrInvalidStatus      = errors.New("unknown activity status")
	ErrInvalidVisibility  = errors.New("unknown activity visibility")
	ErrInvalidSortField   = errors.New("unknown sort field")
	ErrTooManySpeakers    = errors.New("too many speakers")
	ErrTooManyTags        = errors.New("too many tags")
	ErrSpeakerNotFound    = errors.New("speaker not found")
	ErrNothingToUpdate    = errors.New("no fields to update")
	ErrInvalidDateRange   = errors.New("date range start is after end")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
)

// ===== Registration Errors =====
var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrRegistrationClosed    = errors.New("activity is not open for registration")
	ErrDuplicateRegistration = errors.New("email already registered for this activity")
	ErrInvalidRegistration   = errors.New("registration data is invalid")
	ErrInvalidTransition     = errors.New("registration status transition not allowed")
	ErrTrackingCodeExhausted = errors.New("could not allocate a unique tracking code")
)

// ===== Account Errors =====
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account with this email already exists")
	ErrInvalidRole       = errors.New("unknown role")
	ErrRoleNotPermitted  = errors.New("not authorized to assign roles")
	ErrInvalidAccount    = errors.New("account data is invalid")
	ErrAccountDeactivate = errors.New("cannot deactivate the last active admin")
)

// ===== Export Errors =====
var (
	ErrUnknownExportFormat = errors.New("unknown export format")
)

// ===== Upload Errors =====
var (
	ErrUploadTooLarge    = errors.New("upload exceeds maximum size")
	ErrUploadBadType     = errors.New("unsupported image type")
	ErrUploadEmpty       = errors.New("upload is empty")
	ErrUploadNameInvalid = errors.New("upload filename is invalid")
)

// ===== Program Errors =====
var (
	ErrProgramNotFound = errors.New("program not found")
)
