package model

import "time"

// Registration represents a participant registration for an activity.
// A registration belongs to exactly one activity; ownership is the record
// link, there is no independent registration collection across activities.
type Registration struct {
	ID         string `json:"id"`
	ActivityID string `json:"activity_id"`

	Name               string  `json:"name"`
	TransliteratedName *string `json:"transliterated_name,omitempty"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`

	Category     string  `json:"category"`
	Occupation   *string `json:"occupation,omitempty"`
	Organization *string `json:"organization,omitempty"`

	// TrackingCode is the attendee-facing lookup code: 8 upper-case
	// alphanumerics, unique within the activity.
	TrackingCode string `json:"tracking_code"`

	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`

	// Capture metadata
	Source    string `json:"source,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// RegistrationStatus constants
const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusApproved   = "approved"
	RegistrationStatusAttended   = "attended"
	RegistrationStatusAbsent     = "absent"
)

// registrationTransitions is the allowed status transition table. A newly
// created registration starts as registered. Attended and absent may swap
// to correct attendance mistakes, but nothing returns to registered.
var registrationTransitions = map[string][]string{
	RegistrationStatusRegistered: {RegistrationStatusApproved, RegistrationStatusAttended, RegistrationStatusAbsent},
	RegistrationStatusApproved:   {RegistrationStatusAttended, RegistrationStatusAbsent},
	RegistrationStatusAttended:   {RegistrationStatusAbsent},
	RegistrationStatusAbsent:     {RegistrationStatusAttended},
}

// CanTransitionRegistration reports whether a registration status change
// from one status to another is allowed.
func CanTransitionRegistration(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range registrationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidRegistrationStatus reports whether s is a known registration status.
func ValidRegistrationStatus(s string) bool {
	_, ok := registrationTransitions[s]
	return ok
}

// TrackingCodeLength is the number of characters in a tracking code.
const TrackingCodeLength = 8

// TrackingCodeCharset is the alphabet tracking codes are drawn from.
const TrackingCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RegisterRequest is the public registration form payload. Validation tags
// are enforced before any database call.
type RegisterRequest struct {
	Name               string  `json:"name" validate:"required,max=200"`
	TransliteratedName *string `json:"transliterated_name,omitempty" validate:"omitempty,max=200"`
	Email              string  `json:"email" validate:"required,email"`
	Phone              string  `json:"phone" validate:"required,phone"`
	Category           string  `json:"category" validate:"required,max=100"`
	Occupation         *string `json:"occupation,omitempty" validate:"omitempty,max=200"`
	Organization       *string `json:"organization,omitempty" validate:"omitempty,max=200"`
	Notes              *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Source             string  `json:"source,omitempty" validate:"omitempty,max=100"`
}

// UpdateRegistrationRequest represents a partial registration update by staff.
type UpdateRegistrationRequest struct {
	Name               *string `json:"name,omitempty"`
	TransliteratedName *string `json:"transliterated_name,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	Category           *string `json:"category,omitempty"`
	Occupation         *string `json:"occupation,omitempty"`
	Organization       *string `json:"organization,omitempty"`
	Status             *string `json:"status,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// RegistrationFilters narrows registration listings.
type RegistrationFilters struct {
	Status   *string `json:"status,omitempty"`
	Category *string `json:"category,omitempty"`
}
