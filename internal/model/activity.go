package model

import "time"

// Activity represents a festival activity: a screening, workshop, talk or
// other scheduled event that attendees can register for.
type Activity struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ShortDescription *string `json:"short_description,omitempty"`
	Description      *string `json:"description,omitempty"`
	ImagePath        *string `json:"image_path,omitempty"` // object storage key

	// Scheduling. EventDate carries the calendar date; StartTime/EndTime are
	// time-of-day strings ("18:30") shown verbatim to attendees.
	EventDate            time.Time  `json:"event_date"`
	EventEndDate         *time.Time `json:"event_end_date,omitempty"`
	StartTime            string     `json:"start_time,omitempty"`
	EndTime              string     `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`

	Venue      Venue     `json:"venue"`
	Organizers []string  `json:"organizers,omitempty"`
	Speakers   []Speaker `json:"speakers,omitempty"`
	Tags       []string  `json:"tags,omitempty"`

	Status     string `json:"status"`
	Visibility string `json:"visibility"`

	// Capacity of 0 means unlimited. Capacity is advisory: registration is
	// never rejected for being over capacity, staff resolve overflow later.
	Capacity int `json:"capacity"`

	// Denormalized counters, maintained inside the same transaction or
	// batch as the mutation that changes them, and reconciled periodically.
	RegisteredCount int `json:"registered_count"`
	WaitlistCount   int `json:"waitlist_count"`
	ViewCount       int `json:"view_count"`

	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Venue is where an activity takes place.
type Venue struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	Room    *string `json:"room,omitempty"`
}

// Speaker is embedded in its Activity. Speakers have no identity outside
// the activity that lists them; the ID is assigned when the speaker is
// added and is only used to address storage paths and array updates.
type Speaker struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Contact   *string `json:"contact,omitempty"`
	ImagePath *string `json:"image_path,omitempty"`
}

// ActivityStatus constants
const (
	ActivityStatusDraft     = "draft"
	ActivityStatusPublished = "published"
	ActivityStatusCancelled = "cancelled"
	ActivityStatusCompleted = "completed"
)

// ActivityVisibility constants
const (
	ActivityVisibilityPublic  = "public"
	ActivityVisibilityPrivate = "private"
)

// ValidActivityStatus reports whether s is a known activity status.
func ValidActivityStatus(s string) bool {
	switch s {
	case ActivityStatusDraft, ActivityStatusPublished, ActivityStatusCancelled, ActivityStatusCompleted:
		return true
	}
	return false
}

// IsOpenForRegistration reports whether the activity accepts registrations
// at the given instant. Capacity is deliberately not part of this check.
func (a *Activity) IsOpenForRegistration(now time.Time) bool {
	if a.Status != ActivityStatusPublished {
		return false
	}
	if a.RegistrationDeadline != nil && now.After(*a.RegistrationDeadline) {
		return false
	}
	return true
}

// Constraints
const (
	MaxActivityNameLength        = 200
	MaxActivityDescriptionLength = 5000
	MaxActivityTags              = 20
	MaxActivitySpeakers          = 30
)

// CreateActivityRequest represents a request to create an activity
type CreateActivityRequest struct {
	Name                 string     `json:"name"`
	ShortDescription     *string    `json:"short_description,omitempty"`
	Description          *string    `json:"description,omitempty"`
	EventDate            time.Time  `json:"event_date"`
	EventEndDate         *time.Time `json:"event_end_date,omitempty"`
	StartTime            string     `json:"start_time,omitempty"`
	EndTime              string     `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Venue                Venue      `json:"venue"`
	Organizers           []string   `json:"organizers,omitempty"`
	Speakers             []Speaker  `json:"speakers,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	Status               string     `json:"status,omitempty"`
	Visibility           string     `json:"visibility,omitempty"`
	Capacity             int        `json:"capacity,omitempty"`
}

// UpdateActivityRequest represents a partial update. Nil fields are left
// untouched in storage; they are never written as nulls.
type UpdateActivityRequest struct {
	Name                 *string    `json:"name,omitempty"`
	ShortDescription     *string    `json:"short_description,omitempty"`
	Description          *string    `json:"description,omitempty"`
	ImagePath            *string    `json:"image_path,omitempty"`
	EventDate            *time.Time `json:"event_date,omitempty"`
	EventEndDate         *time.Time `json:"event_end_date,omitempty"`
	StartTime            *string    `json:"start_time,omitempty"`
	EndTime              *string    `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Venue                *Venue     `json:"venue,omitempty"`
	Organizers           []string   `json:"organizers,omitempty"`
	Speakers             []Speaker  `json:"speakers,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	Status               *string    `json:"status,omitempty"`
	Visibility           *string    `json:"visibility,omitempty"`
	Capacity             *int       `json:"capacity,omitempty"`
}
