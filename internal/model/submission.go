package model

import "time"

// Submission is a film submission record. The festival submission pipeline
// lives in a separate system; this API consumes the submissions collection
// read-only to render program listings.
type Submission struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	OriginalTitle  *string   `json:"original_title,omitempty"`
	Director       string    `json:"director"`
	Country        string    `json:"country,omitempty"`
	Year           int       `json:"year,omitempty"`
	RuntimeMinutes int       `json:"runtime_minutes,omitempty"`
	Program        string    `json:"program"`
	Status         string    `json:"status"`
	SubmittedOn    time.Time `json:"submitted_on"`
}

// SubmissionStatus constants
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusSelected  = "selected"
	SubmissionStatusRejected  = "rejected"
)

// ProgramListing groups selected submissions under a program name.
type ProgramListing struct {
	Program string       `json:"program"`
	Films   []Submission `json:"films"`
}
