package model

import (
	"testing"
	"time"
)

func TestCanTransitionRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"registered to approved", RegistrationStatusRegistered, RegistrationStatusApproved, true},
		{"registered to attended", RegistrationStatusRegistered, RegistrationStatusAttended, true},
		{"registered to absent", RegistrationStatusRegistered, RegistrationStatusAbsent, true},
		{"approved to attended", RegistrationStatusApproved, RegistrationStatusAttended, true},
		{"approved to absent", RegistrationStatusApproved, RegistrationStatusAbsent, true},
		{"attended to absent correction", RegistrationStatusAttended, RegistrationStatusAbsent, true},
		{"absent to attended correction", RegistrationStatusAbsent, RegistrationStatusAttended, true},
		{"attended back to registered", RegistrationStatusAttended, RegistrationStatusRegistered, false},
		{"approved back to registered", RegistrationStatusApproved, RegistrationStatusRegistered, false},
		{"attended back to approved", RegistrationStatusAttended, RegistrationStatusApproved, false},
		{"same status is a no-op", RegistrationStatusApproved, RegistrationStatusApproved, true},
		{"unknown source status", "bogus", RegistrationStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionRegistration(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransitionRegistration(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestValidRegistrationStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		RegistrationStatusRegistered,
		RegistrationStatusApproved,
		RegistrationStatusAttended,
		RegistrationStatusAbsent,
	} {
		if !ValidRegistrationStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidRegistrationStatus("pending") {
		t.Error("pending is not a registration status")
	}
}

func TestActivity_IsOpenForRegistration(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	passed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		activity Activity
		want     bool
	}{
		{"published without deadline", Activity{Status: ActivityStatusPublished}, true},
		{"published before deadline", Activity{Status: ActivityStatusPublished, RegistrationDeadline: &deadline}, true},
		{"published after deadline", Activity{Status: ActivityStatusPublished, RegistrationDeadline: &passed}, false},
		{"draft", Activity{Status: ActivityStatusDraft}, false},
		{"cancelled", Activity{Status: ActivityStatusCancelled, RegistrationDeadline: &deadline}, false},
		{"completed", Activity{Status: ActivityStatusCompleted}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.activity.IsOpenForRegistration(now); got != tt.want {
				t.Errorf("IsOpenForRegistration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageRequest_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{"zero value", PageRequest{}, 1, DefaultPageSize},
		{"negative page", PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size", PageRequest{Page: 2, PageSize: 5000}, 2, MaxPageSize},
		{"valid request untouched", PageRequest{Page: 4, PageSize: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Page != tt.wantPage || got.PageSize != tt.wantSize {
				t.Errorf("Normalize() = {%d %d}, want {%d %d}", got.Page, got.PageSize, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestActivityFilters_Count(t *testing.T) {
	t.Parallel()

	status := ActivityStatusPublished
	vis := ActivityVisibilityPublic
	tag := "workshop"
	from := time.Now()

	if got := (ActivityFilters{}).Count(); got != 0 {
		t.Errorf("empty filters count = %d, want 0", got)
	}
	if got := (ActivityFilters{Status: &status}).Count(); got != 1 {
		t.Errorf("single filter count = %d, want 1", got)
	}
	// A date range is one constraint: both bounds target the same field.
	if got := (ActivityFilters{DateFrom: &from, DateTo: &from}).Count(); got != 1 {
		t.Errorf("date range count = %d, want 1", got)
	}
	if got := (ActivityFilters{Status: &status, Visibility: &vis, Tag: &tag}).Count(); got != 3 {
		t.Errorf("three filters count = %d, want 3", got)
	}
}
