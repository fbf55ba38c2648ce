package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kinovera/festival/api/internal/model"
)

type mockActivityCounterStore struct {
	IDsFunc         func(ctx context.Context) ([]string, error)
	GetFunc         func(ctx context.Context, activityID string) (*model.Activity, error)
	SetCountersFunc func(ctx context.Context, activityID string, registered, waitlist int) error
}

func (m *mockActivityCounterStore) IDs(ctx context.Context) ([]string, error) {
	return m.IDsFunc(ctx)
}

func (m *mockActivityCounterStore) Get(ctx context.Context, activityID string) (*model.Activity, error) {
	return m.GetFunc(ctx, activityID)
}

func (m *mockActivityCounterStore) SetCounters(ctx context.Context, activityID string, registered, waitlist int) error {
	return m.SetCountersFunc(ctx, activityID, registered, waitlist)
}

type mockRegistrationCounter struct {
	CountByActivityFunc func(ctx context.Context, activityID string) (int, error)
}

func (m *mockRegistrationCounter) CountByActivity(ctx context.Context, activityID string) (int, error) {
	return m.CountByActivityFunc(ctx, activityID)
}

func TestCounterReconciler_RepairsDriftedCounters(t *testing.T) {
	var set []string
	activities := &mockActivityCounterStore{
		IDsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"activity:a", "activity:b"}, nil
		},
		GetFunc: func(ctx context.Context, activityID string) (*model.Activity, error) {
			if activityID == "activity:a" {
				// Drifted: stored 5, actual 7
				return &model.Activity{ID: activityID, Capacity: 0, RegisteredCount: 5}, nil
			}
			// Consistent
			return &model.Activity{ID: activityID, Capacity: 10, RegisteredCount: 3}, nil
		},
		SetCountersFunc: func(ctx context.Context, activityID string, registered, waitlist int) error {
			set = append(set, activityID)
			if registered != 7 {
				t.Errorf("expected registered 7, got %d", registered)
			}
			if waitlist != 0 {
				t.Errorf("expected waitlist 0 for unlimited capacity, got %d", waitlist)
			}
			return nil
		},
	}
	registrations := &mockRegistrationCounter{
		CountByActivityFunc: func(ctx context.Context, activityID string) (int, error) {
			if activityID == "activity:a" {
				return 7, nil
			}
			return 3, nil
		},
	}

	r := NewCounterReconciler(activities, registrations, time.Minute, nil)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if len(set) != 1 || set[0] != "activity:a" {
		t.Errorf("expected only activity:a repaired, got %v", set)
	}
}

func TestCounterReconciler_ComputesWaitlistOverCapacity(t *testing.T) {
	var gotRegistered, gotWaitlist int
	activities := &mockActivityCounterStore{
		IDsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"activity:full"}, nil
		},
		GetFunc: func(ctx context.Context, activityID string) (*model.Activity, error) {
			return &model.Activity{ID: activityID, Capacity: 10, RegisteredCount: 10}, nil
		},
		SetCountersFunc: func(ctx context.Context, activityID string, registered, waitlist int) error {
			gotRegistered, gotWaitlist = registered, waitlist
			return nil
		},
	}
	registrations := &mockRegistrationCounter{
		CountByActivityFunc: func(ctx context.Context, activityID string) (int, error) {
			return 13, nil
		},
	}

	r := NewCounterReconciler(activities, registrations, time.Minute, nil)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if gotRegistered != 13 {
		t.Errorf("expected registered 13, got %d", gotRegistered)
	}
	if gotWaitlist != 3 {
		t.Errorf("expected waitlist 3, got %d", gotWaitlist)
	}
}

func TestCounterReconciler_SkipsFailingActivity(t *testing.T) {
	var set []string
	activities := &mockActivityCounterStore{
		IDsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"activity:bad", "activity:good"}, nil
		},
		GetFunc: func(ctx context.Context, activityID string) (*model.Activity, error) {
			if activityID == "activity:bad" {
				return nil, errors.New("boom")
			}
			return &model.Activity{ID: activityID, RegisteredCount: 0}, nil
		},
		SetCountersFunc: func(ctx context.Context, activityID string, registered, waitlist int) error {
			set = append(set, activityID)
			return nil
		},
	}
	registrations := &mockRegistrationCounter{
		CountByActivityFunc: func(ctx context.Context, activityID string) (int, error) {
			return 2, nil
		},
	}

	r := NewCounterReconciler(activities, registrations, time.Minute, nil)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if len(set) != 1 || set[0] != "activity:good" {
		t.Errorf("expected only activity:good repaired, got %v", set)
	}
}

func TestCounterReconciler_ListFailureReturnsError(t *testing.T) {
	activities := &mockActivityCounterStore{
		IDsFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("db down")
		},
	}
	registrations := &mockRegistrationCounter{}

	r := NewCounterReconciler(activities, registrations, time.Minute, nil)
	if err := r.RunOnce(context.Background()); err == nil {
		t.Error("expected error when listing activities fails")
	}
}

func TestCounterReconciler_StartStop(t *testing.T) {
	activities := &mockActivityCounterStore{
		IDsFunc: func(ctx context.Context) ([]string, error) {
			return nil, nil
		},
	}
	registrations := &mockRegistrationCounter{}

	r := NewCounterReconciler(activities, registrations, time.Hour, nil)
	if r.IsRunning() {
		t.Error("expected reconciler not running before Start")
	}

	r.Start()
	if !r.IsRunning() {
		t.Error("expected reconciler running after Start")
	}

	// Second Start is a no-op
	r.Start()

	r.Stop()
	if r.IsRunning() {
		t.Error("expected reconciler stopped after Stop")
	}
}
