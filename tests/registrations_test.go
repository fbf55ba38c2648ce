package tests

/*
FEATURE: Public Registration
DOMAIN: Activity Registrations

ACCEPTANCE CRITERIA:
===================

AC-REG-001: Register For Published Activity
  GIVEN a published activity open for registration
  WHEN an attendee submits a valid registration form
  THEN the registration is created with status "registered"
  AND it carries an 8-character tracking code
  AND the activity's registered counter is incremented

AC-REG-002: Duplicate Email Rejected
  GIVEN an email already registered for the activity
  WHEN the same email registers again, in any letter case
  THEN the request fails with a duplicate registration error
  AND the counter is not incremented

AC-REG-010: Concurrent Duplicate Email Exclusivity
  GIVEN two simultaneous registration requests with the same email
  WHEN both hit the same activity at once
  THEN exactly one succeeds and the other gets a duplicate error
  AND the counter ends at 1

AC-REG-003: Registration Deadline Enforced
  GIVEN a published activity whose deadline has passed
  WHEN an attendee registers
  THEN the request fails with a registration closed error

AC-REG-004: Unpublished Activity Closed
  GIVEN a draft activity
  WHEN an attendee registers
  THEN the request fails with a registration closed error

AC-REG-005: Capacity Is Advisory
  GIVEN a published activity with capacity 1 and one registration
  WHEN a second attendee registers
  THEN the registration succeeds

AC-REG-006: Tracking Code Lookup
  GIVEN a registration with a tracking code
  WHEN the attendee looks the code up on the activity
  THEN the registration is returned
  AND an unknown code yields a not found error

AC-REG-007: Status Transitions
  GIVEN a registration in status "registered"
  WHEN staff move it through the allowed transitions
  THEN each allowed transition succeeds and disallowed ones fail

AC-REG-008: Bulk Status All Or Nothing
  GIVEN a batch where one registration cannot make the transition
  WHEN staff apply a bulk status change
  THEN the whole batch is rejected and nothing changes

AC-REG-009: Delete Decrements Counter
  GIVEN an activity with one registration
  WHEN staff delete the registration
  THEN the activity's registered counter returns to zero
*/

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/repository"
	"github.com/kinovera/festival/api/internal/service"
	"github.com/kinovera/festival/api/internal/testing/fixtures"
	"github.com/kinovera/festival/api/internal/testing/testdb"
)

// noopMailer satisfies the confirmation mailer without sending anything
type noopMailer struct{}

func (noopMailer) SendConfirmation(ctx context.Context, reg *model.Registration, activity *model.Activity) error {
	return nil
}

func newRegistrationService(tdb *testdb.TestDB) (*service.RegistrationService, *repository.ActivityRepository) {
	activityRepo := repository.NewActivityRepository(tdb.DB)
	registrationRepo := repository.NewRegistrationRepository(tdb.DB)
	svc := service.NewRegistrationService(registrationRepo, activityRepo, noopMailer{}, nil)
	return svc, activityRepo
}

func validForm() *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:     "Maria Papadopoulou",
		Email:    "maria@example.com",
		Phone:    "+30 210 1234567",
		Category: "general",
	}
}

func TestRegistration_Register(t *testing.T) {
	// AC-REG-001: Register For Published Activity
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, activityRepo := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t)

	reg, err := svc.Register(ctx, activity.ID, validForm(), "test-agent")
	require.NoError(t, err)
	require.NotNil(t, reg)

	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, model.RegistrationStatusRegistered, reg.Status)
	assert.Len(t, reg.TrackingCode, model.TrackingCodeLength)
	for _, c := range reg.TrackingCode {
		assert.Contains(t, model.TrackingCodeCharset, string(c))
	}

	fetched, err := activityRepo.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.RegisteredCount)
}

func TestRegistration_DuplicateEmail(t *testing.T) {
	// AC-REG-002: Duplicate Email Rejected
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, activityRepo := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t)

	_, err := svc.Register(ctx, activity.ID, validForm(), "")
	require.NoError(t, err)

	// Same email with different casing
	dup := validForm()
	dup.Email = "MARIA@Example.com"
	dup.Name = "Someone Else"

	_, err = svc.Register(ctx, activity.ID, dup, "")
	assert.ErrorIs(t, err, service.ErrDuplicateRegistration)

	fetched, err := activityRepo.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.RegisteredCount)
}

func TestRegistration_ConcurrentDuplicateEmail(t *testing.T) {
	// AC-REG-010: Concurrent Duplicate Email Exclusivity
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, activityRepo := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, activity.ID, validForm(), "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrDuplicateRegistration):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one registration must win")
	assert.Equal(t, 1, rejected, "the loser must see a duplicate error")

	fetched, err := activityRepo.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.RegisteredCount)
}

func TestRegistration_DeadlinePassed(t *testing.T) {
	// AC-REG-003: Registration Deadline Enforced
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, _ := newRegistrationService(tdb)

	activity := f.CreateClosedActivity(t)

	_, err := svc.Register(context.Background(), activity.ID, validForm(), "")
	assert.ErrorIs(t, err, service.ErrRegistrationClosed)
}

func TestRegistration_DraftActivityClosed(t *testing.T) {
	// AC-REG-004: Unpublished Activity Closed
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, _ := newRegistrationService(tdb)

	activity := f.CreateDraftActivity(t)

	_, err := svc.Register(context.Background(), activity.ID, validForm(), "")
	assert.ErrorIs(t, err, service.ErrRegistrationClosed)
}

func TestRegistration_CapacityIsAdvisory(t *testing.T) {
	// AC-REG-005: Capacity Is Advisory
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, activityRepo := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t, func(o *fixtures.ActivityOpts) {
		o.Capacity = 1
	})

	_, err := svc.Register(ctx, activity.ID, validForm(), "")
	require.NoError(t, err)

	second := validForm()
	second.Email = "second@example.com"
	_, err = svc.Register(ctx, activity.ID, second, "")
	require.NoError(t, err, "registration past capacity must still succeed")

	fetched, err := activityRepo.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.RegisteredCount)
}

func TestRegistration_TrackingCodeLookup(t *testing.T) {
	// AC-REG-006: Tracking Code Lookup
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, _ := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t)

	created, err := svc.Register(ctx, activity.ID, validForm(), "")
	require.NoError(t, err)

	found, err := svc.LookupByTrackingCode(ctx, activity.ID, created.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Email, found.Email)

	// Lookup is case-sensitive on the stored upper-case code; an unknown
	// code of valid shape is simply not found.
	unknown := strings.Repeat("Z", model.TrackingCodeLength)
	_, err = svc.LookupByTrackingCode(ctx, activity.ID, unknown)
	assert.ErrorIs(t, err, service.ErrRegistrationNotFound)
}

func TestRegistration_StatusTransitions(t *testing.T) {
	// AC-REG-007: Status Transitions
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, _ := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t)
	reg := f.CreateRegistration(t, activity)

	// registered -> approved
	updated, err := svc.UpdateStatus(ctx, reg.ID, model.RegistrationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusApproved, updated.Status)

	// approved -> attended
	updated, err = svc.UpdateStatus(ctx, reg.ID, model.RegistrationStatusAttended)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusAttended, updated.Status)

	// attended -> registered is not allowed
	_, err = svc.UpdateStatus(ctx, reg.ID, model.RegistrationStatusRegistered)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	// attended <-> absent may swap to correct mistakes
	updated, err = svc.UpdateStatus(ctx, reg.ID, model.RegistrationStatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusAbsent, updated.Status)

	updated, err = svc.UpdateStatus(ctx, reg.ID, model.RegistrationStatusAttended)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusAttended, updated.Status)
}

func TestRegistration_BulkStatusAllOrNothing(t *testing.T) {
	// AC-REG-008: Bulk Status All Or Nothing
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, _ := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t)
	fresh := f.CreateRegistration(t, activity)
	attended := f.CreateRegistration(t, activity, func(o *fixtures.RegistrationOpts) {
		o.Status = model.RegistrationStatusAttended
	})

	// attended -> approved is not a legal transition, so the whole batch
	// must be rejected
	err := svc.BulkUpdateStatus(ctx, []string{fresh.ID, attended.ID}, model.RegistrationStatusApproved)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	unchanged, err := svc.GetRegistration(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusRegistered, unchanged.Status)

	// A batch where every transition is legal goes through
	err = svc.BulkUpdateStatus(ctx, []string{fresh.ID}, model.RegistrationStatusApproved)
	require.NoError(t, err)

	changed, err := svc.GetRegistration(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusApproved, changed.Status)
}

func TestRegistration_DeleteDecrementsCounter(t *testing.T) {
	// AC-REG-009: Delete Decrements Counter
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc, activityRepo := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t)

	created, err := svc.Register(ctx, activity.ID, validForm(), "")
	require.NoError(t, err)

	err = svc.DeleteRegistration(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.GetRegistration(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrRegistrationNotFound)

	fetched, err := activityRepo.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fetched.RegisteredCount)
}
