package tests

/*
FEATURE: Activity Management
DOMAIN: Festival Activities

ACCEPTANCE CRITERIA:
===================

AC-ACT-001: Create Activity With Defaults
  GIVEN a staff member creating an activity
  WHEN the request omits status and visibility
  THEN the activity is created as a public draft with zeroed counters

AC-ACT-002: Partial Update
  GIVEN an existing activity
  WHEN staff submit an update naming only some fields
  THEN named fields change and everything else is untouched

AC-ACT-003: Duplicate Activity
  GIVEN a published activity with registrations
  WHEN staff duplicate it
  THEN the copy is named "<name> (copy)", is a private draft,
  AND carries zeroed counters regardless of the source

AC-ACT-004: List With Filters And Pagination
  GIVEN a mix of draft and published activities
  WHEN staff list with a status filter and a page size
  THEN only matching activities come back
  AND Total counts the filtered set, not the page

AC-ACT-005: Public Listing Hides Unpublished
  GIVEN draft, private and published activities
  WHEN the public listing is requested
  THEN only published public activities are returned

AC-ACT-006: Delete Removes Registrations
  GIVEN an activity with registrations
  WHEN staff delete the activity
  THEN the activity and its registrations are gone

AC-ACT-007: Bulk Status Change
  GIVEN several draft activities
  WHEN staff publish them in one call
  THEN every named activity becomes published
  AND an invalid target status rejects the batch up front
*/

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/repository"
	"github.com/kinovera/festival/api/internal/service"
	"github.com/kinovera/festival/api/internal/testing/fixtures"
	"github.com/kinovera/festival/api/internal/testing/helpers"
	"github.com/kinovera/festival/api/internal/testing/testdb"
)

const testActor = "user_account:tests"

func newActivityService(tdb *testdb.TestDB) *service.ActivityService {
	return service.NewActivityService(repository.NewActivityRepository(tdb.DB), nil, nil)
}

func TestActivity_CreateDefaults(t *testing.T) {
	// AC-ACT-001: Create Activity With Defaults
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := newActivityService(tdb)
	ctx := context.Background()

	created, err := svc.CreateActivity(ctx, testActor, &model.CreateActivityRequest{
		Name:      "Restoration Masterclass",
		EventDate: time.Now().Add(14 * 24 * time.Hour).UTC(),
		StartTime: "19:00",
		Venue:     model.Venue{Name: "Cinema Hall B", City: "Thessaloniki"},
		Capacity:  40,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.ActivityStatusDraft, created.Status)
	assert.Equal(t, model.ActivityVisibilityPublic, created.Visibility)
	assert.Equal(t, 0, created.RegisteredCount)
	assert.Equal(t, 0, created.WaitlistCount)
	assert.Equal(t, testActor, created.CreatedBy)

	fetched, err := svc.GetActivity(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Restoration Masterclass", fetched.Name)
	assert.Equal(t, "Cinema Hall B", fetched.Venue.Name)
}

func TestActivity_CreateValidation(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := newActivityService(tdb)
	ctx := context.Background()

	_, err := svc.CreateActivity(ctx, testActor, &model.CreateActivityRequest{
		EventDate: time.Now().Add(24 * time.Hour),
		Venue:     model.Venue{Name: "Hall"},
	})
	assert.ErrorIs(t, err, service.ErrActivityNameEmpty)

	_, err = svc.CreateActivity(ctx, testActor, &model.CreateActivityRequest{
		Name:      "Bad Status",
		EventDate: time.Now().Add(24 * time.Hour),
		Venue:     model.Venue{Name: "Hall"},
		Status:    "unheard-of",
	})
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestActivity_PartialUpdate(t *testing.T) {
	// AC-ACT-002: Partial Update
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newActivityService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t, func(o *fixtures.ActivityOpts) {
		o.Name = "Opening Night Gala"
		o.Capacity = 200
		o.Tags = []string{"gala", "opening"}
	})

	updated, err := svc.UpdateActivity(ctx, testActor, activity.ID, &model.UpdateActivityRequest{
		Name:     helpers.StringPtr("Opening Night Gala 2026"),
		Capacity: helpers.IntPtr(250),
	})
	require.NoError(t, err)

	assert.Equal(t, "Opening Night Gala 2026", updated.Name)
	assert.Equal(t, 250, updated.Capacity)
	// untouched fields survive
	assert.Equal(t, activity.Status, updated.Status)
	assert.Equal(t, activity.Venue.Name, updated.Venue.Name)
	assert.ElementsMatch(t, []string{"gala", "opening"}, updated.Tags)
}

func TestActivity_UpdateNothing(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newActivityService(tdb)

	activity := f.CreateActivity(t)

	_, err := svc.UpdateActivity(context.Background(), testActor, activity.ID, &model.UpdateActivityRequest{})
	assert.ErrorIs(t, err, service.ErrNothingToUpdate)
}

func TestActivity_Duplicate(t *testing.T) {
	// AC-ACT-003: Duplicate Activity
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newActivityService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t, func(o *fixtures.ActivityOpts) {
		o.Name = "Sound Design Workshop"
		o.Capacity = 30
	})
	f.CreateRegistration(t, activity)

	dup, err := svc.DuplicateActivity(ctx, testActor, activity.ID)
	require.NoError(t, err)

	assert.NotEqual(t, activity.ID, dup.ID)
	assert.Equal(t, "Sound Design Workshop (copy)", dup.Name)
	assert.Equal(t, model.ActivityStatusDraft, dup.Status)
	assert.Equal(t, model.ActivityVisibilityPrivate, dup.Visibility)
	assert.Equal(t, 30, dup.Capacity)
	assert.Equal(t, 0, dup.RegisteredCount)
	assert.Equal(t, 0, dup.WaitlistCount)

	// the source keeps its registration and counter
	source, err := svc.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, source.RegisteredCount)
}

func TestActivity_ListFiltersAndPagination(t *testing.T) {
	// AC-ACT-004: List With Filters And Pagination
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newActivityService(tdb)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.CreateActivity(t)
	}
	f.CreateDraftActivity(t)
	f.CreateDraftActivity(t)

	status := model.ActivityStatusPublished
	page, err := svc.ListActivities(ctx, model.ListQuery{
		Filters: model.ActivityFilters{Status: &status},
		Page:    model.PageRequest{Page: 1, PageSize: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 2, page.PageCount)
	for _, a := range page.Items {
		assert.Equal(t, model.ActivityStatusPublished, a.Status)
	}

	second, err := svc.ListActivities(ctx, model.ListQuery{
		Filters: model.ActivityFilters{Status: &status},
		Page:    model.PageRequest{Page: 2, PageSize: 3},
	})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, 5, second.Total)
}

func TestActivity_ListSortedByDate(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newActivityService(tdb)

	f.CreateActivity(t, func(o *fixtures.ActivityOpts) {
		o.Name = "Later"
		o.EventDate = time.Now().Add(30 * 24 * time.Hour).UTC()
	})
	f.CreateActivity(t, func(o *fixtures.ActivityOpts) {
		o.Name = "Sooner"
		o.EventDate = time.Now().Add(2 * 24 * time.Hour).UTC()
	})

	page, err := svc.ListActivities(context.Background(), model.ListQuery{
		Sort: &model.SortSpec{Field: model.SortByDate},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Sooner", page.Items[0].Name)
	assert.Equal(t, "Later", page.Items[1].Name)
}

func TestActivity_PublicListingHidesUnpublished(t *testing.T) {
	// AC-ACT-005: Public Listing Hides Unpublished
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newActivityService(tdb)
	ctx := context.Background()

	visible := f.CreateActivity(t)
	f.CreateDraftActivity(t)
	f.CreateActivity(t, func(o *fixtures.ActivityOpts) {
		o.Visibility = model.ActivityVisibilityPrivate
	})

	page, err := svc.ListPublicActivities(ctx, model.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, visible.ID, page.Items[0].ID)

	// direct public fetch follows the same rule
	_, err = svc.GetPublicActivity(ctx, visible.ID)
	assert.NoError(t, err)
}

func TestActivity_DeleteRemovesRegistrations(t *testing.T) {
	// AC-ACT-006: Delete Removes Registrations
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newActivityService(tdb)
	regSvc, _ := newRegistrationService(tdb)
	ctx := context.Background()

	activity := f.CreateActivity(t)
	reg := f.CreateRegistration(t, activity)

	err := svc.DeleteActivity(ctx, activity.ID)
	require.NoError(t, err)

	_, err = svc.GetActivity(ctx, activity.ID)
	assert.ErrorIs(t, err, service.ErrActivityNotFound)

	_, err = regSvc.GetRegistration(ctx, reg.ID)
	assert.ErrorIs(t, err, service.ErrRegistrationNotFound)
}

func TestActivity_BulkStatus(t *testing.T) {
	// AC-ACT-007: Bulk Status Change
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newActivityService(tdb)
	ctx := context.Background()

	first := f.CreateDraftActivity(t)
	second := f.CreateDraftActivity(t)

	err := svc.BulkUpdateStatus(ctx, testActor, []string{first.ID, second.ID}, model.ActivityStatusPublished)
	require.NoError(t, err)

	for _, id := range []string{first.ID, second.ID} {
		a, err := svc.GetActivity(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ActivityStatusPublished, a.Status)
	}

	err = svc.BulkUpdateStatus(ctx, testActor, []string{first.ID}, "unheard-of")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	// nothing in the rejected batch changed
	a, err := svc.GetActivity(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActivityStatusPublished, a.Status)
}
