// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	activity := f.CreateActivity(t)
//	reg := f.CreateRegistration(t, activity)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/kinovera/festival/api/internal/database"
	"github.com/kinovera/festival/api/internal/model"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// randomTrackingCode generates a valid tracking code
func randomTrackingCode() string {
	b := make([]byte, model.TrackingCodeLength)
	_, _ = rand.Read(b)
	code := make([]byte, model.TrackingCodeLength)
	for i, v := range b {
		code[i] = model.TrackingCodeCharset[int(v)%len(model.TrackingCodeCharset)]
	}
	return string(code)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// Activity Fixtures
// ============================================================================

// ActivityOpts customizes activity creation
type ActivityOpts struct {
	Name                 string
	Status               string
	Visibility           string
	EventDate            time.Time
	StartTime            string
	RegistrationDeadline *time.Time
	Capacity             int
	Tags                 []string
	VenueName            string
	Speakers             []model.Speaker
}

// CreateActivity creates an activity with optional customizations.
// The default is a published public activity a week out, open for
// registration.
func (f *Factory) CreateActivity(t *testing.T, opts ...func(*ActivityOpts)) *model.Activity {
	t.Helper()

	o := &ActivityOpts{
		Name:       fmt.Sprintf("Activity %s", randomID()),
		Status:     model.ActivityStatusPublished,
		Visibility: model.ActivityVisibilityPublic,
		EventDate:  time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		StartTime:  "18:00",
		VenueName:  "Main Hall",
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE activity CONTENT {
			name: $name,
			event_date: <datetime> $event_date,
			start_time: $start_time,
			venue: { name: $venue_name },
			tags: $tags,
			speakers: $speakers,
			status: $status,
			visibility: $visibility,
			capacity: $capacity,
			registered_count: 0,
			waitlist_count: 0,
			view_count: 0,
			created_by: "user_account:fixtures",
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":       o.Name,
		"event_date": o.EventDate.UTC().Format(time.RFC3339),
		"start_time": o.StartTime,
		"venue_name": o.VenueName,
		"tags":       o.Tags,
		"speakers":   speakerMaps(o.Speakers),
		"status":     o.Status,
		"visibility": o.Visibility,
		"capacity":   o.Capacity,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create activity: %v", err)
	}

	row := firstRecord(t, results)
	activity := &model.Activity{
		ID:         recordID(row["id"]),
		Name:       o.Name,
		EventDate:  o.EventDate,
		StartTime:  o.StartTime,
		Venue:      model.Venue{Name: o.VenueName},
		Tags:       o.Tags,
		Speakers:   o.Speakers,
		Status:     o.Status,
		Visibility: o.Visibility,
		Capacity:   o.Capacity,
	}

	if o.RegistrationDeadline != nil {
		f.mustExec(t, `UPDATE type::record($id) SET registration_deadline = <datetime> $deadline`, map[string]interface{}{
			"id":       activity.ID,
			"deadline": o.RegistrationDeadline.UTC().Format(time.RFC3339),
		})
		activity.RegistrationDeadline = o.RegistrationDeadline
	}

	return activity
}

// CreateDraftActivity creates an activity that is not yet published
func (f *Factory) CreateDraftActivity(t *testing.T) *model.Activity {
	return f.CreateActivity(t, func(o *ActivityOpts) {
		o.Status = model.ActivityStatusDraft
		o.Visibility = model.ActivityVisibilityPrivate
	})
}

// CreateClosedActivity creates a published activity whose registration
// deadline has already passed
func (f *Factory) CreateClosedActivity(t *testing.T) *model.Activity {
	past := time.Now().Add(-time.Hour)
	return f.CreateActivity(t, func(o *ActivityOpts) {
		o.RegistrationDeadline = &past
	})
}

// ============================================================================
// Registration Fixtures
// ============================================================================

// RegistrationOpts customizes registration creation
type RegistrationOpts struct {
	Name         string
	Email        string
	Phone        string
	Category     string
	Status       string
	TrackingCode string
}

// CreateRegistration inserts a registration row for the activity and bumps
// the activity's registered counter, mirroring what the register
// transaction does.
func (f *Factory) CreateRegistration(t *testing.T, activity *model.Activity, opts ...func(*RegistrationOpts)) *model.Registration {
	t.Helper()

	o := &RegistrationOpts{
		Name:         fmt.Sprintf("Attendee %s", randomID()),
		Email:        fmt.Sprintf("attendee_%s@test.local", randomID()),
		Phone:        "+30 210 0000000",
		Category:     "general",
		Status:       model.RegistrationStatusRegistered,
		TrackingCode: randomTrackingCode(),
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE registration CONTENT {
			activity: type::record($activity_id),
			name: $name,
			email: $email,
			phone: $phone,
			category: $category,
			tracking_code: $tracking_code,
			status: $status,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"activity_id":   activity.ID,
		"name":          o.Name,
		"email":         o.Email,
		"phone":         o.Phone,
		"category":      o.Category,
		"tracking_code": o.TrackingCode,
		"status":        o.Status,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create registration: %v", err)
	}

	f.mustExec(t, `UPDATE type::record($id) SET registered_count += 1`, map[string]interface{}{
		"id": activity.ID,
	})

	row := firstRecord(t, results)
	return &model.Registration{
		ID:           recordID(row["id"]),
		ActivityID:   activity.ID,
		Name:         o.Name,
		Email:        o.Email,
		Phone:        o.Phone,
		Category:     o.Category,
		TrackingCode: o.TrackingCode,
		Status:       o.Status,
	}
}

// ============================================================================
// Account Fixtures
// ============================================================================

// AccountOpts customizes account creation
type AccountOpts struct {
	Email       string
	DisplayName string
	Role        string
	Status      string
}

// CreateAccount creates a staff account with optional customizations
func (f *Factory) CreateAccount(t *testing.T, opts ...func(*AccountOpts)) *model.UserAccount {
	t.Helper()

	o := &AccountOpts{
		Email:       fmt.Sprintf("staff_%s@test.local", randomID()),
		DisplayName: fmt.Sprintf("Staff %s", randomID()),
		Role:        model.RoleEditor,
		Status:      model.AccountStatusActive,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE user_account CONTENT {
			email: $email,
			display_name: $display_name,
			role: $role,
			status: $status,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":        o.Email,
		"display_name": o.DisplayName,
		"role":         o.Role,
		"status":       o.Status,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create account: %v", err)
	}

	row := firstRecord(t, results)
	return &model.UserAccount{
		ID:          recordID(row["id"]),
		Email:       o.Email,
		DisplayName: o.DisplayName,
		Role:        o.Role,
		Status:      o.Status,
	}
}

// CreateAdmin creates an admin account
func (f *Factory) CreateAdmin(t *testing.T) *model.UserAccount {
	return f.CreateAccount(t, func(o *AccountOpts) {
		o.Role = model.RoleAdmin
	})
}

// ============================================================================
// Submission Fixtures
// ============================================================================

// SubmissionOpts customizes submission creation
type SubmissionOpts struct {
	Title    string
	Director string
	Program  string
	Status   string
}

// CreateSubmission creates a film submission row
func (f *Factory) CreateSubmission(t *testing.T, opts ...func(*SubmissionOpts)) *model.Submission {
	t.Helper()

	o := &SubmissionOpts{
		Title:    fmt.Sprintf("Film %s", randomID()),
		Director: "Test Director",
		Program:  "shorts",
		Status:   model.SubmissionStatusSelected,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE submission CONTENT {
			title: $title,
			director: $director,
			program: $program,
			status: $status,
			submitted_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"title":    o.Title,
		"director": o.Director,
		"program":  o.Program,
		"status":   o.Status,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create submission: %v", err)
	}

	row := firstRecord(t, results)
	return &model.Submission{
		ID:       recordID(row["id"]),
		Title:    o.Title,
		Director: o.Director,
		Program:  o.Program,
		Status:   o.Status,
	}
}

// ============================================================================
// Result Parsing
// ============================================================================

// firstRecord extracts the first record map from a query result
func firstRecord(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()

	if len(results) == 0 {
		t.Fatal("fixtures: query returned no results")
	}

	first := results[0]
	if resp, ok := first.(map[string]interface{}); ok {
		if arr, ok := resp["result"].([]interface{}); ok && len(arr) > 0 {
			first = arr[0]
		}
	}

	row, ok := first.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result shape %T", first)
	}
	return row
}

// recordID extracts a record ID string from the driver's representations
func recordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return v.String()
	case *models.RecordID:
		if v != nil {
			return v.String()
		}
	}

	if data, err := json.Marshal(id); err == nil {
		var rid models.RecordID
		if err := json.Unmarshal(data, &rid); err == nil {
			return rid.String()
		}
	}
	return ""
}

func speakerMaps(speakers []model.Speaker) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(speakers))
	for _, s := range speakers {
		out = append(out, map[string]interface{}{
			"id":   s.ID,
			"name": s.Name,
			"role": s.Role,
		})
	}
	return out
}

func (f *Factory) mustExec(t *testing.T, query string, vars map[string]interface{}) {
	t.Helper()
	if err := f.db.Execute(ctx(), query, vars); err != nil {
		t.Fatalf("fixtures: exec failed: %v", err)
	}
}
