package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kinovera/festival/api/internal/database"
	"github.com/kinovera/festival/api/internal/model"
)

// Sentinel errors surfaced by the registration transaction. They are mapped
// from THROW reasons inside the store script, so the checks they stand for
// happened atomically with the write.
var (
	ErrRegistrationClosed = errors.New("activity is not open for registration")
	ErrDuplicateEmail     = errors.New("email already registered for activity")
	ErrCodeCollision      = errors.New("tracking code already taken")
)

// registerScript is the whole register operation as one transaction. Every
// precondition is re-checked inside the transaction, so concurrent requests
// cannot interleave between check and write. The counter increments ride in
// the same transaction as the CREATE.
const registerScript = `
BEGIN TRANSACTION;
LET $act = (SELECT * FROM ONLY type::record($activity_id));
IF $act = NONE { THROW "activity_not_found" };
IF $act.status != "published" { THROW "registration_closed" };
IF $act.registration_deadline != NONE AND time::now() > $act.registration_deadline { THROW "registration_closed" };
LET $dup = (SELECT count() AS count FROM registration WHERE activity = type::record($activity_id) AND string::lowercase(email) = $email_lower GROUP ALL);
IF array::len($dup) > 0 AND $dup[0].count > 0 { THROW "duplicate_email" };
LET $clash = (SELECT count() AS count FROM registration WHERE activity = type::record($activity_id) AND tracking_code = $tracking_code GROUP ALL);
IF array::len($clash) > 0 AND $clash[0].count > 0 { THROW "code_collision" };
CREATE registration CONTENT {
	activity: type::record($activity_id),
	name: $name,
	transliterated_name: $transliterated_name,
	email: $email,
	phone: $phone,
	category: $category,
	occupation: $occupation,
	organization: $organization,
	tracking_code: $tracking_code,
	status: "registered",
	notes: $notes,
	source: $source,
	user_agent: $user_agent,
	created_on: time::now(),
	updated_on: time::now()
} RETURN AFTER;
UPDATE type::record($activity_id) SET
	registered_count += 1,
	analytics.total_registrations += 1,
	analytics.last_registration_on = time::now(),
	updated_on = time::now();
COMMIT TRANSACTION;
`

// RegistrationRepository handles registration data access
type RegistrationRepository struct {
	db database.Database
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db database.Database) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Register creates a registration atomically: the activity existence and
// open-state checks, the per-activity duplicate email check, the tracking
// code uniqueness check, the insert and the counter increment all happen in
// one store transaction. Returns ErrCodeCollision when only the tracking
// code clashed; the caller retries with a fresh code.
func (r *RegistrationRepository) Register(ctx context.Context, activityID string, reg *model.Registration) (*model.Registration, error) {
	vars := map[string]interface{}{
		"activity_id":         activityID,
		"name":                reg.Name,
		"transliterated_name": reg.TransliteratedName,
		"email":               reg.Email,
		"email_lower":         strings.ToLower(reg.Email),
		"phone":               reg.Phone,
		"category":            reg.Category,
		"occupation":          reg.Occupation,
		"organization":        reg.Organization,
		"tracking_code":       reg.TrackingCode,
		"notes":               reg.Notes,
		"source":              reg.Source,
		"user_agent":          reg.UserAgent,
	}

	result, err := r.db.Query(ctx, registerScript, vars)
	if err != nil {
		switch database.ThrowReason(err) {
		case "activity_not_found":
			return nil, database.ErrNotFound
		case "registration_closed":
			return nil, ErrRegistrationClosed
		case "duplicate_email":
			return nil, ErrDuplicateEmail
		case "code_collision":
			return nil, ErrCodeCollision
		}
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	created := findCreatedRegistration(result)
	if created == nil {
		return nil, database.ErrQuery
	}
	return created, nil
}

// Get retrieves a registration by ID
func (r *RegistrationRepository) Get(ctx context.Context, registrationID string) (*model.Registration, error) {
	query := `SELECT * FROM ONLY type::record($registration_id)`
	vars := map[string]interface{}{"registration_id": registrationID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	return parseRegistration(result)
}

// GetByTrackingCode looks a registration up by its attendee-facing code,
// scoped to one activity.
func (r *RegistrationRepository) GetByTrackingCode(ctx context.Context, activityID, code string) (*model.Registration, error) {
	query := `SELECT * FROM registration WHERE activity = type::record($activity_id) AND tracking_code = $code LIMIT 1`
	vars := map[string]interface{}{
		"activity_id": activityID,
		"code":        strings.ToUpper(strings.TrimSpace(code)),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tracking code: %w", err)
	}

	regs := parseRegistrations(result)
	if len(regs) == 0 {
		return nil, nil
	}
	return regs[0], nil
}

// ListByActivity returns every registration of one activity, optionally
// narrowed by status or category. Ordered by creation so exports are stable.
func (r *RegistrationRepository) ListByActivity(ctx context.Context, activityID string, filters model.RegistrationFilters) ([]*model.Registration, error) {
	query := `SELECT * FROM registration WHERE activity = type::record($activity_id)`
	vars := map[string]interface{}{"activity_id": activityID}

	if filters.Status != nil {
		query += ` AND status = $status`
		vars["status"] = *filters.Status
	}
	if filters.Category != nil {
		query += ` AND category = $category`
		vars["category"] = *filters.Category
	}
	query += ` ORDER BY created_on ASC`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	return parseRegistrations(result), nil
}

// Update applies a partial update to a registration. Status transitions are
// validated by the service before this is called.
func (r *RegistrationRepository) Update(ctx context.Context, registrationID string, updates map[string]interface{}) (*model.Registration, error) {
	if len(updates) == 0 {
		return r.Get(ctx, registrationID)
	}

	query := `UPDATE type::record($registration_id) SET updated_on = time::now()`
	vars := map[string]interface{}{"registration_id": registrationID}

	for key, value := range updates {
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	return parseRegistration(result)
}

// Delete removes a registration and decrements its activity's counter in
// the same transaction, clamped at zero.
func (r *RegistrationRepository) Delete(ctx context.Context, registrationID string) error {
	script := `
BEGIN TRANSACTION;
LET $reg = (SELECT * FROM ONLY type::record($registration_id));
IF $reg = NONE { THROW "registration_not_found" };
DELETE type::record($registration_id);
UPDATE $reg.activity SET registered_count = math::max([0, registered_count - 1]), updated_on = time::now();
COMMIT TRANSACTION;
`
	vars := map[string]interface{}{"registration_id": registrationID}

	if _, err := r.db.Query(ctx, script, vars); err != nil {
		if database.ThrowReason(err) == "registration_not_found" {
			return database.ErrNotFound
		}
		return err
	}
	return nil
}

// BulkUpdateStatus sets the status of every listed registration in one
// atomic batch.
func (r *RegistrationRepository) BulkUpdateStatus(ctx context.Context, registrationIDs []string, status string) error {
	if len(registrationIDs) == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, id := range registrationIDs {
		batch.Add(`UPDATE type::record($id) SET status = $status, updated_on = time::now()`,
			map[string]interface{}{"id": id, "status": status})
	}
	return batch.Execute(ctx, r.db)
}

// CountByActivity counts stored registrations per activity, for counter
// reconciliation.
func (r *RegistrationRepository) CountByActivity(ctx context.Context, activityID string) (int, error) {
	query := `SELECT count() AS count FROM registration WHERE activity = type::record($activity_id) GROUP ALL`
	vars := map[string]interface{}{"activity_id": activityID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	return getCount(result), nil
}

// findCreatedRegistration scans a multi-statement transaction result for
// the created registration record. The CREATE is the only statement whose
// result carries a tracking_code field.
func findCreatedRegistration(result []interface{}) *model.Registration {
	for _, res := range result {
		rows := []interface{}{res}
		if resp, ok := res.(map[string]interface{}); ok {
			if inner, ok := resp["result"].([]interface{}); ok {
				rows = inner
			} else if inner, ok := resp["result"].(map[string]interface{}); ok {
				rows = []interface{}{inner}
			}
		}
		for _, row := range rows {
			data, ok := row.(map[string]interface{})
			if !ok {
				continue
			}
			if _, has := data["tracking_code"]; !has {
				continue
			}
			if reg, err := parseRegistration(data); err == nil {
				return reg
			}
		}
	}
	return nil
}

func parseRegistration(result interface{}) (*model.Registration, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	reg := &model.Registration{
		ID:                 convertSurrealID(data["id"]),
		ActivityID:         convertSurrealID(data["activity"]),
		Name:               getString(data, "name"),
		TransliteratedName: getStringPtr(data, "transliterated_name"),
		Email:              getString(data, "email"),
		Phone:              getString(data, "phone"),
		Category:           getString(data, "category"),
		Occupation:         getStringPtr(data, "occupation"),
		Organization:       getStringPtr(data, "organization"),
		TrackingCode:       getString(data, "tracking_code"),
		Status:             getString(data, "status"),
		Notes:              getStringPtr(data, "notes"),
		Source:             getString(data, "source"),
		UserAgent:          getString(data, "user_agent"),
	}

	if t := getTime(data, "created_on"); t != nil {
		reg.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		reg.UpdatedOn = *t
	}

	return reg, nil
}

func parseRegistrations(result []interface{}) []*model.Registration {
	regs := make([]*model.Registration, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					if reg, err := parseRegistration(item); err == nil {
						regs = append(regs, reg)
					}
				}
				continue
			}
		}

		if reg, err := parseRegistration(res); err == nil {
			regs = append(regs, reg)
		}
	}

	return regs
}
