package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kinovera/festival/api/internal/database"
	"github.com/kinovera/festival/api/internal/model"
)

// QueryPlan reports how much of a listing the store executed. Whatever was
// not pushed server-side is the service layer's responsibility.
type QueryPlan struct {
	ServerFiltered bool
	ServerSorted   bool
}

// ActivityRepository handles activity data access
type ActivityRepository struct {
	db database.Database
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db database.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create creates a new activity
func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	// Build query dynamically to avoid NULL values
	fields := []string{
		"name: $name",
		"event_date: <datetime> $event_date",
		"venue: $venue",
		"organizers: $organizers",
		"speakers: $speakers",
		"tags: $tags",
		"status: $status",
		"visibility: $visibility",
		"capacity: $capacity",
		"registered_count: 0",
		"waitlist_count: 0",
		"view_count: 0",
		"analytics: { total_registrations: 0 }",
		"created_by: $created_by",
		"updated_by: $created_by",
		"created_on: time::now()",
		"updated_on: time::now()",
	}
	vars := map[string]interface{}{
		"name":       activity.Name,
		"event_date": activity.EventDate.Format(time.RFC3339),
		"venue":      venueToMap(activity.Venue),
		"organizers": activity.Organizers,
		"speakers":   speakersToMaps(activity.Speakers),
		"tags":       activity.Tags,
		"status":     activity.Status,
		"visibility": activity.Visibility,
		"capacity":   activity.Capacity,
		"created_by": activity.CreatedBy,
	}

	if activity.ShortDescription != nil {
		fields = append(fields, "short_description: $short_description")
		vars["short_description"] = *activity.ShortDescription
	}
	if activity.Description != nil {
		fields = append(fields, "description: $description")
		vars["description"] = *activity.Description
	}
	if activity.ImagePath != nil {
		fields = append(fields, "image_path: $image_path")
		vars["image_path"] = *activity.ImagePath
	}
	if activity.EventEndDate != nil {
		fields = append(fields, "event_end_date: <datetime> $event_end_date")
		vars["event_end_date"] = activity.EventEndDate.Format(time.RFC3339)
	}
	if activity.StartTime != "" {
		fields = append(fields, "start_time: $start_time")
		vars["start_time"] = activity.StartTime
	}
	if activity.EndTime != "" {
		fields = append(fields, "end_time: $end_time")
		vars["end_time"] = activity.EndTime
	}
	if activity.RegistrationDeadline != nil {
		fields = append(fields, "registration_deadline: <datetime> $registration_deadline")
		vars["registration_deadline"] = activity.RegistrationDeadline.Format(time.RFC3339)
	}

	query := fmt.Sprintf("CREATE activity CONTENT { %s } RETURN AFTER", strings.Join(fields, ", "))

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	created, err := parseActivity(result)
	if err != nil {
		return fmt.Errorf("failed to extract created activity: %w", err)
	}

	activity.ID = created.ID
	activity.CreatedOn = created.CreatedOn
	activity.UpdatedOn = created.UpdatedOn
	return nil
}

// Get retrieves an activity by ID
func (r *ActivityRepository) Get(ctx context.Context, activityID string) (*model.Activity, error) {
	query := `SELECT * FROM ONLY type::record($activity_id)`
	vars := map[string]interface{}{"activity_id": activityID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	return parseActivity(result)
}

// Update applies a partial update. Only the keys present in updates are
// written; absent fields keep their stored values.
func (r *ActivityRepository) Update(ctx context.Context, activityID string, updates map[string]interface{}) (*model.Activity, error) {
	if len(updates) == 0 {
		return r.Get(ctx, activityID)
	}

	query := `UPDATE type::record($activity_id) SET updated_on = time::now()`
	vars := map[string]interface{}{"activity_id": activityID}

	for key, value := range updates {
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	return parseActivity(result)
}

// Delete removes an activity and all of its registrations atomically.
func (r *ActivityRepository) Delete(ctx context.Context, activityID string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE registration WHERE activity = type::record($activity_id)`,
		map[string]interface{}{"activity_id": activityID})
	batch.Add(`DELETE type::record($activity_id)`,
		map[string]interface{}{"activity_id": activityID})
	return batch.Execute(ctx, r.db)
}

// List fetches activity candidates for a listing. At most one native
// constraint is pushed to the store; richer filter combinations fall back
// to a broad fetch so no composite index is ever required. The returned
// plan tells the caller what remains to be done client-side.
func (r *ActivityRepository) List(ctx context.Context, q model.ListQuery) ([]*model.Activity, QueryPlan, error) {
	plan := QueryPlan{}
	query := `SELECT * FROM activity`
	vars := map[string]interface{}{}

	if q.Filters.Count() <= 1 {
		plan.ServerFiltered = true
		switch {
		case q.Filters.Status != nil:
			query += ` WHERE status = $status`
			vars["status"] = *q.Filters.Status
		case q.Filters.Visibility != nil:
			query += ` WHERE visibility = $visibility`
			vars["visibility"] = *q.Filters.Visibility
		case q.Filters.Tag != nil:
			query += ` WHERE $tag IN tags`
			vars["tag"] = *q.Filters.Tag
		case q.Filters.DateFrom != nil || q.Filters.DateTo != nil:
			switch {
			case q.Filters.DateFrom != nil && q.Filters.DateTo != nil:
				query += ` WHERE event_date >= $date_from AND event_date <= $date_to`
				vars["date_from"] = *q.Filters.DateFrom
				vars["date_to"] = *q.Filters.DateTo
			case q.Filters.DateFrom != nil:
				query += ` WHERE event_date >= $date_from`
				vars["date_from"] = *q.Filters.DateFrom
			default:
				query += ` WHERE event_date <= $date_to`
				vars["date_to"] = *q.Filters.DateTo
			}
		}

		if q.Sort != nil {
			if field, ok := nativeSortField(q.Sort.Field); ok {
				dir := "ASC"
				if q.Sort.Desc {
					dir = "DESC"
				}
				// Secondary name key keeps ordering stable for equal
				// primary values, matching the client-side tie-break.
				query += fmt.Sprintf(` ORDER BY %s %s, name ASC`, field, dir)
				plan.ServerSorted = true
			}
		}
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, plan, fmt.Errorf("failed to list activities: %w", err)
	}

	return parseActivities(result), plan, nil
}

// ListAll loads every activity regardless of status or visibility, for
// admin views. If the ordered query fails, it retries once without the
// ordering clause.
func (r *ActivityRepository) ListAll(ctx context.Context) ([]*model.Activity, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM activity ORDER BY created_on DESC`, nil)
	if err != nil {
		result, err = r.db.Query(ctx, `SELECT * FROM activity`, nil)
		if err != nil {
			return nil, err
		}
	}

	return parseActivities(result), nil
}

// IncrementViewCount bumps the public detail view counter.
func (r *ActivityRepository) IncrementViewCount(ctx context.Context, activityID string) error {
	query := `UPDATE type::record($activity_id) SET view_count += 1`
	vars := map[string]interface{}{"activity_id": activityID}
	return r.db.Execute(ctx, query, vars)
}

// BulkUpdateStatus sets the status of every listed activity in one atomic
// batch. The batch either fully commits or leaves nothing changed.
func (r *ActivityRepository) BulkUpdateStatus(ctx context.Context, activityIDs []string, status, actor string) error {
	if len(activityIDs) == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, id := range activityIDs {
		batch.Add(`UPDATE type::record($id) SET status = $status, updated_by = $actor, updated_on = time::now()`,
			map[string]interface{}{"id": id, "status": status, "actor": actor})
	}
	return batch.Execute(ctx, r.db)
}

// BulkDelete removes the listed activities and their registrations in one
// atomic batch.
func (r *ActivityRepository) BulkDelete(ctx context.Context, activityIDs []string) error {
	if len(activityIDs) == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, id := range activityIDs {
		batch.Add(`DELETE registration WHERE activity = type::record($id)`,
			map[string]interface{}{"id": id})
		batch.Add(`DELETE type::record($id)`,
			map[string]interface{}{"id": id})
	}
	return batch.Execute(ctx, r.db)
}

// IDs returns the record IDs of all activities, for the counter
// reconciliation job.
func (r *ActivityRepository) IDs(ctx context.Context) ([]string, error) {
	result, err := r.db.Query(ctx, `SELECT id FROM activity`, nil)
	if err != nil {
		return nil, err
	}

	rows, _ := extractQueryResults(result)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			if id := convertSurrealID(data["id"]); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// SetCounters writes the denormalized registration counters directly.
// Used by the reconciliation job; regular mutations maintain counters in
// the same transaction as the mutation itself.
func (r *ActivityRepository) SetCounters(ctx context.Context, activityID string, registered, waitlist int) error {
	query := `UPDATE type::record($activity_id) SET registered_count = $registered, waitlist_count = $waitlist`
	vars := map[string]interface{}{
		"activity_id": activityID,
		"registered":  registered,
		"waitlist":    waitlist,
	}
	return r.db.Execute(ctx, query, vars)
}

func nativeSortField(field string) (string, bool) {
	switch field {
	case model.SortByDate, model.SortByName, model.SortByRegistered, model.SortByViews, model.SortByCreated:
		return field, true
	}
	return "", false
}

// Parsing helpers

func venueToMap(v model.Venue) map[string]interface{} {
	return map[string]interface{}{
		"name":    v.Name,
		"address": v.Address,
		"city":    v.City,
		"room":    v.Room,
	}
}

func speakersToMaps(speakers []model.Speaker) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(speakers))
	for _, s := range speakers {
		out = append(out, map[string]interface{}{
			"id":         s.ID,
			"name":       s.Name,
			"role":       s.Role,
			"bio":        s.Bio,
			"contact":    s.Contact,
			"image_path": s.ImagePath,
		})
	}
	return out
}

func parseActivity(result interface{}) (*model.Activity, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	activity := &model.Activity{
		ID:               convertSurrealID(data["id"]),
		Name:             getString(data, "name"),
		ShortDescription: getStringPtr(data, "short_description"),
		Description:      getStringPtr(data, "description"),
		ImagePath:        getStringPtr(data, "image_path"),
		StartTime:        getString(data, "start_time"),
		EndTime:          getString(data, "end_time"),
		Organizers:       getStringSlice(data, "organizers"),
		Tags:             getStringSlice(data, "tags"),
		Status:           getString(data, "status"),
		Visibility:       getString(data, "visibility"),
		Capacity:         getInt(data, "capacity"),
		RegisteredCount:  getInt(data, "registered_count"),
		WaitlistCount:    getInt(data, "waitlist_count"),
		ViewCount:        getInt(data, "view_count"),
		CreatedBy:        getString(data, "created_by"),
		UpdatedBy:        getString(data, "updated_by"),
	}

	if t := getTime(data, "event_date"); t != nil {
		activity.EventDate = *t
	}
	activity.EventEndDate = getTime(data, "event_end_date")
	activity.RegistrationDeadline = getTime(data, "registration_deadline")
	if t := getTime(data, "created_on"); t != nil {
		activity.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		activity.UpdatedOn = *t
	}

	if venue, ok := data["venue"].(map[string]interface{}); ok {
		activity.Venue = model.Venue{
			Name:    getString(venue, "name"),
			Address: getStringPtr(venue, "address"),
			City:    getString(venue, "city"),
			Room:    getStringPtr(venue, "room"),
		}
	}

	if speakers, ok := data["speakers"].([]interface{}); ok {
		for _, item := range speakers {
			if sm, ok := item.(map[string]interface{}); ok {
				activity.Speakers = append(activity.Speakers, model.Speaker{
					ID:        getString(sm, "id"),
					Name:      getString(sm, "name"),
					Role:      getString(sm, "role"),
					Bio:       getStringPtr(sm, "bio"),
					Contact:   getStringPtr(sm, "contact"),
					ImagePath: getStringPtr(sm, "image_path"),
				})
			}
		}
	}

	return activity, nil
}

func parseActivities(result []interface{}) []*model.Activity {
	activities := make([]*model.Activity, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					if activity, err := parseActivity(item); err == nil {
						activities = append(activities, activity)
					}
				}
				continue
			}
		}

		if activity, err := parseActivity(res); err == nil {
			activities = append(activities, activity)
		}
	}

	return activities
}
