package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/repository"
)

// ActivityRepositoryInterface defines the repository interface
type ActivityRepositoryInterface interface {
	Create(ctx context.Context, activity *model.Activity) error
	Get(ctx context.Context, activityID string) (*model.Activity, error)
	Update(ctx context.Context, activityID string, updates map[string]interface{}) (*model.Activity, error)
	Delete(ctx context.Context, activityID string) error
	List(ctx context.Context, q model.ListQuery) ([]*model.Activity, repository.QueryPlan, error)
	ListAll(ctx context.Context) ([]*model.Activity, error)
	IncrementViewCount(ctx context.Context, activityID string) error
	BulkUpdateStatus(ctx context.Context, activityIDs []string, status, actor string) error
	BulkDelete(ctx context.Context, activityIDs []string) error
}

// ImageStore removes stored activity images when their owner goes away.
type ImageStore interface {
	Delete(ctx context.Context, key string) error
}

// ActivityService handles activity business logic
type ActivityService struct {
	repo   ActivityRepositoryInterface
	images ImageStore
	logger *slog.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(repo ActivityRepositoryInterface, images ImageStore, logger *slog.Logger) *ActivityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityService{repo: repo, images: images, logger: logger}
}

// CreateActivity creates a new activity. New activities default to draft
// and public unless the request says otherwise.
func (s *ActivityService) CreateActivity(ctx context.Context, actorID string, req *model.CreateActivityRequest) (*model.Activity, error) {
	if err := validateActivityRequest(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.ActivityStatusDraft
	}
	if !model.ValidActivityStatus(status) {
		return nil, ErrInvalidStatus
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.ActivityVisibilityPublic
	}
	if visibility != model.ActivityVisibilityPublic && visibility != model.ActivityVisibilityPrivate {
		return nil, ErrInvalidVisibility
	}

	activity := &model.Activity{
		Name:                 req.Name,
		ShortDescription:     req.ShortDescription,
		Description:          req.Description,
		EventDate:            req.EventDate,
		EventEndDate:         req.EventEndDate,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		RegistrationDeadline: req.RegistrationDeadline,
		Venue:                req.Venue,
		Organizers:           req.Organizers,
		Speakers:             assignSpeakerIDs(req.Speakers),
		Tags:                 req.Tags,
		Status:               status,
		Visibility:           visibility,
		Capacity:             req.Capacity,
		CreatedBy:            actorID,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// GetActivity retrieves an activity by ID
func (s *ActivityService) GetActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	activity, err := s.repo.Get(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// GetPublicActivity retrieves a published, public activity and bumps its
// view counter. The bump is best-effort; a failed increment never fails
// the read.
func (s *ActivityService) GetPublicActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	activity, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Status != model.ActivityStatusPublished || activity.Visibility != model.ActivityVisibilityPublic {
		return nil, ErrActivityNotFound
	}

	if err := s.repo.IncrementViewCount(ctx, activityID); err != nil {
		s.logger.Warn("view count increment failed", "activity_id", activityID, "error", err)
	} else {
		activity.ViewCount++
	}
	return activity, nil
}

// UpdateActivity applies a partial update. Only non-nil request fields are
// written; absent fields never reach storage.
func (s *ActivityService) UpdateActivity(ctx context.Context, actorID, activityID string, req *model.UpdateActivityRequest) (*model.Activity, error) {
	if _, err := s.GetActivity(ctx, activityID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrActivityNameEmpty
		}
		if len(*req.Name) > model.MaxActivityNameLength {
			return nil, ErrActivityNameLong
		}
		updates["name"] = *req.Name
	}
	if req.ShortDescription != nil {
		updates["short_description"] = *req.ShortDescription
	}
	if req.Description != nil {
		if len(*req.Description) > model.MaxActivityDescriptionLength {
			return nil, ErrDescriptionTooLong
		}
		updates["description"] = *req.Description
	}
	if req.ImagePath != nil {
		updates["image_path"] = *req.ImagePath
	}
	if req.EventDate != nil {
		updates["event_date"] = req.EventDate.Format(time.RFC3339)
	}
	if req.EventEndDate != nil {
		updates["event_end_date"] = req.EventEndDate.Format(time.RFC3339)
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.RegistrationDeadline != nil {
		updates["registration_deadline"] = req.RegistrationDeadline.Format(time.RFC3339)
	}
	if req.Venue != nil {
		updates["venue"] = map[string]interface{}{
			"name":    req.Venue.Name,
			"address": req.Venue.Address,
			"city":    req.Venue.City,
			"room":    req.Venue.Room,
		}
	}
	if req.Organizers != nil {
		updates["organizers"] = req.Organizers
	}
	if req.Speakers != nil {
		if len(req.Speakers) > model.MaxActivitySpeakers {
			return nil, ErrTooManySpeakers
		}
		updates["speakers"] = assignSpeakerIDs(req.Speakers)
	}
	if req.Tags != nil {
		if len(req.Tags) > model.MaxActivityTags {
			return nil, ErrTooManyTags
		}
		updates["tags"] = req.Tags
	}
	if req.Status != nil {
		if !model.ValidActivityStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.Visibility != nil {
		if *req.Visibility != model.ActivityVisibilityPublic && *req.Visibility != model.ActivityVisibilityPrivate {
			return nil, ErrInvalidVisibility
		}
		updates["visibility"] = *req.Visibility
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}

	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}
	updates["updated_by"] = actorID

	return s.repo.Update(ctx, activityID, updates)
}

// DuplicateActivity copies an activity under a new name. The copy always
// starts as a private draft with zeroed counters, whatever the source was.
func (s *ActivityService) DuplicateActivity(ctx context.Context, actorID, activityID string) (*model.Activity, error) {
	source, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	copyActivity := &model.Activity{
		Name:                 source.Name + " (copy)",
		ShortDescription:     source.ShortDescription,
		Description:          source.Description,
		EventDate:            source.EventDate,
		EventEndDate:         source.EventEndDate,
		StartTime:            source.StartTime,
		EndTime:              source.EndTime,
		RegistrationDeadline: source.RegistrationDeadline,
		Venue:                source.Venue,
		Organizers:           source.Organizers,
		Speakers:             assignSpeakerIDs(source.Speakers),
		Tags:                 source.Tags,
		Status:               model.ActivityStatusDraft,
		Visibility:           model.ActivityVisibilityPrivate,
		Capacity:             source.Capacity,
		CreatedBy:            actorID,
	}

	if err := s.repo.Create(ctx, copyActivity); err != nil {
		return nil, err
	}
	return copyActivity, nil
}

// DeleteActivity removes an activity, its registrations and its stored
// images. The record delete is atomic; image cleanup is best-effort and
// only logged on failure.
func (s *ActivityService) DeleteActivity(ctx context.Context, activityID string) error {
	activity, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, activityID); err != nil {
		return err
	}

	s.cleanupImages(ctx, []*model.Activity{activity})
	return nil
}

// ListActivities runs the full listing pipeline: fetch per the query plan,
// then search, filter, sort and paginate client-side as needed.
func (s *ActivityService) ListActivities(ctx context.Context, q model.ListQuery) (model.Page[*model.Activity], error) {
	if q.Sort != nil && !validSortField(q.Sort.Field) {
		return model.Page[*model.Activity]{}, ErrInvalidSortField
	}
	if q.Filters.DateFrom != nil && q.Filters.DateTo != nil && q.Filters.DateFrom.After(*q.Filters.DateTo) {
		return model.Page[*model.Activity]{}, ErrInvalidDateRange
	}
	if q.Filters.Status != nil && !model.ValidActivityStatus(*q.Filters.Status) {
		return model.Page[*model.Activity]{}, ErrInvalidStatus
	}

	activities, plan, err := s.repo.List(ctx, q)
	if err != nil {
		return model.Page[*model.Activity]{}, err
	}

	activities = searchActivities(activities, q.Search)
	if !plan.ServerFiltered {
		activities = filterActivities(activities, q.Filters)
	}
	if !plan.ServerSorted {
		sortActivities(activities, q.Sort)
	}

	return paginate(activities, q.Page), nil
}

// ListPublicActivities is the attendee-facing listing: only published,
// public activities are visible, whatever else the query asks for.
func (s *ActivityService) ListPublicActivities(ctx context.Context, q model.ListQuery) (model.Page[*model.Activity], error) {
	published := model.ActivityStatusPublished
	public := model.ActivityVisibilityPublic
	q.Filters.Status = &published
	q.Filters.Visibility = &public
	return s.ListActivities(ctx, q)
}

// BulkUpdateStatus sets the status on a set of activities atomically.
func (s *ActivityService) BulkUpdateStatus(ctx context.Context, actorID string, activityIDs []string, status string) error {
	if !model.ValidActivityStatus(status) {
		return ErrInvalidStatus
	}
	return s.repo.BulkUpdateStatus(ctx, activityIDs, status, actorID)
}

// BulkDelete removes a set of activities and their registrations in one
// atomic batch, then cleans their images up concurrently.
func (s *ActivityService) BulkDelete(ctx context.Context, activityIDs []string) error {
	activities := make([]*model.Activity, 0, len(activityIDs))
	for _, id := range activityIDs {
		activity, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if activity != nil {
			activities = append(activities, activity)
		}
	}

	if err := s.repo.BulkDelete(ctx, activityIDs); err != nil {
		return err
	}

	s.cleanupImages(ctx, activities)
	return nil
}

// cleanupImages deletes the stored images of the given activities. Object
// deletes fan out concurrently; failures are logged and never propagate,
// the records are already gone.
func (s *ActivityService) cleanupImages(ctx context.Context, activities []*model.Activity) {
	if s.images == nil {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, activity := range activities {
		keys := make([]string, 0, 1+len(activity.Speakers))
		if activity.ImagePath != nil && *activity.ImagePath != "" {
			keys = append(keys, *activity.ImagePath)
		}
		for _, sp := range activity.Speakers {
			if sp.ImagePath != nil && *sp.ImagePath != "" {
				keys = append(keys, *sp.ImagePath)
			}
		}

		for _, key := range keys {
			key := key
			g.Go(func() error {
				if err := s.images.Delete(ctx, key); err != nil {
					s.logger.Warn("image cleanup failed", "key", key, "error", err)
				}
				return nil
			})
		}
	}

	_ = g.Wait()
}

func validateActivityRequest(req *model.CreateActivityRequest) error {
	if req.Name == "" {
		return ErrActivityNameEmpty
	}
	if len(req.Name) > model.MaxActivityNameLength {
		return ErrActivityNameLong
	}
	if req.Description != nil && len(*req.Description) > model.MaxActivityDescriptionLength {
		return ErrDescriptionTooLong
	}
	if len(req.Speakers) > model.MaxActivitySpeakers {
		return ErrTooManySpeakers
	}
	if len(req.Tags) > model.MaxActivityTags {
		return ErrTooManyTags
	}
	return nil
}

// assignSpeakerIDs gives every speaker without an ID a fresh one. Speaker
// IDs address storage paths and array updates, nothing else.
func assignSpeakerIDs(speakers []model.Speaker) []model.Speaker {
	out := make([]model.Speaker, len(speakers))
	copy(out, speakers)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

func validSortField(field string) bool {
	switch field {
	case model.SortByDate, model.SortByName, model.SortByRegistered, model.SortByViews, model.SortByCreated:
		return true
	}
	return false
}
