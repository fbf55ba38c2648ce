package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"github.com/kinovera/festival/api/internal/database"
	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/repository"
)

// RegistrationRepositoryInterface defines the repository interface
type RegistrationRepositoryInterface interface {
	Register(ctx context.Context, activityID string, reg *model.Registration) (*model.Registration, error)
	Get(ctx context.Context, registrationID string) (*model.Registration, error)
	GetByTrackingCode(ctx context.Context, activityID, code string) (*model.Registration, error)
	ListByActivity(ctx context.Context, activityID string, filters model.RegistrationFilters) ([]*model.Registration, error)
	Update(ctx context.Context, registrationID string, updates map[string]interface{}) (*model.Registration, error)
	Delete(ctx context.Context, registrationID string) error
	BulkUpdateStatus(ctx context.Context, registrationIDs []string, status string) error
}

// ConfirmationMailer sends the registration confirmation. Sends are
// fire-and-forget: a mail failure never fails a registration.
type ConfirmationMailer interface {
	SendConfirmation(ctx context.Context, reg *model.Registration, activity *model.Activity) error
}

// trackingCodeAttempts bounds the generate-verify-retry loop. Collisions
// on an 8-character code are vanishingly rare; hitting the bound means
// something else is wrong.
const trackingCodeAttempts = 5

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)

// RegistrationService handles registration business logic
type RegistrationService struct {
	repo     RegistrationRepositoryInterface
	activity ActivityRepositoryInterface
	mailer   ConfirmationMailer
	validate *validator.Validate
	logger   *slog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(repo RegistrationRepositoryInterface, activity ActivityRepositoryInterface, mailer ConfirmationMailer, logger *slog.Logger) *RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &RegistrationService{
		repo:     repo,
		activity: activity,
		mailer:   mailer,
		validate: v,
		logger:   logger,
	}
}

// Register creates a registration for an activity. Input is validated
// locally before any store call; the store transaction then re-checks the
// activity state, the duplicate email and the tracking code atomically.
// Capacity is deliberately never checked: registration proceeds past a
// full activity and staff resolve the overflow.
func (s *RegistrationService) Register(ctx context.Context, activityID string, req *model.RegisterRequest, userAgent string) (*model.Registration, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, validationSummary(err))
	}

	reg := &model.Registration{
		Name:               strings.TrimSpace(req.Name),
		TransliteratedName: req.TransliteratedName,
		Email:              strings.TrimSpace(req.Email),
		Phone:              strings.TrimSpace(req.Phone),
		Category:           req.Category,
		Occupation:         req.Occupation,
		Organization:       req.Organization,
		Notes:              req.Notes,
		Source:             req.Source,
		UserAgent:          userAgent,
	}

	for attempt := 0; attempt < trackingCodeAttempts; attempt++ {
		code, err := generateTrackingCode()
		if err != nil {
			return nil, err
		}
		reg.TrackingCode = code

		created, err := s.repo.Register(ctx, activityID, reg)
		switch {
		case err == nil:
			s.sendConfirmation(ctx, activityID, created)
			return created, nil
		case errors.Is(err, repository.ErrCodeCollision):
			continue
		case errors.Is(err, repository.ErrRegistrationClosed):
			return nil, ErrRegistrationClosed
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateRegistration
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrActivityNotFound
		default:
			return nil, err
		}
	}

	return nil, ErrTrackingCodeExhausted
}

// sendConfirmation fires the confirmation mail without blocking or failing
// the registration.
func (s *RegistrationService) sendConfirmation(ctx context.Context, activityID string, reg *model.Registration) {
	if s.mailer == nil {
		return
	}

	activity, err := s.activity.Get(ctx, activityID)
	if err != nil || activity == nil {
		s.logger.Warn("confirmation mail skipped, activity lookup failed", "activity_id", activityID, "error", err)
		return
	}

	if err := s.mailer.SendConfirmation(ctx, reg, activity); err != nil {
		s.logger.Warn("confirmation mail failed", "registration_id", reg.ID, "error", err)
	}
}

// GetRegistration retrieves a registration by ID
func (s *RegistrationService) GetRegistration(ctx context.Context, registrationID string) (*model.Registration, error) {
	reg, err := s.repo.Get(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}
	return reg, nil
}

// LookupByTrackingCode is the attendee-facing lookup by activity and code.
func (s *RegistrationService) LookupByTrackingCode(ctx context.Context, activityID, code string) (*model.Registration, error) {
	if len(strings.TrimSpace(code)) != model.TrackingCodeLength {
		return nil, ErrRegistrationNotFound
	}

	reg, err := s.repo.GetByTrackingCode(ctx, activityID, code)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}
	return reg, nil
}

// ListRegistrations lists an activity's registrations for staff.
func (s *RegistrationService) ListRegistrations(ctx context.Context, activityID string, filters model.RegistrationFilters) ([]*model.Registration, error) {
	if filters.Status != nil && !model.ValidRegistrationStatus(*filters.Status) {
		return nil, ErrInvalidTransition
	}

	activity, err := s.activity.Get(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	return s.repo.ListByActivity(ctx, activityID, filters)
}

// UpdateRegistration applies a staff edit. Status changes go through the
// transition table; everything else is a plain partial update.
func (s *RegistrationService) UpdateRegistration(ctx context.Context, registrationID string, req *model.UpdateRegistrationRequest) (*model.Registration, error) {
	existing, err := s.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.TransliteratedName != nil {
		updates["transliterated_name"] = *req.TransliteratedName
	}
	if req.Phone != nil {
		if !phonePattern.MatchString(*req.Phone) {
			return nil, fmt.Errorf("%w: phone", ErrInvalidRegistration)
		}
		updates["phone"] = *req.Phone
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Occupation != nil {
		updates["occupation"] = *req.Occupation
	}
	if req.Organization != nil {
		updates["organization"] = *req.Organization
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		if !model.ValidRegistrationStatus(*req.Status) {
			return nil, ErrInvalidTransition
		}
		if !model.CanTransitionRegistration(existing.Status, *req.Status) {
			return nil, ErrInvalidTransition
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	return s.repo.Update(ctx, registrationID, updates)
}

// UpdateStatus moves a single registration through the transition table.
func (s *RegistrationService) UpdateStatus(ctx context.Context, registrationID, status string) (*model.Registration, error) {
	return s.UpdateRegistration(ctx, registrationID, &model.UpdateRegistrationRequest{Status: &status})
}

// BulkUpdateStatus moves several registrations to one status. Every
// transition is validated before the atomic batch runs, so a single bad
// transition rejects the whole request.
func (s *RegistrationService) BulkUpdateStatus(ctx context.Context, registrationIDs []string, status string) error {
	if !model.ValidRegistrationStatus(status) {
		return ErrInvalidTransition
	}

	for _, id := range registrationIDs {
		reg, err := s.GetRegistration(ctx, id)
		if err != nil {
			return err
		}
		if !model.CanTransitionRegistration(reg.Status, status) {
			return fmt.Errorf("%w: %s cannot move from %s to %s", ErrInvalidTransition, id, reg.Status, status)
		}
	}

	return s.repo.BulkUpdateStatus(ctx, registrationIDs, status)
}

// DeleteRegistration removes a registration. The parent activity's counter
// is decremented inside the same store transaction as the delete.
func (s *RegistrationService) DeleteRegistration(ctx context.Context, registrationID string) error {
	err := s.repo.Delete(ctx, registrationID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrRegistrationNotFound
	}
	return err
}

// generateTrackingCode draws a fresh attendee-facing code from the
// tracking code alphabet using crypto/rand. Bytes past the largest
// multiple of the alphabet size are rejected so every character is
// equally likely.
func generateTrackingCode() (string, error) {
	charset := model.TrackingCodeCharset
	limit := byte(256 - 256%len(charset))

	code := make([]byte, 0, model.TrackingCodeLength)
	buf := make([]byte, model.TrackingCodeLength)
	for len(code) < model.TrackingCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate tracking code: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, charset[int(b)%len(charset)])
			if len(code) == model.TrackingCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// validationSummary flattens validator errors into a compact field list.
func validationSummary(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return strings.Join(fields, ", ")
}
