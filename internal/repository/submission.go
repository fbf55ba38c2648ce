package repository

import (
	"context"
	"errors"

	"github.com/kinovera/festival/api/internal/database"
	"github.com/kinovera/festival/api/internal/model"
)

// SubmissionRepository reads the film submission collection. The collection
// is written by the external submission pipeline; this API never mutates it.
type SubmissionRepository struct {
	db database.Database
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db database.Database) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// ListSelected returns the selected submissions of one program, ordered by
// title for stable program listings.
func (r *SubmissionRepository) ListSelected(ctx context.Context, program string) ([]model.Submission, error) {
	query := `SELECT * FROM submission WHERE program = $program AND status = $status ORDER BY title ASC`
	vars := map[string]interface{}{
		"program": program,
		"status":  model.SubmissionStatusSelected,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseSubmissions(result), nil
}

// Programs returns the distinct program names that have at least one
// selected submission.
func (r *SubmissionRepository) Programs(ctx context.Context) ([]string, error) {
	query := `SELECT program FROM submission WHERE status = $status GROUP BY program`
	vars := map[string]interface{}{"status": model.SubmissionStatusSelected}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, _ := extractQueryResults(result)
	programs := make([]string, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			if p := getString(data, "program"); p != "" {
				programs = append(programs, p)
			}
		}
	}
	return programs, nil
}

func parseSubmission(result interface{}) (*model.Submission, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	sub := &model.Submission{
		ID:             convertSurrealID(data["id"]),
		Title:          getString(data, "title"),
		OriginalTitle:  getStringPtr(data, "original_title"),
		Director:       getString(data, "director"),
		Country:        getString(data, "country"),
		Year:           getInt(data, "year"),
		RuntimeMinutes: getInt(data, "runtime_minutes"),
		Program:        getString(data, "program"),
		Status:         getString(data, "status"),
	}

	if t := getTime(data, "submitted_on"); t != nil {
		sub.SubmittedOn = *t
	}

	return sub, nil
}

func parseSubmissions(result []interface{}) []model.Submission {
	subs := make([]model.Submission, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					if sub, err := parseSubmission(item); err == nil {
						subs = append(subs, *sub)
					}
				}
				continue
			}
		}

		if sub, err := parseSubmission(res); err == nil {
			subs = append(subs, *sub)
		}
	}

	return subs
}
