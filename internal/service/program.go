package service

import (
	"context"
	"sort"

	"github.com/kinovera/festival/api/internal/model"
)

// SubmissionRepositoryInterface defines the repository interface
type SubmissionRepositoryInterface interface {
	ListSelected(ctx context.Context, program string) ([]model.Submission, error)
	Programs(ctx context.Context) ([]string, error)
}

// ProgramService renders the public film program from the read-only
// submission collection.
type ProgramService struct {
	repo SubmissionRepositoryInterface
}

// NewProgramService creates a new program service
func NewProgramService(repo SubmissionRepositoryInterface) *ProgramService {
	return &ProgramService{repo: repo}
}

// ListPrograms returns every program that has selected films, with its
// films, ordered by program name.
func (s *ProgramService) ListPrograms(ctx context.Context) ([]model.ProgramListing, error) {
	programs, err := s.repo.Programs(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(programs)

	listings := make([]model.ProgramListing, 0, len(programs))
	for _, program := range programs {
		films, err := s.repo.ListSelected(ctx, program)
		if err != nil {
			return nil, err
		}
		listings = append(listings, model.ProgramListing{Program: program, Films: films})
	}
	return listings, nil
}

// GetProgram returns a single program's selected films.
func (s *ProgramService) GetProgram(ctx context.Context, program string) (*model.ProgramListing, error) {
	films, err := s.repo.ListSelected(ctx, program)
	if err != nil {
		return nil, err
	}
	if len(films) == 0 {
		return nil, ErrProgramNotFound
	}
	return &model.ProgramListing{Program: program, Films: films}, nil
}
