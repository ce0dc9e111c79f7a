package ports

import (
	"context"

	"psymatch/domain/core"
	"psymatch/models"
)

// CandidateRepository defines candidate persistence.
type CandidateRepository interface {
	// CreateCandidate persists a new candidate
	CreateCandidate(ctx context.Context, candidate *models.Candidate) error

	// GetCandidate retrieves a candidate by ID
	GetCandidate(ctx context.Context, id core.CandidateID) (*models.Candidate, error)

	// GetCandidateByEmail retrieves a candidate by email, used to make
	// assessment creation idempotent per applicant
	GetCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error)
}
